package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore creates a temporary migrated SQLite store.
func testStore(t *testing.T) *SQLite {
	t.Helper()

	path := filepath.Join(t.TempDir(), "leadflow-test.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return s
}

func TestInsertThenList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	before := time.Now().UTC().Truncate(time.Second)
	lead, err := s.InsertLead(ctx, "Ana", "ana@x.com")
	require.NoError(t, err)

	assert.Positive(t, lead.ID)
	assert.Equal(t, "Ana", lead.Name)
	assert.Equal(t, "ana@x.com", lead.Email)
	assert.False(t, lead.CreatedAt.Before(before), "created_at %v before insertion time %v", lead.CreatedAt, before)

	leads, err := s.ListLeads(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, lead.ID, leads[0].ID)
	assert.Equal(t, "Ana", leads[0].Name)
	assert.Equal(t, "ana@x.com", leads[0].Email)
}

func TestListLeads_Empty(t *testing.T) {
	s := testStore(t)

	leads, err := s.ListLeads(context.Background())
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestListLeads_NewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// Sequential inserts land within the same timestamp second, so the
	// ordering must fall back to the id tiebreak.
	var ids []int64
	for i := 1; i <= 3; i++ {
		lead, err := s.InsertLead(ctx, fmt.Sprintf("Lead %d", i), fmt.Sprintf("lead%d@x.com", i))
		require.NoError(t, err)
		ids = append(ids, lead.ID)
	}

	leads, err := s.ListLeads(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 3)

	assert.Equal(t, "Lead 3", leads[0].Name)
	assert.Equal(t, "Lead 2", leads[1].Name)
	assert.Equal(t, "Lead 1", leads[2].Name)
	assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, []int64{leads[0].ID, leads[1].ID, leads[2].ID})
}

func TestInsertLead_Concurrent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	idCh := make(chan int64, n)
	errCh := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lead, err := s.InsertLead(ctx, fmt.Sprintf("Lead %d", i), fmt.Sprintf("lead%d@x.com", i))
			if err != nil {
				errCh <- err
				return
			}
			idCh <- lead.ID
		}(i)
	}
	wg.Wait()
	close(idCh)
	close(errCh)

	for err := range errCh {
		t.Errorf("concurrent InsertLead: %v", err)
	}

	seen := make(map[int64]bool)
	for id := range idCh {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)

	leads, err := s.ListLeads(ctx)
	require.NoError(t, err)
	assert.Len(t, leads, n, "no lost writes")
}

func TestMigrate_Idempotent(t *testing.T) {
	s := testStore(t)

	// Safe to run on every cold start.
	require.NoError(t, s.Migrate())

	_, err := s.InsertLead(context.Background(), "Ana", "ana@x.com")
	require.NoError(t, err)
}
