// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store persists leads behind a single interface with two
// interchangeable relational backends: an embedded SQLite database and
// a networked PostgreSQL database. The backend is chosen once at startup;
// everything above this package depends only on the Store interface.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/olegiv/leadflow/internal/model"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Store is the persistence contract for leads. Implementations hold one
// shared connection pool that is safe for concurrent use.
type Store interface {
	// InsertLead atomically records a validated lead and returns it with
	// the engine-assigned id and timestamp filled in.
	InsertLead(ctx context.Context, name, email string) (model.Lead, error)

	// ListLeads returns every lead, newest first (created_at descending,
	// id descending on ties).
	ListLeads(ctx context.Context) ([]model.Lead, error)

	// Migrate applies the backend's embedded migrations. Idempotent, run
	// on every cold start.
	Migrate() error

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// DB exposes the underlying pool for collaborators that share it,
	// such as the session store.
	DB() *sql.DB

	// Close releases the pool.
	Close() error
}

// listLeadsQuery is identical across both backends: no placeholders, and
// the id tiebreak keeps insertion order stable within one timestamp.
const listLeadsQuery = `SELECT id, name, email, created_at FROM submissions ORDER BY created_at DESC, id DESC`

// collectLeads scans a result set produced by listLeadsQuery.
func collectLeads(rows *sql.Rows) ([]model.Lead, error) {
	defer func() { _ = rows.Close() }()

	var leads []model.Lead
	for rows.Next() {
		var lead model.Lead
		if err := rows.Scan(&lead.ID, &lead.Name, &lead.Email, &lead.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leads: %w", err)
	}
	return leads, nil
}
