// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql

	"github.com/olegiv/leadflow/internal/model"
)

// Postgres is the networked backend, selected by configuring a database URL.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres opens a connection pool to the database at url and verifies
// it with a bounded ping.
func OpenPostgres(url string) (*Postgres, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Migrate applies the PostgreSQL migrations, safe to run on every cold start.
func (p *Postgres) Migrate() error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(p.db, "migrations/postgres"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// InsertLead records a lead in a single statement; the serial id and the
// insert timestamp come back from the engine.
func (p *Postgres) InsertLead(ctx context.Context, name, email string) (model.Lead, error) {
	lead := model.Lead{Name: name, Email: email}
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO submissions (name, email) VALUES ($1, $2) RETURNING id, created_at`,
		name, email,
	).Scan(&lead.ID, &lead.CreatedAt)
	if err != nil {
		return model.Lead{}, fmt.Errorf("inserting lead: %w", err)
	}
	return lead, nil
}

// ListLeads returns all leads newest first.
func (p *Postgres) ListLeads(ctx context.Context) ([]model.Lead, error) {
	rows, err := p.db.QueryContext(ctx, listLeadsQuery)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	return collectLeads(rows)
}

// Ping verifies connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// DB exposes the shared pool.
func (p *Postgres) DB() *sql.DB {
	return p.db
}

// Close releases the pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}
