// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // SQLite driver for database/sql

	"github.com/olegiv/leadflow/internal/model"
)

// SQLite is the embedded backend, used when no database URL is configured.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite database at path and
// configures it for concurrent use.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// WAL allows the admin read path to scan while submissions insert.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Migrate applies the SQLite migrations. The schema statements are
// idempotent, so this is safe to run on every cold start.
func (s *SQLite) Migrate() error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations/sqlite"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// InsertLead records a lead in a single statement; the engine assigns the
// autoincrement id and the insert timestamp.
func (s *SQLite) InsertLead(ctx context.Context, name, email string) (model.Lead, error) {
	lead := model.Lead{Name: name, Email: email}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO submissions (name, email) VALUES (?, ?) RETURNING id, created_at`,
		name, email,
	).Scan(&lead.ID, &lead.CreatedAt)
	if err != nil {
		return model.Lead{}, fmt.Errorf("inserting lead: %w", err)
	}
	return lead, nil
}

// ListLeads returns all leads newest first.
func (s *SQLite) ListLeads(ctx context.Context) ([]model.Lead, error) {
	rows, err := s.db.QueryContext(ctx, listLeadsQuery)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	return collectLeads(rows)
}

// Ping verifies connectivity.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB exposes the shared pool.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Close releases the pool.
func (s *SQLite) Close() error {
	return s.db.Close()
}
