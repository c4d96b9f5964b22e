// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the oBlog project.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/olegiv/oblog/internal/store"
)

// TestLogger creates a logger that discards everything below warnings.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB opens a temporary SQLite store with the schema migrated but no
// seed data. The store is closed when the test ends.
func TestDB(t *testing.T) store.DB {
	t.Helper()

	db, err := store.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "oblog-test.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	return db
}

// SeededDB is TestDB plus the default admin and sample post.
func SeededDB(t *testing.T) store.DB {
	t.Helper()

	db := TestDB(t)
	if err := store.Seed(context.Background(), db); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return db
}
