// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/mysql/*.sql
var migrations embed.FS

// migrationDir returns the embedded migration directory and goose dialect for an engine.
func migrationDir(engine Engine) (dir, dialect string) {
	if engine == EngineMySQL {
		return "migrations/mysql", "mysql"
	}
	return "migrations/sqlite", "sqlite3"
}

// Migrate runs all pending schema migrations for the engine behind db.
// Tables are created with IF NOT EXISTS so stores created before migrations
// were tracked are adopted without error.
func Migrate(ctx context.Context, db DB) error {
	dir, dialect := migrationDir(db.Engine())

	goose.SetBaseFS(migrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.SQL(), dir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// Initialize prepares a store for serving: it migrates the schema and then
// seeds the default admin and sample post. It is safe to call on every start.
func Initialize(ctx context.Context, db DB) error {
	slog.Info("running database migrations", "engine", db.Engine())
	if err := Migrate(ctx, db); err != nil {
		return err
	}

	if err := Seed(ctx, db); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	slog.Info("database ready", "engine", db.Engine())
	return nil
}
