// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides the storage adapter that gives the embedded SQLite
// engine and the MySQL client-server engine one query interface, plus the
// schema initializer that migrates and seeds either of them.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// DB is the storage adapter shared by every caller. Exactly two
// implementations exist (SQLite and MySQL) and one is chosen by Open.
//
// Placeholders are positional ("?") on both engines.
type DB interface {
	// Query runs a read statement and returns its rows in order.
	Query(ctx context.Context, query string, args ...any) ([]Row, error)
	// Exec runs a write statement and reports the inserted id and affected rows.
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	// Execute classifies the statement by its leading keyword and dispatches
	// to Query or Exec. See IsReadQuery for the limits of the classification.
	Execute(ctx context.Context, query string, args ...any) (Outcome, error)

	Engine() Engine
	Ping(ctx context.Context) error
	Close() error

	// SQL exposes the underlying handle for the schema migrator.
	SQL() *sql.DB
}

// Result describes the effect of a write statement.
type Result struct {
	InsertID     int64 `json:"insertId"`
	AffectedRows int64 `json:"affectedRows"`
}

// Outcome is what Execute returns: Rows for read statements, Result otherwise.
type Outcome struct {
	Rows   []Row
	Result *Result
}

// IsRead reports whether the outcome carries rows.
func (o Outcome) IsRead() bool {
	return o.Result == nil
}

// IsReadQuery reports whether query is treated as a read statement.
//
// The check is textual: surrounding whitespace is trimmed and the text must
// start with SELECT (any case). Read-like statements with another leading
// keyword, such as a WITH common table expression or PRAGMA, are classified
// as writes. Callers that know the statement kind should use Query or Exec.
func IsReadQuery(query string) bool {
	return hasPrefixFold(strings.TrimSpace(query), "SELECT")
}

// isInsertQuery reports whether query starts with INSERT or REPLACE (any case).
func isInsertQuery(query string) bool {
	q := strings.TrimSpace(query)
	return hasPrefixFold(q, "INSERT") || hasPrefixFold(q, "REPLACE")
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// sqlDB holds the behavior both engines share on top of database/sql.
type sqlDB struct {
	db *sql.DB
}

func (s *sqlDB) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return result, nil
}

func (s *sqlDB) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return Result{}, fmt.Errorf("executing query: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return Result{}, fmt.Errorf("reading affected rows: %w", err)
	}

	// SQLite's last_insert_rowid is connection-wide and survives later
	// UPDATE and DELETE statements; MySQL reports 0 for them.
	var insertID int64
	if affected > 0 && isInsertQuery(query) {
		insertID, err = res.LastInsertId()
		if err != nil {
			insertID = 0
		}
	}

	return Result{InsertID: insertID, AffectedRows: affected}, nil
}

func (s *sqlDB) Execute(ctx context.Context, query string, args ...any) (Outcome, error) {
	if IsReadQuery(query) {
		rows, err := s.Query(ctx, query, args...)
		if err != nil {
			return Outcome{}, err
		}
		if rows == nil {
			rows = []Row{}
		}
		return Outcome{Rows: rows}, nil
	}

	res, err := s.Exec(ctx, query, args...)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Result: &res}, nil
}

func (s *sqlDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlDB) Close() error {
	return s.db.Close()
}

func (s *sqlDB) SQL() *sql.DB {
	return s.db
}
