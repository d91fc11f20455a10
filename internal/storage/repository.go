// Package storage implements the ledger ports on SQLite. One row per entity
// instance; month columns hold canonical "YYYY-MM" text and amounts are
// integer cents.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"huishoudboekje/internal/core"
	applog "huishoudboekje/internal/log"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an update or delete touches zero rows.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db  *sql.DB
	log *applog.Logger
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:  db,
		log: applog.Component(applog.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// scanMonth converts a stored month column back into a MonthKey. Stored
// values are written through MonthKey.String, so a parse failure means the
// database was edited out of band.
func scanMonth(s string) (core.MonthKey, error) {
	m, err := core.ParseMonthKey(s)
	if err != nil {
		return core.MonthKey{}, fmt.Errorf("corrupt month column %q: %w", s, err)
	}
	return m, nil
}

// execExpectingRow runs a statement that must affect at least one row and
// maps a zero-row result to ErrNotFound.
func (r *SQLiteRepository) execExpectingRow(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) insertReturningID(ctx context.Context, query string, args ...any) (int64, time.Time, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, append(args, now)...)
	if err != nil {
		return 0, time.Time{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, time.Time{}, err
	}
	return id, now, nil
}
