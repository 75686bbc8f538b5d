// Package postgres implements the repository interfaces on PostgreSQL via
// pgx's connection pool. It is the store for hosted deployments and mirrors
// the sqlite package's schema, ordering and error translation.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakif/team-directory/internal/repository"
)

var _ repository.Store = (*DB)(nil)

// uniqueViolation is the SQLSTATE for a UNIQUE constraint failure.
const uniqueViolation = "23505"

// DB wraps a pgx pool and implements repository.Store.
type DB struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// Connect opens a pool for databaseURL, pings it and runs migrations.
// A context without a deadline gets five seconds for the ping.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pcfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating pool: %w", err)
	}

	pingCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	db := &DB{pool: pool, now: time.Now}
	if err := db.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: running migrations: %w", err)
	}
	return db, nil
}

// Close releases every pooled connection.
func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

func (db *DB) migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL,
			password_hash TEXT,
			github_id     BIGINT UNIQUE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_email ON accounts (lower(email));
	`)
	if err != nil {
		return fmt.Errorf("creating accounts table: %w", err)
	}

	_, err = db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			id                 TEXT PRIMARY KEY REFERENCES accounts(id),
			email              TEXT NOT NULL,
			first_name         TEXT,
			last_name          TEXT,
			title              TEXT,
			team               TEXT,
			phone_number       TEXT,
			shiftboard_id      TEXT,
			hlsr_scheduling_id TEXT,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_updated       TIMESTAMPTZ NOT NULL DEFAULT now(),
			CHECK (last_updated >= created_at)
		);
		CREATE INDEX IF NOT EXISTS idx_profiles_last_name ON profiles (last_name);
	`)
	if err != nil {
		return fmt.Errorf("creating profiles table: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
