// Package sqlite implements the repository interfaces on SQLite.
//
// WHY SQLITE?
// SQLite is an embedded database: the whole directory lives in one file next
// to the binary, and ":memory:" gives every test a fresh database. It is the
// default store for local runs, dirctl and tests. Hosted deployments point
// DATABASE_URL at Postgres instead (see ../postgres); both stores share the
// same schema and ordering rules.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite, so the binary builds without CGo or
// a C compiler. mattn/go-sqlite3 would need both.
//
// ERROR TRANSLATION:
// Callers never see driver errors they would have to recognise:
//   - sql.ErrNoRows            -> apperror.NotFound
//   - SQLITE_CONSTRAINT_UNIQUE -> apperror.Conflict
//   - anything else            -> wrapped with the operation that failed
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/team-directory/internal/repository"
)

var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and implements repository.Store.
type DB struct {
	conn *sql.DB
	now  func() time.Time
}

// New opens (or creates) the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/directory.db" → file-based database (persistent)
//   - ":memory:"          → in-memory database (tests; lost on close)
//
// Pragmas go in the DSN so every pooled connection gets them, not just the
// first one. foreign_keys is OFF by default in SQLite.
func New(dbPath string) (*DB, error) {
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each connection to ":memory:" is a separate, empty database.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets the listing page read while an onboarding write is in flight.
	if dbPath != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
		}
	}

	db := &DB{conn: conn, now: time.Now}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE ... IF NOT EXISTS keeps it idempotent.
//
// accounts holds sign-in identities; profiles holds the directory record
// with the same id. A profile row is never deleted by the application, so
// the foreign key only guards against orphans from manual edits.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
			password_hash TEXT,
			github_id     INTEGER UNIQUE,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating accounts table: %w", err)
	}

	_, err = db.conn.Exec(`
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
			created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_updated       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_profiles_last_name ON profiles(last_name);
	`)
	if err != nil {
		return fmt.Errorf("creating profiles table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// nullString converts between *string and SQL NULL.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
