package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/team-directory/internal/model"
)

// newTestDB returns a fresh in-memory database, closed when the test ends.
// Each call gets its own database, so tests never see each other's rows.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestAccount provisions an account (and its profile) for email.
func createTestAccount(t *testing.T, db *DB, email string) *model.Account {
	t.Helper()
	acct := &model.Account{Email: email}
	if err := db.CreateAccount(context.Background(), acct); err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return acct
}

func TestNew_MigrationsAreIdempotent(t *testing.T) {
	db := newTestDB(t)
	if err := db.migrate(); err != nil {
		t.Fatalf("second migrate() error = %v", err)
	}
}
