package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"

	"github.com/sakif/team-directory/internal/apperror"
	"github.com/sakif/team-directory/internal/model"
)

// CreateAccount provisions an account and its profile row.
//
// Both inserts share one transaction: an account without a profile would
// sign in and then 404 on its own page. The profile starts with only
// id, email and timestamps; onboarding fills in the rest.
func (db *DB) CreateAccount(ctx context.Context, acct *model.Account) error {
	acct.ID = xid.New().String()
	acct.CreatedAt = db.now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning account insert: %w", err)
	}
	defer tx.Rollback()

	var githubID sql.NullInt64
	if acct.GitHubID != nil {
		githubID = sql.NullInt64{Int64: *acct.GitHubID, Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO accounts (id, email, password_hash, github_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		acct.ID,
		acct.Email,
		nullString(acct.PasswordHash),
		githubID,
		acct.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("account", acct.Email)
		}
		return fmt.Errorf("sqlite: inserting account %s: %w", acct.Email, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (id, email, created_at, last_updated)
		 VALUES (?, ?, ?, ?)`,
		acct.ID,
		acct.Email,
		acct.CreatedAt,
		acct.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting profile for account %s: %w", acct.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing account %s: %w", acct.ID, err)
	}
	return nil
}

// GetAccountByEmail looks an account up by email, case-insensitively.
func (db *DB) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	acct, err := scanAccount(db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, github_id, created_at
		 FROM accounts WHERE email = ?`, email,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("account", email)
		}
		return nil, fmt.Errorf("sqlite: getting account %s: %w", email, err)
	}
	return acct, nil
}

// GetAccountByGitHubID looks an account up by its linked GitHub user ID.
func (db *DB) GetAccountByGitHubID(ctx context.Context, githubID int64) (*model.Account, error) {
	acct, err := scanAccount(db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, github_id, created_at
		 FROM accounts WHERE github_id = ?`, githubID,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("account", fmt.Sprintf("github:%d", githubID))
		}
		return nil, fmt.Errorf("sqlite: getting account for github id %d: %w", githubID, err)
	}
	return acct, nil
}

// LinkGitHub records githubID on an existing account.
func (db *DB) LinkGitHub(ctx context.Context, accountID string, githubID int64) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE accounts SET github_id = ? WHERE id = ?`, githubID, accountID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("github account", fmt.Sprint(githubID))
		}
		return fmt.Errorf("sqlite: linking github id to %s: %w", accountID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: linking github id to %s: %w", accountID, err)
	}
	if n == 0 {
		return apperror.NotFound("account", accountID)
	}
	return nil
}

func scanAccount(s scanner) (*model.Account, error) {
	var (
		a        model.Account
		hash     sql.NullString
		githubID sql.NullInt64
	)
	if err := s.Scan(&a.ID, &a.Email, &hash, &githubID, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.PasswordHash = stringPtr(hash)
	if githubID.Valid {
		id := githubID.Int64
		a.GitHubID = &id
	}
	return &a, nil
}
