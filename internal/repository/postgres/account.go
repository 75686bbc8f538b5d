package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/xid"

	"github.com/sakif/team-directory/internal/apperror"
	"github.com/sakif/team-directory/internal/model"
)

// CreateAccount inserts the account and its profile in one transaction.
func (db *DB) CreateAccount(ctx context.Context, acct *model.Account) error {
	acct.ID = xid.New().String()
	acct.CreatedAt = db.now()

	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO accounts (id, email, password_hash, github_id, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			acct.ID, acct.Email, acct.PasswordHash, acct.GitHubID, acct.CreatedAt,
		)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO profiles (id, email, created_at, last_updated)
			 VALUES ($1, $2, $3, $3)`,
			acct.ID, acct.Email, acct.CreatedAt,
		)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("account", acct.Email)
		}
		return fmt.Errorf("postgres: creating account %s: %w", acct.Email, err)
	}
	return nil
}

// GetAccountByEmail looks an account up by email, case-insensitively.
func (db *DB) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	acct, err := scanAccount(db.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, github_id, created_at
		 FROM accounts WHERE lower(email) = lower($1)`, email,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("account", email)
		}
		return nil, fmt.Errorf("postgres: getting account %s: %w", email, err)
	}
	return acct, nil
}

// GetAccountByGitHubID looks an account up by its linked GitHub user ID.
func (db *DB) GetAccountByGitHubID(ctx context.Context, githubID int64) (*model.Account, error) {
	acct, err := scanAccount(db.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, github_id, created_at
		 FROM accounts WHERE github_id = $1`, githubID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("account", fmt.Sprintf("github:%d", githubID))
		}
		return nil, fmt.Errorf("postgres: getting account for github id %d: %w", githubID, err)
	}
	return acct, nil
}

// LinkGitHub records githubID on an existing account.
func (db *DB) LinkGitHub(ctx context.Context, accountID string, githubID int64) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE accounts SET github_id = $1 WHERE id = $2`, githubID, accountID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("github account", fmt.Sprint(githubID))
		}
		return fmt.Errorf("postgres: linking github id to %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("account", accountID)
	}
	return nil
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var a model.Account
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.GitHubID, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
