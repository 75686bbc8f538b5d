// Package repository declares the storage interfaces the services depend on.
// Implementations live in the sqlite and postgres subpackages; both translate
// driver errors into apperror values so callers never see sql.ErrNoRows or
// driver-specific codes.
package repository

import (
	"context"

	"github.com/sakif/team-directory/internal/model"
)

// ProfileRepository reads and updates team member profiles.
type ProfileRepository interface {
	// ListProfiles returns every profile ordered by last name ascending,
	// missing last names last.
	ListProfiles(ctx context.Context) ([]*model.Profile, error)
	// GetProfile returns apperror.ErrNotFound when id does not exist.
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	// UpdateProfile applies the non-nil fields of upd and returns the stored
	// record. Returns apperror.ErrNotFound when id does not exist.
	UpdateProfile(ctx context.Context, id string, upd model.ProfileUpdate) (*model.Profile, error)
}

// AccountRepository provisions and looks up sign-in accounts.
type AccountRepository interface {
	// CreateAccount inserts the account and its empty profile in one
	// transaction, filling in ID and CreatedAt. A duplicate email or
	// GitHub ID returns apperror.ErrConflict.
	CreateAccount(ctx context.Context, acct *model.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	GetAccountByGitHubID(ctx context.Context, githubID int64) (*model.Account, error)
	// LinkGitHub attaches a GitHub ID to an existing account.
	LinkGitHub(ctx context.Context, accountID string, githubID int64) error
}

// Store is a complete record store, as opened by the server and dirctl.
type Store interface {
	ProfileRepository
	AccountRepository
	Close() error
}
