package model

import "time"

// Account is a sign-in identity. Every account owns exactly one Profile with
// the same ID, created in the same transaction.
//
// An account can sign in with a password, with GitHub, or both once linked by
// email. PasswordHash and GitHubID are nil when that method was never used.
// github_id is UNIQUE, so one GitHub user maps to at most one account.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"`
	GitHubID     *int64    `json:"githubId"`
	CreatedAt    time.Time `json:"createdAt"`
}
