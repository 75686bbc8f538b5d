// Package service holds the business rules of the directory, between the
// HTTP handlers and the repositories:
//
//	Handler (HTTP) → Service (rules) → Repository (SQL)
//
// Services take and return plain Go values and apperror errors. They know
// nothing about requests, cookies or templates, so dirctl and the tests
// call them directly.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/team-directory/internal/apperror"
	"github.com/sakif/team-directory/internal/auth"
	"github.com/sakif/team-directory/internal/model"
	"github.com/sakif/team-directory/internal/repository"
)

// invalidCredentials is the single message for every failed sign-in, so the
// response never tells an attacker which accounts exist.
const invalidCredentials = "invalid email or password"

// AuthService provisions accounts and issues session tokens.
//
// Every successful sign-in, whatever the method, ends in the same place:
// an account (created on first use together with its empty profile) and a
// session token for it.
type AuthService struct {
	accounts  repository.AccountRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService wires an AuthService.
func NewAuthService(
	accounts repository.AccountRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		accounts:  accounts,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the account and its fresh session token so the
// handler can set the cookie in one step.
type AuthResult struct {
	Account *model.Account
	Token   string
}

// NormalizeEmail trims and lower-cases email and checks it is a bare
// address ("a@b.c", not "Name <a@b.c>").
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", apperror.ValidationFailed("email", "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperror.ValidationFailed("email", "email address is not valid")
	}
	return email, nil
}

// SignUp creates a password account. A taken email is ErrConflict.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*AuthResult, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < auth.MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		// Only the 72-byte limit gets here.
		return nil, apperror.ValidationFailed("password", "password is too long")
	}

	acct := &model.Account{Email: email, PasswordHash: &hash}
	if err := s.accounts.CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("account", email)
		}
		return nil, fmt.Errorf("service/auth: creating account: %w", err)
	}

	s.logger.Info("account created",
		slog.String("accountID", acct.ID),
		slog.String("method", "password"),
	)
	return s.issue(acct)
}

// SignIn checks email and password. Unknown email, GitHub-only account and
// wrong password all return the same ErrUnauthorized.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperror.Unauthorized(invalidCredentials)
	}

	acct, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(invalidCredentials)
		}
		return nil, fmt.Errorf("service/auth: looking up account: %w", err)
	}
	if acct.PasswordHash == nil {
		return nil, apperror.Unauthorized(invalidCredentials)
	}

	if err := s.passwords.Verify(*acct.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Info("failed sign-in", slog.String("accountID", acct.ID))
			return nil, apperror.Unauthorized(invalidCredentials)
		}
		return nil, fmt.Errorf("service/auth: verifying password: %w", err)
	}

	return s.issue(acct)
}

// LoginOrRegisterGitHub signs in the GitHub identity returned by the OAuth
// callback:
//
//  1. An account already linked to the GitHub ID signs in.
//  2. Otherwise an account with the same email gets the GitHub ID linked.
//  3. Otherwise a new account and profile are created.
//
// An email account already linked to a different GitHub ID is a conflict.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, gh *auth.GitHubUser) (*AuthResult, error) {
	if gh == nil || gh.ID == 0 {
		return nil, fmt.Errorf("service/auth: GitHub user must not be empty")
	}

	acct, err := s.accounts.GetAccountByGitHubID(ctx, gh.ID)
	if err == nil {
		return s.issue(acct)
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: looking up GitHub account %d: %w", gh.ID, err)
	}

	email, err := NormalizeEmail(gh.Email)
	if err != nil {
		return nil, err
	}

	acct, err = s.accounts.GetAccountByEmail(ctx, email)
	switch {
	case err == nil:
		if acct.GitHubID != nil && *acct.GitHubID != gh.ID {
			return nil, apperror.Conflict("GitHub link for account", email)
		}
		if err := s.accounts.LinkGitHub(ctx, acct.ID, gh.ID); err != nil {
			return nil, fmt.Errorf("service/auth: linking GitHub account: %w", err)
		}
		id := gh.ID
		acct.GitHubID = &id
		s.logger.Info("GitHub linked to existing account",
			slog.String("accountID", acct.ID),
			slog.String("login", gh.Login),
		)
		return s.issue(acct)

	case errors.Is(err, apperror.ErrNotFound):
		id := gh.ID
		acct = &model.Account{Email: email, GitHubID: &id}
		if err := s.accounts.CreateAccount(ctx, acct); err != nil {
			return nil, fmt.Errorf("service/auth: creating GitHub account: %w", err)
		}
		s.logger.Info("account created",
			slog.String("accountID", acct.ID),
			slog.String("method", "github"),
			slog.String("login", gh.Login),
		)
		return s.issue(acct)

	default:
		return nil, fmt.Errorf("service/auth: looking up account by email: %w", err)
	}
}

func (s *AuthService) issue(acct *model.Account) (*AuthResult, error) {
	token, err := s.tokens.Generate(acct.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for %s: %w", acct.ID, err)
	}
	return &AuthResult{Account: acct, Token: token}, nil
}
