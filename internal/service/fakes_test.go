package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/team-directory/internal/apperror"
	"github.com/sakif/team-directory/internal/model"
)

// fakeStore is an in-memory AccountRepository + ProfileRepository. The
// *Err fields simulate database failures.
type fakeStore struct {
	accounts map[string]*model.Account
	profiles map[string]*model.Profile
	order    []string
	nextID   int
	now      time.Time

	listErr   error
	getErr    error
	updateErr error
	createErr error
	lookupErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: make(map[string]*model.Account),
		profiles: make(map[string]*model.Profile),
		now:      time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) CreateAccount(_ context.Context, acct *model.Account) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, a := range f.accounts {
		if strings.EqualFold(a.Email, acct.Email) {
			return apperror.Conflict("account", acct.Email)
		}
		if a.GitHubID != nil && acct.GitHubID != nil && *a.GitHubID == *acct.GitHubID {
			return apperror.Conflict("account", fmt.Sprint(*acct.GitHubID))
		}
	}
	f.nextID++
	acct.ID = fmt.Sprintf("acct-%d", f.nextID)
	acct.CreatedAt = f.now

	stored := *acct
	f.accounts[acct.ID] = &stored
	stamp := f.now
	f.profiles[acct.ID] = &model.Profile{ID: acct.ID, Email: acct.Email, CreatedAt: f.now, LastUpdated: &stamp}
	f.order = append(f.order, acct.ID)
	return nil
}

func (f *fakeStore) GetAccountByEmail(_ context.Context, email string) (*model.Account, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, a := range f.accounts {
		if strings.EqualFold(a.Email, email) {
			c := *a
			return &c, nil
		}
	}
	return nil, apperror.NotFound("account", email)
}

func (f *fakeStore) GetAccountByGitHubID(_ context.Context, githubID int64) (*model.Account, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, a := range f.accounts {
		if a.GitHubID != nil && *a.GitHubID == githubID {
			c := *a
			return &c, nil
		}
	}
	return nil, apperror.NotFound("account", fmt.Sprint(githubID))
}

func (f *fakeStore) LinkGitHub(_ context.Context, accountID string, githubID int64) error {
	a, ok := f.accounts[accountID]
	if !ok {
		return apperror.NotFound("account", accountID)
	}
	a.GitHubID = &githubID
	return nil
}

func (f *fakeStore) ListProfiles(_ context.Context) ([]*model.Profile, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*model.Profile, 0, len(f.order))
	for _, id := range f.order {
		c := *f.profiles[id]
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeStore) GetProfile(_ context.Context, id string) (*model.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, apperror.NotFound("profile", id)
	}
	c := *p
	return &c, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, id string, upd model.ProfileUpdate) (*model.Profile, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, apperror.NotFound("profile", id)
	}
	upd.Apply(p, f.now.Add(time.Hour))
	c := *p
	return &c, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
