package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/team-directory/internal/apperror"
	"github.com/sakif/team-directory/internal/directory"
	"github.com/sakif/team-directory/internal/model"
	"github.com/sakif/team-directory/internal/repository"
)

// MaxNameLength caps first and last names, in characters.
const MaxNameLength = 100

// ProfileService reads the directory and records onboarding.
type ProfileService struct {
	repo   repository.ProfileRepository
	logger *slog.Logger
}

func NewProfileService(repo repository.ProfileRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{repo: repo, logger: logger}
}

// List returns every profile in store order (last name, missing last).
func (s *ProfileService) List(ctx context.Context) ([]*model.Profile, error) {
	profiles, err := s.repo.ListProfiles(ctx)
	if err != nil {
		s.logger.Error("failed to list profiles", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	return profiles, nil
}

// Sorted returns every profile ordered by state.
func (s *ProfileService) Sorted(ctx context.Context, state directory.SortState) ([]*model.Profile, error) {
	profiles, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return directory.Sort(profiles, state), nil
}

// Get returns one profile. A blank id is a validation error; an unknown
// one is ErrNotFound.
func (s *ProfileService) Get(ctx context.Context, id string) (*model.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "profile ID is required")
	}

	p, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		// Not found is a normal outcome, only log real failures.
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("failed to load profile",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}
	return p, nil
}

// CompleteOnboarding stores the member's first and last name. Both are
// trimmed and must be non-empty and at most MaxNameLength characters.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, id, firstName, lastName string) (*model.Profile, error) {
	first, err := validateName("first_name", "First name", firstName)
	if err != nil {
		return nil, err
	}
	last, err := validateName("last_name", "Last name", lastName)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.UpdateProfile(ctx, id, model.ProfileUpdate{
		FirstName: &first,
		LastName:  &last,
	})
	if err != nil {
		s.logger.Error("failed to save onboarding",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("saving onboarding: %w", err)
	}

	s.logger.Info("onboarding completed", slog.String("id", id))
	return p, nil
}

func validateName(field, label, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperror.ValidationFailed(field, label+" is required")
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		return "", apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be %d characters or less", label, MaxNameLength))
	}
	return value, nil
}
