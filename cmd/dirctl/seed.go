package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sakif/team-directory/internal/apperror"
	"github.com/sakif/team-directory/internal/auth"
	"github.com/sakif/team-directory/internal/model"
	"github.com/sakif/team-directory/internal/repository"
	"github.com/sakif/team-directory/internal/service"
)

// seedFile is the YAML layout read by "dirctl seed":
//
//	profiles:
//	  - email: ada@example.com
//	    password: correct-horse     # optional; GitHub-only when omitted
//	    first_name: Ada
//	    last_name: Lovelace
//	    team: Analytics
type seedFile struct {
	Profiles []seedEntry `yaml:"profiles"`
}

type seedEntry struct {
	Email               string `yaml:"email"`
	Password            string `yaml:"password,omitempty"`
	model.ProfileUpdate `yaml:",inline"`
}

// parseSeed decodes a seed file. Unknown keys are errors so a typo such as
// "frist_name" does not silently drop data.
func parseSeed(r io.Reader) ([]seedEntry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f seedFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	for i, e := range f.Profiles {
		email, err := service.NormalizeEmail(e.Email)
		if err != nil {
			return nil, fmt.Errorf("profile %d: %s", i+1, apperror.Message(err, "invalid email"))
		}
		if e.Password != "" && len(e.Password) < auth.MinPasswordLength {
			return nil, fmt.Errorf("profile %d (%s): password must be at least %d characters",
				i+1, email, auth.MinPasswordLength)
		}
		f.Profiles[i].Email = email
	}
	return f.Profiles, nil
}

// seedResult counts what a seed run did.
type seedResult struct {
	Created int
	Filled  int
	Skipped int
}

// seeder imports entries into a store.
type seeder struct {
	store     repository.Store
	passwords *auth.PasswordService
	out       io.Writer
	logger    *slog.Logger
}

// run creates each entry's account and profile, then applies its profile
// fields. Account creation and the field update are separate writes, so an
// email that already has an account gets any seed fields its profile is
// still missing. Existing values are never overwritten.
func (s *seeder) run(ctx context.Context, entries []seedEntry) (seedResult, error) {
	var res seedResult
	for _, e := range entries {
		acct := &model.Account{Email: e.Email}
		if e.Password != "" {
			hash, err := s.passwords.Hash(e.Password)
			if err != nil {
				return res, fmt.Errorf("%s: %w", e.Email, err)
			}
			acct.PasswordHash = &hash
		}

		if err := s.store.CreateAccount(ctx, acct); err != nil {
			if errors.Is(err, apperror.ErrConflict) {
				filled, err := s.fillExisting(ctx, e)
				if err != nil {
					return res, fmt.Errorf("%s: %w", e.Email, err)
				}
				if filled {
					fmt.Fprintf(s.out, "filled  %s (missing fields)\n", e.Email)
					res.Filled++
				} else {
					fmt.Fprintf(s.out, "skip    %s (already exists)\n", e.Email)
					res.Skipped++
				}
				continue
			}
			return res, fmt.Errorf("%s: %w", e.Email, err)
		}

		if !e.ProfileUpdate.IsEmpty() {
			if _, err := s.store.UpdateProfile(ctx, acct.ID, e.ProfileUpdate); err != nil {
				return res, fmt.Errorf("%s: updating profile: %w", e.Email, err)
			}
		}

		s.logger.Debug("seeded profile", slog.String("id", acct.ID), slog.String("email", e.Email))
		fmt.Fprintf(s.out, "created %s\n", e.Email)
		res.Created++
	}
	return res, nil
}

// fillExisting applies the entry's fields that the existing profile still
// lacks. It reports whether anything was written.
func (s *seeder) fillExisting(ctx context.Context, e seedEntry) (bool, error) {
	acct, err := s.store.GetAccountByEmail(ctx, e.Email)
	if err != nil {
		return false, fmt.Errorf("looking up account: %w", err)
	}
	p, err := s.store.GetProfile(ctx, acct.ID)
	if err != nil {
		return false, fmt.Errorf("loading profile: %w", err)
	}

	missing := e.ProfileUpdate.MissingFrom(p)
	if missing.IsEmpty() {
		return false, nil
	}
	if _, err := s.store.UpdateProfile(ctx, acct.ID, missing); err != nil {
		return false, fmt.Errorf("updating profile: %w", err)
	}
	s.logger.Debug("filled seeded profile", slog.String("id", acct.ID), slog.String("email", e.Email))
	return true, nil
}

func newSeedCmd(f *rootFlags) *cobra.Command {
	var (
		file string
		cost int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import team members from a YAML file",
		Example: `  dirctl seed --file profiles.yaml
  dirctl seed --file profiles.yaml --database-url postgres://localhost/directory`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fh, err := os.Open(file)
			if err != nil {
				return err
			}
			defer fh.Close()

			entries, err := parseSeed(fh)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to seed")
				return nil
			}

			store, err := f.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			s := &seeder{
				store:     store,
				passwords: auth.NewPasswordService(cost),
				out:       cmd.OutOrStdout(),
				logger:    f.logger,
			}
			res, err := s.run(cmd.Context(), entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d created, %d filled, %d skipped\n", res.Created, res.Filled, res.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with a top-level profiles list")
	cmd.Flags().IntVar(&cost, "bcrypt-cost", auth.DefaultCost, "bcrypt cost for seeded passwords")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
