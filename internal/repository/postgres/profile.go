package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/team-directory/internal/apperror"
	"github.com/sakif/team-directory/internal/model"
)

const profileColumns = `id, email, first_name, last_name, title, team, phone_number,
	shiftboard_id, hlsr_scheduling_id, created_at, last_updated`

// pgx scans NULL into a nil *string / *time.Time directly.
func scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.FirstName,
		&p.LastName,
		&p.Title,
		&p.Team,
		&p.PhoneNumber,
		&p.ShiftboardID,
		&p.HLSRSchedulingID,
		&p.CreatedAt,
		&p.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProfiles returns every profile, last name ascending with NULLs last.
func (db *DB) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 ORDER BY last_name ASC NULLS LAST, created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing profiles: %w", err)
	}
	defer rows.Close()

	profiles := []*model.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scanning profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating profile rows: %w", err)
	}
	return profiles, nil
}

// GetProfile retrieves one profile by id.
func (db *DB) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	p, err := scanProfile(db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("profile", id)
		}
		return nil, fmt.Errorf("postgres: getting profile %s: %w", id, err)
	}
	return p, nil
}

// UpdateProfile writes the non-nil fields of upd and bumps last_updated,
// returning the stored row.
func (db *DB) UpdateProfile(ctx context.Context, id string, upd model.ProfileUpdate) (*model.Profile, error) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v *string) {
		if v != nil {
			args = append(args, *v)
			sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	add("first_name", upd.FirstName)
	add("last_name", upd.LastName)
	add("title", upd.Title)
	add("team", upd.Team)
	add("phone_number", upd.PhoneNumber)
	add("shiftboard_id", upd.ShiftboardID)
	add("hlsr_scheduling_id", upd.HLSRSchedulingID)

	args = append(args, db.now())
	sets = append(sets, fmt.Sprintf("last_updated = GREATEST($%d, created_at)", len(args)))
	args = append(args, id)

	p, err := scanProfile(db.pool.QueryRow(ctx,
		`UPDATE profiles SET `+strings.Join(sets, ", ")+
			fmt.Sprintf(` WHERE id = $%d RETURNING `, len(args))+profileColumns,
		args...,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("profile", id)
		}
		return nil, fmt.Errorf("postgres: updating profile %s: %w", id, err)
	}
	return p, nil
}
