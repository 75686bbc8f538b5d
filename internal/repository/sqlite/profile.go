package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sakif/team-directory/internal/apperror"
	"github.com/sakif/team-directory/internal/model"
)

const profileColumns = `id, email, first_name, last_name, title, team, phone_number,
	shiftboard_id, hlsr_scheduling_id, created_at, last_updated`

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*model.Profile, error) {
	var (
		p                                         model.Profile
		first, last, title, team, phone, sb, hlsr sql.NullString
		lastUpdated                               sql.NullTime
	)
	err := s.Scan(
		&p.ID,
		&p.Email,
		&first,
		&last,
		&title,
		&team,
		&phone,
		&sb,
		&hlsr,
		&p.CreatedAt,
		&lastUpdated,
	)
	if err != nil {
		return nil, err
	}
	p.FirstName = stringPtr(first)
	p.LastName = stringPtr(last)
	p.Title = stringPtr(title)
	p.Team = stringPtr(team)
	p.PhoneNumber = stringPtr(phone)
	p.ShiftboardID = stringPtr(sb)
	p.HLSRSchedulingID = stringPtr(hlsr)
	p.LastUpdated = timePtr(lastUpdated)
	return &p, nil
}

// ListProfiles returns every profile, last name ascending.
//
// NULLS LAST:
// SQLite treats NULL as smaller than any value, so a plain ORDER BY would put
// members who never entered a last name at the top. NULLS LAST (SQLite 3.30+)
// sinks them, matching Postgres' default for ASC and the directory sort's
// rule for missing values. created_at and id break ties so the initial table
// order is the same on every request and on both stores.
func (db *DB) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 ORDER BY last_name ASC NULLS LAST, created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing profiles: %w", err)
	}
	// rows MUST be closed or the connection leaks back to nobody.
	defer rows.Close()

	profiles := []*model.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning profile row: %w", err)
		}
		profiles = append(profiles, p)
	}

	// rows.Err() reports errors that ended iteration early.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating profile rows: %w", err)
	}

	return profiles, nil
}

// GetProfile retrieves one profile by id.
func (db *DB) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	p, err := scanProfile(db.conn.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("profile", id)
		}
		return nil, fmt.Errorf("sqlite: getting profile %s: %w", id, err)
	}
	return p, nil
}

// UpdateProfile writes the non-nil fields of upd and bumps last_updated.
//
// The SET clause is built from a fixed column list, never from input, so
// the only values reaching the driver go through ? placeholders.
func (db *DB) UpdateProfile(ctx context.Context, id string, upd model.ProfileUpdate) (*model.Profile, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning profile update: %w", err)
	}
	defer tx.Rollback()

	current, err := scanProfile(tx.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("profile", id)
		}
		return nil, fmt.Errorf("sqlite: loading profile %s for update: %w", id, err)
	}

	upd.Apply(current, db.now())

	sets, args := updateColumns(upd)
	sets = append(sets, "last_updated = ?")
	args = append(args, *current.LastUpdated, id)

	_, err = tx.ExecContext(ctx,
		`UPDATE profiles SET `+strings.Join(sets, ", ")+` WHERE id = ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating profile %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing profile %s: %w", id, err)
	}
	return current, nil
}

// updateColumns lists "col = ?" fragments and values for the set fields.
func updateColumns(upd model.ProfileUpdate) ([]string, []any) {
	var sets []string
	var args []any
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
		}
	}
	add("first_name", upd.FirstName)
	add("last_name", upd.LastName)
	add("title", upd.Title)
	add("team", upd.Team)
	add("phone_number", upd.PhoneNumber)
	add("shiftboard_id", upd.ShiftboardID)
	add("hlsr_scheduling_id", upd.HLSRSchedulingID)
	return sets, args
}
