// Package model defines the data structures used throughout the application.
package model

import "time"

// Profile is one team member's directory record.
//
// A profile starts with only id, email and timestamps. Optional columns are
// pointers: nil is SQL NULL and JSON null, distinct from an empty string.
//
// Email and CreatedAt are never null. LastUpdated is a pointer because the
// directory sort treats a missing timestamp like any other missing value,
// even though the stores always set it.
type Profile struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	FirstName        *string    `json:"first_name"`
	LastName         *string    `json:"last_name"`
	Title            *string    `json:"title"`
	Team             *string    `json:"team"`
	PhoneNumber      *string    `json:"phone_number"`
	ShiftboardID     *string    `json:"shiftboard_id"`
	HLSRSchedulingID *string    `json:"hlsr_scheduling_id"`
	CreatedAt        time.Time  `json:"created_at"`
	LastUpdated      *time.Time `json:"last_updated"`
}

// NeedsOnboarding reports whether the member still has to enter their name.
func (p *Profile) NeedsOnboarding() bool {
	return p.FirstName == nil || *p.FirstName == "" || p.LastName == nil || *p.LastName == ""
}

// ProfileUpdate carries the mutable fields of a Profile.
// A nil field is left untouched; id, email and created_at are not updatable.
type ProfileUpdate struct {
	FirstName        *string `json:"first_name,omitempty"         yaml:"first_name,omitempty"`
	LastName         *string `json:"last_name,omitempty"          yaml:"last_name,omitempty"`
	Title            *string `json:"title,omitempty"              yaml:"title,omitempty"`
	Team             *string `json:"team,omitempty"               yaml:"team,omitempty"`
	PhoneNumber      *string `json:"phone_number,omitempty"       yaml:"phone_number,omitempty"`
	ShiftboardID     *string `json:"shiftboard_id,omitempty"      yaml:"shiftboard_id,omitempty"`
	HLSRSchedulingID *string `json:"hlsr_scheduling_id,omitempty" yaml:"hlsr_scheduling_id,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Title == nil && u.Team == nil &&
		u.PhoneNumber == nil && u.ShiftboardID == nil && u.HLSRSchedulingID == nil
}

// Apply copies every non-nil field of u onto p and stamps LastUpdated.
// LastUpdated never goes below CreatedAt.
func (u ProfileUpdate) Apply(p *Profile, now time.Time) {
	set := func(dst **string, v *string) {
		if v != nil {
			s := *v
			*dst = &s
		}
	}
	set(&p.FirstName, u.FirstName)
	set(&p.LastName, u.LastName)
	set(&p.Title, u.Title)
	set(&p.Team, u.Team)
	set(&p.PhoneNumber, u.PhoneNumber)
	set(&p.ShiftboardID, u.ShiftboardID)
	set(&p.HLSRSchedulingID, u.HLSRSchedulingID)

	stamp := Touch(p.CreatedAt, now)
	p.LastUpdated = &stamp
}

// MissingFrom returns the fields of u that are still NULL on p. Fields p
// already has are dropped, so applying the result never overwrites data.
func (u ProfileUpdate) MissingFrom(p *Profile) ProfileUpdate {
	pick := func(want, have *string) *string {
		if have != nil {
			return nil
		}
		return want
	}
	return ProfileUpdate{
		FirstName:        pick(u.FirstName, p.FirstName),
		LastName:         pick(u.LastName, p.LastName),
		Title:            pick(u.Title, p.Title),
		Team:             pick(u.Team, p.Team),
		PhoneNumber:      pick(u.PhoneNumber, p.PhoneNumber),
		ShiftboardID:     pick(u.ShiftboardID, p.ShiftboardID),
		HLSRSchedulingID: pick(u.HLSRSchedulingID, p.HLSRSchedulingID),
	}
}

// Touch returns the last_updated value for a write happening at now.
func Touch(createdAt, now time.Time) time.Time {
	if now.Before(createdAt) {
		return createdAt
	}
	return now
}

// String returns a pointer to s. Handy for building updates and fixtures.
func String(s string) *string { return &s }
