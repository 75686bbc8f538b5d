// Package directory holds the team directory's table logic: which columns
// exist, how each one compares, the header-click sort state machine, and the
// view models the pages render.
//
// Everything here is pure. Handlers fetch profiles, pick a SortState from the
// request and hand both to BuildTable; nothing in this package does I/O.
package directory

import (
	"strings"
	"time"

	"github.com/sakif/team-directory/internal/model"
)

// Field identifies a sortable column. The zero value, FieldNone, means
// "no column chosen yet": rows stay in the order the store returned them.
type Field uint8

const (
	FieldNone Field = iota
	FieldTitle
	FieldFirstName
	FieldLastName
	FieldTeam
	FieldPhoneNumber
	FieldEmail
	FieldShiftboardID
	FieldHLSRSchedulingID
	FieldLastUpdated
)

// columns is the header order of the directory table.
var columns = []Field{
	FieldTitle,
	FieldFirstName,
	FieldLastName,
	FieldTeam,
	FieldPhoneNumber,
	FieldEmail,
	FieldShiftboardID,
	FieldHLSRSchedulingID,
	FieldLastUpdated,
}

// fieldSpec is one row of the comparator table. Exactly one of text or
// stamp is set; it extracts the column value, nil meaning absent.
type fieldSpec struct {
	key   string
	label string
	text  func(p *model.Profile) *string
	stamp func(p *model.Profile) *time.Time
}

var specs = map[Field]fieldSpec{
	FieldTitle: {
		key: "title", label: "Title",
		text: func(p *model.Profile) *string { return p.Title },
	},
	FieldFirstName: {
		key: "first_name", label: "First Name",
		text: func(p *model.Profile) *string { return p.FirstName },
	},
	FieldLastName: {
		key: "last_name", label: "Last Name",
		text: func(p *model.Profile) *string { return p.LastName },
	},
	FieldTeam: {
		key: "team", label: "Team",
		text: func(p *model.Profile) *string { return p.Team },
	},
	FieldPhoneNumber: {
		key: "phone_number", label: "Phone Number",
		text: func(p *model.Profile) *string { return p.PhoneNumber },
	},
	FieldEmail: {
		key: "email", label: "Email",
		text: func(p *model.Profile) *string { return &p.Email },
	},
	FieldShiftboardID: {
		key: "shiftboard_id", label: "Shiftboard ID",
		text: func(p *model.Profile) *string { return p.ShiftboardID },
	},
	FieldHLSRSchedulingID: {
		key: "hlsr_scheduling_id", label: "HLSR Scheduling ID",
		text: func(p *model.Profile) *string { return p.HLSRSchedulingID },
	},
	FieldLastUpdated: {
		key: "last_updated", label: "Last Updated",
		stamp: func(p *model.Profile) *time.Time { return p.LastUpdated },
	},
}

// Fields returns the sortable fields in header order.
func Fields() []Field {
	out := make([]Field, len(columns))
	copy(out, columns)
	return out
}

// Key is the field's wire name, as used in query strings and JSON.
// FieldNone has the key "".
func (f Field) Key() string {
	return specs[f].key
}

// Label is the header text.
func (f Field) Label() string {
	return specs[f].label
}

func (f Field) String() string {
	if f == FieldNone {
		return "none"
	}
	return f.Key()
}

// Valid reports whether f is one of the sortable fields.
func (f Field) Valid() bool {
	_, ok := specs[f]
	return ok
}

// ParseField maps a wire name back to its Field. Matching ignores case and
// surrounding whitespace. Unknown names return (FieldNone, false).
func ParseField(key string) (Field, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, f := range columns {
		if specs[f].key == key {
			return f, true
		}
	}
	return FieldNone, false
}

// compare orders a and b by f in direction d with missing values last.
func (f Field) compare(a, b *model.Profile, d Direction) int {
	spec, ok := specs[f]
	if !ok {
		return 0
	}
	if spec.stamp != nil {
		return compareNullable(spec.stamp(a), spec.stamp(b), time.Time.Compare, d)
	}
	return compareNullable(spec.text(a), spec.text(b), strings.Compare, d)
}

// compareNullable is the comparison policy for every column:
//
//	both nil      -> equal (stable sort keeps input order)
//	one nil       -> the nil one goes last, whatever the direction
//	both present  -> natural order, negated for Descending
//
// NIL BEFORE FLIP:
// The usual way to get a descending sort is to negate the ascending result.
// Doing that here would also negate the nil rule and float every incomplete
// profile to the top of a descending table. So the nil cases return before d
// is consulted and only the present-vs-present result is flipped:
//
//	asc:  Ada, Grace, <nil>, <nil>
//	desc: Grace, Ada, <nil>, <nil>
//
// Do not make it symmetric.
func compareNullable[T any](a, b *T, natural func(T, T) int, d Direction) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	c := natural(*a, *b)
	if d == Descending {
		return -c
	}
	return c
}
