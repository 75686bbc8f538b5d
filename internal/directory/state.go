package directory

import (
	"net/url"
	"strings"
)

// Direction is the order applied to a column's natural ordering.
type Direction uint8

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Indicator is the glyph shown next to the active header.
func (d Direction) Indicator() string {
	if d == Descending {
		return "↓"
	}
	return "↑"
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// ParseDirection accepts "asc" or "desc" (any case). Anything else is
// Ascending with ok == false.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Ascending, true
	case "desc":
		return Descending, true
	}
	return Ascending, false
}

// SortState is the table's sort selection. The zero value is the initial
// state: no column, ascending.
type SortState struct {
	Column    Field
	Direction Direction
}

// Activate returns the state after the header for f is clicked.
// Clicking the active column flips the direction; clicking any other column
// selects it ascending. There is no transition back to FieldNone.
func (s SortState) Activate(f Field) SortState {
	if !f.Valid() {
		return s
	}
	if s.Column == f {
		return SortState{Column: f, Direction: s.Direction.Flip()}
	}
	return SortState{Column: f, Direction: Ascending}
}

// IsActive reports whether f is the current sort column.
func (s SortState) IsActive(f Field) bool {
	return s.Column != FieldNone && s.Column == f
}

// Query encodes the state as URL query parameters ("sort", "dir").
// The initial state encodes to an empty set.
func (s SortState) Query() url.Values {
	v := url.Values{}
	if s.Column == FieldNone {
		return v
	}
	v.Set("sort", s.Column.Key())
	v.Set("dir", s.Direction.String())
	return v
}

// StateFromQuery is the inverse of Query. A missing or unknown column gives
// the initial state; an unknown direction falls back to ascending.
func StateFromQuery(v url.Values) SortState {
	f, ok := ParseField(v.Get("sort"))
	if !ok {
		return SortState{}
	}
	d, _ := ParseDirection(v.Get("dir"))
	return SortState{Column: f, Direction: d}
}
