package directory

import "time"

// Placeholders for missing values. The table and the detail page use
// different wording and must not be swapped.
const (
	TablePlaceholder = "-"
	NotProvided      = "Not provided"
	NotAssigned      = "Not assigned"
	NotSet           = "Not set"
)

// en-US layouts: "Jan 2, 2024" in the table and
// "January 2, 2024 at 03:04 PM" on the detail page.
const (
	tableDateLayout  = "Jan 2, 2006"
	detailDateLayout = "January 2, 2006 at 03:04 PM"
)

// FormatTableDate renders t for a table cell, in loc (UTC when nil).
func FormatTableDate(t time.Time, loc *time.Location) string {
	return t.In(location(loc)).Format(tableDateLayout)
}

// FormatDetailDate renders t for the detail page, in loc (UTC when nil).
func FormatDetailDate(t time.Time, loc *time.Location) string {
	return t.In(location(loc)).Format(detailDateLayout)
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

// orDefault returns *s, or def when s is nil or empty.
func orDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
