package directory

import (
	"time"

	"github.com/sakif/team-directory/internal/model"
)

// EmptyMessage replaces the whole table when there are no profiles.
const EmptyMessage = "No team members found"

// Header is one column header. Indicator is empty unless the column is the
// active sort column. Next is the state a click on this header moves to.
type Header struct {
	Field     Field
	Label     string
	Indicator string
	Next      SortState
}

// Row is one rendered profile. Cells follow the header order.
type Row struct {
	ID    string
	Cells []string
}

// Table is the view model of the directory listing.
type Table struct {
	State   SortState
	Headers []Header
	Rows    []Row
}

// Empty reports whether the table has no rows. Pages show EmptyMessage
// instead of headers in that case.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// BuildTable sorts profiles by state and renders every cell. Dates are
// shown in loc.
func BuildTable(profiles []*model.Profile, state SortState, loc *time.Location) Table {
	t := Table{State: state}
	if len(profiles) == 0 {
		return t
	}

	t.Headers = make([]Header, 0, len(columns))
	for _, f := range columns {
		h := Header{Field: f, Label: f.Label(), Next: state.Activate(f)}
		if state.IsActive(f) {
			h.Indicator = state.Direction.Indicator()
		}
		t.Headers = append(t.Headers, h)
	}

	sorted := Sort(profiles, state)
	t.Rows = make([]Row, 0, len(sorted))
	for _, p := range sorted {
		t.Rows = append(t.Rows, Row{ID: p.ID, Cells: tableCells(p, loc)})
	}
	return t
}

// tableCells renders p in column order. Email is always present; a missing
// last-updated stamp only happens for records built outside the stores.
func tableCells(p *model.Profile, loc *time.Location) []string {
	cells := make([]string, 0, len(columns))
	for _, f := range columns {
		switch f {
		case FieldEmail:
			cells = append(cells, p.Email)
		case FieldLastUpdated:
			if p.LastUpdated == nil {
				cells = append(cells, TablePlaceholder)
			} else {
				cells = append(cells, FormatTableDate(*p.LastUpdated, loc))
			}
		default:
			cells = append(cells, orDefault(specs[f].text(p), TablePlaceholder))
		}
	}
	return cells
}
