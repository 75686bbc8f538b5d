package directory

import (
	"strings"
	"time"

	"github.com/sakif/team-directory/internal/model"
)

// Detail is the view model of a single profile page.
type Detail struct {
	ID string
	// Name is "first last" with missing parts left blank.
	Name string
	// Subtitle is the raw title, empty when there is none. The header only
	// shows it when set; the Team section shows Title with a placeholder.
	Subtitle         string
	Email            string
	PhoneNumber      string
	Team             string
	Title            string
	ShiftboardID     string
	HLSRSchedulingID string
	CreatedAt        string
	LastUpdated      string
}

// BuildDetail renders p for the detail page.
func BuildDetail(p *model.Profile, loc *time.Location) Detail {
	d := Detail{
		ID:               p.ID,
		Name:             strings.TrimSpace(orDefault(p.FirstName, "") + " " + orDefault(p.LastName, "")),
		Subtitle:         orDefault(p.Title, ""),
		Email:            p.Email,
		PhoneNumber:      orDefault(p.PhoneNumber, NotProvided),
		Team:             orDefault(p.Team, NotAssigned),
		Title:            orDefault(p.Title, NotProvided),
		ShiftboardID:     orDefault(p.ShiftboardID, NotSet),
		HLSRSchedulingID: orDefault(p.HLSRSchedulingID, NotSet),
		CreatedAt:        FormatDetailDate(p.CreatedAt, loc),
	}
	if p.LastUpdated != nil {
		d.LastUpdated = FormatDetailDate(*p.LastUpdated, loc)
	} else {
		d.LastUpdated = d.CreatedAt
	}
	return d
}
