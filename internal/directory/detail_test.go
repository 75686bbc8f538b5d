package directory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/team-directory/internal/model"
)

func TestBuildDetail_Placeholders(t *testing.T) {
	created := time.Date(2024, time.January, 2, 9, 5, 0, 0, time.UTC)
	p := &model.Profile{
		ID:        "p1",
		Email:     "lee@example.com",
		LastName:  model.String("Lee"),
		CreatedAt: created,
	}

	d := BuildDetail(p, time.UTC)

	assert.Equal(t, "Lee", d.Name)
	assert.Empty(t, d.Subtitle)
	assert.Equal(t, "Not provided", d.PhoneNumber)
	assert.Equal(t, "Not provided", d.Title)
	assert.Equal(t, "Not assigned", d.Team)
	assert.Equal(t, "Not set", d.ShiftboardID)
	assert.Equal(t, "Not set", d.HLSRSchedulingID)
	assert.Equal(t, "January 2, 2024 at 09:05 AM", d.CreatedAt)
	assert.Equal(t, d.CreatedAt, d.LastUpdated)
}

func TestBuildDetail_Filled(t *testing.T) {
	created := time.Date(2024, time.January, 2, 9, 5, 0, 0, time.UTC)
	updated := time.Date(2024, time.February, 10, 15, 45, 0, 0, time.UTC)
	p := &model.Profile{
		ID:               "p2",
		Email:            "ana@example.com",
		FirstName:        model.String("Ana"),
		LastName:         model.String("Diaz"),
		Title:            model.String("Captain"),
		Team:             model.String("Gate 3"),
		PhoneNumber:      model.String("555-0101"),
		ShiftboardID:     model.String("SB-9"),
		HLSRSchedulingID: model.String("H-12"),
		CreatedAt:        created,
		LastUpdated:      &updated,
	}

	d := BuildDetail(p, time.UTC)

	assert.Equal(t, "Ana Diaz", d.Name)
	assert.Equal(t, "Captain", d.Subtitle)
	assert.Equal(t, "Captain", d.Title)
	assert.Equal(t, "Gate 3", d.Team)
	assert.Equal(t, "555-0101", d.PhoneNumber)
	assert.Equal(t, "SB-9", d.ShiftboardID)
	assert.Equal(t, "H-12", d.HLSRSchedulingID)
	assert.Equal(t, "February 10, 2024 at 03:45 PM", d.LastUpdated)
}
