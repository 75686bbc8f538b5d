package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/team-directory/internal/directory"
	"github.com/sakif/team-directory/internal/model"
)

func TestListState(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		desc    bool
		want    directory.SortState
		wantErr bool
	}{
		{"no sort", "", false, directory.SortState{}, false},
		{"ascending", "team", false, directory.SortState{Column: directory.FieldTeam, Direction: directory.Ascending}, false},
		{"descending", "Last_Updated", true, directory.SortState{Column: directory.FieldLastUpdated, Direction: directory.Descending}, false},
		{"desc without sort", "", true, directory.SortState{}, true},
		{"unknown field", "salary", false, directory.SortState{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := listState(tt.key, tt.desc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteTable(t *testing.T) {
	jan := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	profiles := []*model.Profile{
		{ID: "1", Email: "b@example.com", LastName: model.String("Brown"), CreatedAt: jan, LastUpdated: &jan},
		{ID: "2", Email: "a@example.com", LastName: model.String("Abbott"), Team: model.String("Red"), CreatedAt: jan, LastUpdated: &jan},
	}

	var buf bytes.Buffer
	state, err := listState("last_name", false)
	require.NoError(t, err)
	require.NoError(t, writeTable(&buf, profiles, state, time.UTC))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Title"))
	assert.Contains(t, lines[0], "Last Name ↑")
	assert.Contains(t, lines[1], "Abbott")
	assert.Contains(t, lines[1], "Jan 15, 2024")
	assert.Contains(t, lines[2], "Brown")
	// Title is missing on both rows.
	assert.True(t, strings.HasPrefix(lines[2], "-"))
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, nil, directory.SortState{}, nil))
	assert.Equal(t, "No team members found\n", buf.String())
}
