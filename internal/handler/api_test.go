package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/team-directory/internal/handler"
	"github.com/sakif/team-directory/internal/model"
)

func TestAPI_RequiresAuth(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/profiles", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "unauthorized", body.Error)
}

func TestAPI_Me(t *testing.T) {
	app := newTestApp(t)
	me := app.member(t, "me@example.com", named("Ada", "Lovelace"))

	w := app.do(t, http.MethodGet, "/api/me", me, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var p model.Profile
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	assert.Equal(t, me, p.ID)
	assert.Equal(t, "Ada", *p.FirstName)
	assert.Nil(t, p.Team)
}

func TestAPI_ListProfilesSorted(t *testing.T) {
	app := newTestApp(t)
	me := app.member(t, "me@example.com", model.ProfileUpdate{Team: model.String("Blue")})
	red := app.member(t, "red@example.com", model.ProfileUpdate{Team: model.String("Red")})
	none := app.member(t, "none@example.com", model.ProfileUpdate{})

	w := app.do(t, http.MethodGet, "/api/profiles?sort=team&dir=desc", me, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body handler.ProfileList
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, "team", body.Sort)
	assert.Equal(t, "desc", body.Dir)

	ids := make([]string, 0, len(body.Profiles))
	for _, p := range body.Profiles {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{red, me, none}, ids)
}

func TestAPI_GetProfileNotFound(t *testing.T) {
	app := newTestApp(t)
	me := app.member(t, "me@example.com", model.ProfileUpdate{})

	w := app.do(t, http.MethodGet, "/api/profiles/missing", me, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "not_found", body.Error)
	assert.Equal(t, "profile not found with id missing", body.Message)
}
