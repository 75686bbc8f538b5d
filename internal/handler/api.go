package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/team-directory/internal/auth"
	"github.com/sakif/team-directory/internal/directory"
	"github.com/sakif/team-directory/internal/model"
	"github.com/sakif/team-directory/internal/service"
)

// APIHandler serves the read-only JSON API under /api. Routes sit behind
// auth.RequireAuth.
type APIHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

func NewAPIHandler(profiles *service.ProfileService, logger *slog.Logger) *APIHandler {
	return &APIHandler{profiles: profiles, logger: logger}
}

// ProfileList is the body of GET /api/profiles. Sort and Dir echo the
// state that was applied; Sort is empty for the initial state.
type ProfileList struct {
	Profiles []*model.Profile `json:"profiles"`
	Count    int              `json:"count"`
	Sort     string           `json:"sort,omitempty"`
	Dir      string           `json:"dir,omitempty"`
}

// HandleMe returns the caller's own profile.
//
// HTTP: GET /api/me
func (h *APIHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	p, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleListProfiles returns every profile ordered like the dashboard.
// Unknown sort keys fall back to store order.
//
// HTTP: GET /api/profiles?sort=team&dir=desc
func (h *APIHandler) HandleListProfiles(w http.ResponseWriter, r *http.Request) {
	state := directory.StateFromQuery(r.URL.Query())

	profiles, err := h.profiles.Sorted(r.Context(), state)
	if err != nil {
		writeError(w, err)
		return
	}

	if profiles == nil {
		profiles = []*model.Profile{}
	}
	body := ProfileList{Profiles: profiles, Count: len(profiles)}
	if state.Column != directory.FieldNone {
		body.Sort = state.Column.Key()
		body.Dir = state.Direction.String()
	}
	writeJSON(w, http.StatusOK, body)
}

// HandleGetProfile returns one profile.
//
// HTTP: GET /api/profiles/{id}
func (h *APIHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
