package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/team-directory/internal/apperror"
	"github.com/sakif/team-directory/internal/auth"
	"github.com/sakif/team-directory/internal/directory"
	"github.com/sakif/team-directory/internal/service"
)

// User-facing page messages.
const (
	msgListFailed      = "Error loading team members"
	msgProfileNotFound = "Profile not found"
	msgSaveFailed      = "An unexpected error occurred"
)

// PageHandler serves the signed-in pages: the root redirect, the team
// listing, a member's profile and the onboarding form. Every route sits
// behind auth.RequireSession, so a user id is always in the context.
type PageHandler struct {
	profiles *service.ProfileService
	render   *Renderer
	loc      *time.Location
	logger   *slog.Logger
}

// NewPageHandler creates a PageHandler. Dates are shown in loc.
func NewPageHandler(profiles *service.ProfileService, render *Renderer, loc *time.Location, logger *slog.Logger) *PageHandler {
	return &PageHandler{profiles: profiles, render: render, loc: loc, logger: logger}
}

// HandleRoot sends a signed-in user to onboarding until both names are
// set, then to the dashboard.
//
// HTTP: GET /
func (h *PageHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	p, err := h.profiles.Get(r.Context(), userID)
	if err == nil && p.NeedsOnboarding() {
		http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
		return
	}
	// On a lookup failure the dashboard still works and reports its own
	// errors, so it is the safer destination.
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// dashboardPage is the data of dashboard.html.
type dashboardPage struct {
	Table        directory.Table
	EmptyMessage string
}

// HandleDashboard renders the sortable team table. The sort state comes
// from the sort/dir query parameters; each header links to the state its
// activation produces.
//
// HTTP: GET /dashboard?sort=last_name&dir=desc
func (h *PageHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	state := directory.StateFromQuery(r.URL.Query())

	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		h.render.renderError(w, http.StatusInternalServerError, msgListFailed, false)
		return
	}

	h.render.render(w, http.StatusOK, pageDashboard, pageData{
		Title:    "Team Members",
		SignedIn: true,
		Data: dashboardPage{
			Table:        directory.BuildTable(profiles, state, h.loc),
			EmptyMessage: directory.EmptyMessage,
		},
	})
}

// HandleProfile renders one member's detail page. Any failure shows the
// "Profile not found" shell; only the status differs.
//
// HTTP: GET /profile/{id}
func (h *PageHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrValidation) {
			status = http.StatusNotFound
		}
		h.render.renderError(w, status, msgProfileNotFound, true)
		return
	}

	d := directory.BuildDetail(p, h.loc)
	title := d.Name
	if title == "" {
		title = d.Email
	}
	h.render.render(w, http.StatusOK, pageProfile, pageData{
		Title:    title,
		SignedIn: true,
		Data:     d,
	})
}

// onboardingPage is the data of onboarding.html. Values are echoed back
// into the inputs when the form is re-rendered with an error.
type onboardingPage struct {
	FirstName string
	LastName  string
	Error     string
}

// HandleOnboarding shows the "Welcome!" form, pre-filled with any name
// already on file.
//
// HTTP: GET /onboarding
func (h *PageHandler) HandleOnboarding(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var form onboardingPage
	if p, err := h.profiles.Get(r.Context(), userID); err == nil {
		if p.FirstName != nil {
			form.FirstName = *p.FirstName
		}
		if p.LastName != nil {
			form.LastName = *p.LastName
		}
	}
	h.renderOnboarding(w, http.StatusOK, form)
}

// HandleOnboardingSubmit saves the names and continues to the dashboard.
// Validation and store errors re-render the form with the message under it.
//
// HTTP: POST /onboarding (form: first_name, last_name)
func (h *PageHandler) HandleOnboardingSubmit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		h.renderOnboarding(w, http.StatusBadRequest, onboardingPage{Error: "Invalid form submission"})
		return
	}
	form := onboardingPage{
		FirstName: r.PostForm.Get("first_name"),
		LastName:  r.PostForm.Get("last_name"),
	}

	if _, err := h.profiles.CompleteOnboarding(r.Context(), userID, form.FirstName, form.LastName); err != nil {
		status, _ := statusFor(err)
		if errors.Is(err, apperror.ErrValidation) {
			form.Error = apperror.Message(err, msgSaveFailed)
		} else {
			form.Error = msgSaveFailed
		}
		h.renderOnboarding(w, status, form)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *PageHandler) renderOnboarding(w http.ResponseWriter, status int, form onboardingPage) {
	h.render.render(w, status, pageOnboarding, pageData{
		Title:    "Welcome!",
		SignedIn: true,
		Data:     form,
	})
}
