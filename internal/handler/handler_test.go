package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/team-directory/internal/auth"
	"github.com/sakif/team-directory/internal/handler"
	"github.com/sakif/team-directory/internal/model"
	"github.com/sakif/team-directory/internal/repository/sqlite"
	"github.com/sakif/team-directory/internal/service"
)

const templateDir = "../../web/templates"

// testApp is the page and API stack on an in-memory database, routed the
// same way the server routes it.
type testApp struct {
	db     *sqlite.DB
	tokens *auth.TokenService
	router http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("handler-test-secret-32-chars!!!", time.Hour)
	require.NoError(t, err)

	render, err := handler.NewRenderer(templateDir, logger)
	require.NoError(t, err)

	profiles := service.NewProfileService(db, logger)
	authSvc := service.NewAuthService(db, tokens, auth.NewPasswordService(bcrypt.MinCost), logger)

	pages := handler.NewPageHandler(profiles, render, time.UTC, logger)
	authH := handler.NewAuthHandler(authSvc, nil, render, time.Hour, false, logger)
	api := handler.NewAPIHandler(profiles, logger)

	r := chi.NewRouter()
	r.With(auth.OptionalAuth(tokens)).Get("/auth", authH.HandleAuthPage)
	r.Post("/auth/sign-in", authH.HandleSignIn)
	r.Post("/auth/sign-up", authH.HandleSignUp)
	r.Post("/auth/logout", authH.HandleLogout)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(tokens, "/auth"))
		r.Get("/", pages.HandleRoot)
		r.Get("/dashboard", pages.HandleDashboard)
		r.Get("/profile/{id}", pages.HandleProfile)
		r.Get("/onboarding", pages.HandleOnboarding)
		r.Post("/onboarding", pages.HandleOnboardingSubmit)
	})
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/me", api.HandleMe)
		r.Get("/profiles", api.HandleListProfiles)
		r.Get("/profiles/{id}", api.HandleGetProfile)
	})

	return &testApp{db: db, tokens: tokens, router: r}
}

// member provisions an account and fills in its profile.
func (a *testApp) member(t *testing.T, email string, upd model.ProfileUpdate) string {
	t.Helper()
	acct := &model.Account{Email: email}
	require.NoError(t, a.db.CreateAccount(context.Background(), acct))
	if !upd.IsEmpty() {
		_, err := a.db.UpdateProfile(context.Background(), acct.ID, upd)
		require.NoError(t, err)
	}
	return acct.ID
}

func (a *testApp) do(t *testing.T, method, target, userID string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if userID != "" {
		token, err := a.tokens.Generate(userID)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func named(first, last string) model.ProfileUpdate {
	return model.ProfileUpdate{FirstName: model.String(first), LastName: model.String(last)}
}
