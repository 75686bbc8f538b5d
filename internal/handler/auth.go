package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/team-directory/internal/apperror"
	"github.com/sakif/team-directory/internal/auth"
	"github.com/sakif/team-directory/internal/service"
)

const (
	stateCookie = "oauth_state"

	msgGitHubFailed    = "GitHub sign-in failed. Please try again."
	msgGitHubCancelled = "GitHub sign-in was cancelled."
	msgSignInFailed    = "Something went wrong. Please try again."
)

// AuthHandler serves the sign-in page and every way in and out of a
// session: email/password, GitHub OAuth and logout.
//
// github is nil when GitHub sign-in is not configured; its routes are
// then not registered and the button is hidden.
type AuthHandler struct {
	auth   *service.AuthService
	github *auth.GitHubProvider
	render *Renderer
	ttl    time.Duration
	secure bool
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. Session cookies live for ttl and
// carry the Secure flag when secure is set.
func NewAuthHandler(
	authSvc *service.AuthService,
	github *auth.GitHubProvider,
	render *Renderer,
	ttl time.Duration,
	secure bool,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:   authSvc,
		github: github,
		render: render,
		ttl:    ttl,
		secure: secure,
		logger: logger,
	}
}

// authPage is the data of auth.html.
type authPage struct {
	GitHubEnabled bool
	// Mode is "sign-in" or "sign-up": the form the error belongs to.
	Mode  string
	Email string
	Error string
}

// HandleAuthPage shows the sign-in and sign-up forms. Visitors who are
// already signed in go straight to "/".
//
// HTTP: GET /auth
func (h *AuthHandler) HandleAuthPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	page := authPage{Mode: "sign-in"}
	if r.URL.Query().Get("auth") == "denied" {
		page.Error = msgGitHubCancelled
	}
	h.renderAuth(w, http.StatusOK, page)
}

// HandleSignIn checks email and password.
//
// HTTP: POST /auth/sign-in (form: email, password)
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	h.handleCredentials(w, r, "sign-in", h.auth.SignIn)
}

// HandleSignUp creates a password account and signs it in.
//
// HTTP: POST /auth/sign-up (form: email, password)
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	h.handleCredentials(w, r, "sign-up", h.auth.SignUp)
}

// credentialFunc is SignIn or SignUp.
type credentialFunc func(ctx context.Context, email, password string) (*service.AuthResult, error)

func (h *AuthHandler) handleCredentials(w http.ResponseWriter, r *http.Request, mode string, do credentialFunc) {
	if err := r.ParseForm(); err != nil {
		h.renderAuth(w, http.StatusBadRequest, authPage{Mode: mode, Error: "Invalid form submission"})
		return
	}
	email := r.PostForm.Get("email")

	res, err := do(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		status, _ := statusFor(err)
		msg := msgSignInFailed
		if status == http.StatusInternalServerError {
			h.logger.Error("credential sign-in failed",
				slog.String("mode", mode),
				slog.String("error", err.Error()),
			)
		} else {
			msg = apperror.Message(err, msg)
		}
		h.renderAuth(w, status, authPage{Mode: mode, Email: email, Error: msg})
		return
	}

	h.startSession(w, r, res)
}

// HandleGitHubLogin sends the browser to GitHub.
//
// HTTP: GET /auth/github/login
//
// A random state goes into a short-lived HttpOnly cookie and into the
// authorization URL. The callback only proceeds when the two match, which
// proves the flow started here and not on an attacker's page (CSRF).
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback finishes the OAuth flow.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
//
//  1. Check the state against the cookie.
//  2. Exchange the code for the GitHub identity.
//  3. Sign in or provision the matching account.
//  4. Set the session cookie and continue to "/".
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || q.Get("state") != cookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// Single use.
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := q.Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, "/auth?auth=denied", http.StatusSeeOther)
		return
	}

	code := q.Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		msg := msgGitHubFailed
		if errors.Is(err, auth.ErrNoVerifiedEmail) {
			msg = "Your GitHub account needs a verified primary email."
		}
		h.renderAuth(w, http.StatusBadGateway, authPage{Mode: "sign-in", Error: msg})
		return
	}

	res, err := h.auth.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		status, _ := statusFor(err)
		msg := msgGitHubFailed
		if status == http.StatusInternalServerError {
			h.logger.Error("auth callback: sign-in failed",
				slog.Int64("githubID", ghUser.ID),
				slog.String("error", err.Error()),
			)
		} else {
			msg = apperror.Message(err, msg)
		}
		h.renderAuth(w, status, authPage{Mode: "sign-in", Error: msg})
		return
	}

	h.logger.Info("user authenticated via GitHub",
		slog.String("accountID", res.Account.ID),
		slog.String("login", ghUser.Login),
	)
	h.startSession(w, r, res)
}

// HandleLogout drops the session cookie and returns to the sign-in page.
// POST, not GET, so a prefetch or a cross-site link cannot log anyone out.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.secure)
	http.Redirect(w, r, "/auth", http.StatusSeeOther)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, res *service.AuthResult) {
	auth.SetSessionCookie(w, res.Token, h.ttl, h.secure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) renderAuth(w http.ResponseWriter, status int, page authPage) {
	page.GitHubEnabled = h.github != nil
	h.render.render(w, status, pageAuth, pageData{
		Title: "Team Form Tracker",
		Data:  page,
	})
}
