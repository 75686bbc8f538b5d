// Package server is the composition root: it opens the record store and
// the optional cache, builds services and handlers, and mounts them on a
// chi router.
//
//	config → store (SQLite or Postgres) → cache decorator → services → handlers → routes
//
// Nothing else in the module decides which implementation backs an
// interface; everything below here receives its dependencies.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/team-directory/internal/auth"
	"github.com/sakif/team-directory/internal/cache"
	"github.com/sakif/team-directory/internal/config"
	"github.com/sakif/team-directory/internal/handler"
	"github.com/sakif/team-directory/internal/middleware"
	"github.com/sakif/team-directory/internal/repository"
	"github.com/sakif/team-directory/internal/repository/postgres"
	sqliteRepo "github.com/sakif/team-directory/internal/repository/sqlite"
	"github.com/sakif/team-directory/internal/service"
)

// Server owns the router and every resource that must be released on
// shutdown (store connections, the Redis client).
type Server struct {
	router  *chi.Mux
	config  config.Config
	logger  *slog.Logger
	closers []func() error
}

// New opens the store and cache and wires all routes. On error everything
// opened so far is closed again.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, err := s.openStore(ctx)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, store.Close)

	profiles := cache.NewProfiles(store, s.openCache(ctx), cfg.CacheTTL, logger)

	if err := s.setupRoutes(store, profiles); err != nil {
		s.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// openStore picks Postgres when DATABASE_URL is set, SQLite otherwise.
func (s *Server) openStore(ctx context.Context) (repository.Store, error) {
	if s.config.DatabaseURL != "" {
		db, err := postgres.Connect(ctx, s.config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		s.logger.Info("record store ready", slog.String("driver", "postgres"))
		return db, nil
	}

	if s.config.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(s.config.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := sqliteRepo.New(s.config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	s.logger.Info("record store ready",
		slog.String("driver", "sqlite"),
		slog.String("path", s.config.DBPath),
	)
	return db, nil
}

// openCache connects to Redis when configured. An unreachable Redis is
// not fatal: the directory runs uncached. The result is a nil interface
// (not a typed nil) in that case, which cache.Profiles treats as off.
func (s *Server) openCache(ctx context.Context) cache.Store {
	if s.config.RedisAddr == "" {
		return nil
	}
	rs, err := cache.NewRedis(ctx, cache.RedisConfig{
		Addr:     s.config.RedisAddr,
		Password: s.config.RedisPassword,
		DB:       s.config.RedisDB,
	})
	if err != nil {
		s.logger.Warn("redis unavailable, running without profile cache",
			slog.String("addr", s.config.RedisAddr),
			slog.String("error", err.Error()),
		)
		return nil
	}
	s.closers = append(s.closers, rs.Close)
	s.logger.Info("profile cache ready",
		slog.String("addr", s.config.RedisAddr),
		slog.Duration("ttl", s.config.CacheTTL),
	)
	return rs
}

// setupRoutes mounts every route.
//
//	GET  /                      → onboarding or dashboard        (session)
//	GET  /dashboard             → sortable team table            (session)
//	GET  /profile/{id}          → member detail                  (session)
//	GET  /onboarding            → name form                      (session)
//	POST /onboarding            → save names                     (session)
//	GET  /auth                  → sign-in page
//	POST /auth/sign-in          → email/password sign-in
//	POST /auth/sign-up          → email/password account
//	GET  /auth/github/login     → GitHub redirect                (when configured)
//	GET  /auth/github/callback  → GitHub return                  (when configured)
//	POST /auth/logout           → clear session
//	GET  /api/me                → own profile JSON               (401 without session)
//	GET  /api/profiles          → sorted profiles JSON
//	GET  /api/profiles/{id}     → one profile JSON
//	GET  /static/*              → CSS
//
// Middleware order matters: RequestID must come before the logger so the
// id is on the log line, and Recoverer sits inside the logger so a panic
// is logged as a 500.
func (s *Server) setupRoutes(accounts repository.AccountRepository, profileRepo repository.ProfileRepository) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	render, err := handler.NewRenderer(s.config.TemplateDir, s.logger)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.SessionTTL)
	if err != nil {
		return err
	}

	var github *auth.GitHubProvider
	if s.config.GitHubEnabled() {
		github = auth.NewGitHubProvider(s.config.GitHubClientID, s.config.GitHubClientSecret, s.config.GitHubCallbackURL)
	} else {
		s.logger.Info("GitHub sign-in disabled (GITHUB_CLIENT_ID/GITHUB_CLIENT_SECRET not set)")
	}

	profileSvc := service.NewProfileService(profileRepo, s.logger)
	authSvc := service.NewAuthService(accounts, tokens, auth.NewPasswordService(auth.DefaultCost), s.logger)

	pages := handler.NewPageHandler(profileSvc, render, s.config.DisplayLocation, s.logger)
	authHandler := handler.NewAuthHandler(authSvc, github, render, tokens.TTL(), s.config.CookieSecure, s.logger)
	api := handler.NewAPIHandler(profileSvc, s.logger)

	s.router.Route("/auth", func(r chi.Router) {
		r.With(auth.OptionalAuth(tokens)).Get("/", authHandler.HandleAuthPage)
		r.Post("/sign-in", authHandler.HandleSignIn)
		r.Post("/sign-up", authHandler.HandleSignUp)
		r.Post("/logout", authHandler.HandleLogout)
		if github != nil {
			r.Get("/github/login", authHandler.HandleGitHubLogin)
			r.Get("/github/callback", authHandler.HandleGitHubCallback)
		}
	})

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(tokens, "/auth"))
		r.Get("/", pages.HandleRoot)
		r.Get("/dashboard", pages.HandleDashboard)
		r.Get("/profile/{id}", pages.HandleProfile)
		r.Get("/onboarding", pages.HandleOnboarding)
		r.Post("/onboarding", pages.HandleOnboardingSubmit)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/me", api.HandleMe)
		r.Get("/profiles", api.HandleListProfiles)
		r.Get("/profiles/{id}", api.HandleGetProfile)
	})

	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the store and cache, newest first.
func (s *Server) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests for
// up to 30s and closes the store.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
