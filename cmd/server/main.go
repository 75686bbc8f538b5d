// Command server runs the team directory web app.
//
// main only reads the configuration, builds the logger and hands both to
// internal/server; everything else lives in internal/.
//
// Configuration is environment only, e.g.:
//
//	JWT_SECRET=$(openssl rand -hex 32) LOG_LEVEL=debug go run ./cmd/server
package main

import (
	"log/slog"
	"os"

	"github.com/sakif/team-directory/internal/config"
	"github.com/sakif/team-directory/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No level from config yet; report with a default logger.
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
