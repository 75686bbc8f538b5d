package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sakif/team-directory/internal/repository"
	"github.com/sakif/team-directory/internal/repository/postgres"
	"github.com/sakif/team-directory/internal/repository/sqlite"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	dbPath      string
	databaseURL string
	verbose     bool

	logger *slog.Logger
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:   "dirctl",
		Short: "Operate the team directory store",
		Long: `dirctl seeds and inspects the team directory's record store.

It opens the same SQLite file or Postgres database the server uses, so
members imported here show up on the dashboard immediately.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if f.verbose {
				level = slog.LevelDebug
			}
			f.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	root.PersistentFlags().StringVar(&f.dbPath, "db", envOr("DB_PATH", "data/directory.db"), "SQLite database file")
	root.PersistentFlags().StringVar(&f.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection URL (overrides --db)")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newSeedCmd(f), newListCmd(f))
	return root
}

// openStore opens the configured store. The caller closes it.
func (f *rootFlags) openStore(ctx context.Context) (repository.Store, error) {
	if f.databaseURL != "" {
		f.logger.Debug("opening postgres store")
		db, err := postgres.Connect(ctx, f.databaseURL)
		if err != nil {
			return nil, err
		}
		return db, nil
	}

	if f.dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(f.dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	f.logger.Debug("opening sqlite store", slog.String("path", f.dbPath))
	db, err := sqlite.New(f.dbPath)
	if err != nil {
		return nil, err
	}
	return db, nil
}
