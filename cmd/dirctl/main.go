// Command dirctl is the operator CLI for the team directory. It works on
// the same record store as the server:
//
//	dirctl seed --file profiles.yaml     import members from YAML
//	dirctl list --sort team --desc       print the directory table
//
// The store is SQLite at --db (default $DB_PATH or data/directory.db), or
// Postgres when --database-url (default $DATABASE_URL) is set.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
