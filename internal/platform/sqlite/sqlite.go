// Copyright (c) 2026 MIZDB. All rights reserved.

// Package sqlite opens the embedded SQLite database used when the archive runs
// without a PostgreSQL server (CLI use, local development, integration tests).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	// modernc registers the pure-Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

// pragmas are applied once per database. The pool is limited to a single
// connection so that they hold for every statement.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

// Open creates the parent directory of path if needed and opens the database.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create directory %q: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: apply pragma %q: %w", pragma, execErr)
		}
	}

	logger.Info("sqlite_database_opened", slog.String("path", path))
	return db, nil
}
