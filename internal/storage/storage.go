// Copyright (c) 2026 MIZDB. All rights reserved.

// Package storage selects, migrates and opens the archive's backing store
// according to the configuration. It is shared by the API server and the CLI.
package storage

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Actionb/MIZDB-sub002/internal/core/periodical"
	"github.com/Actionb/MIZDB-sub002/internal/platform/config"
	"github.com/Actionb/MIZDB-sub002/internal/platform/migration"
	pgstore "github.com/Actionb/MIZDB-sub002/internal/platform/postgres"
	"github.com/Actionb/MIZDB-sub002/internal/platform/sqlite"
)

// Store is an opened backing store.
type Store struct {
	Driver     config.Driver
	Repository periodical.IssueRepository

	pool *pgxpool.Pool
	db   *sql.DB
}

// Migrate applies the embedded migrations for the configured driver.
func Migrate(cfg *config.Config, logger *slog.Logger) error {
	if cfg.Driver() == config.DriverPostgres {
		return migration.RunUp(cfg.DatabaseURL, logger)
	}
	return migration.RunSQLite(cfg.SQLitePath, logger)
}

// Open migrates and connects the configured store.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if err := Migrate(cfg, logger); err != nil {
		return nil, err
	}

	if cfg.Driver() == config.DriverPostgres {
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:     config.DriverPostgres,
			Repository: periodical.NewPostgresRepository(pool),
			pool:       pool,
		}, nil
	}

	db, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
	if err != nil {
		return nil, err
	}
	return &Store{
		Driver:     config.DriverSQLite,
		Repository: periodical.NewSQLiteRepository(db),
		db:         db,
	}, nil
}

// Ping checks that the store answers.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool != nil {
		return pgstore.Ping(ctx, s.pool)
	}
	return s.db.PingContext(ctx)
}

// Close releases the connections of the store.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
		return nil
	}
	return s.db.Close()
}
