// Copyright (c) 2026 MIZDB. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/Actionb/MIZDB-sub002/internal/core/periodical"
	"github.com/Actionb/MIZDB-sub002/internal/platform/config"
	"github.com/Actionb/MIZDB-sub002/internal/storage"
)

type rootFlags struct {
	databaseURL string
	sqlitePath  string
	debug       bool
}

type commandContext struct {
	flags *rootFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig loads the environment configuration once and applies the
// command line overrides on top of it.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			c.configErr = err
			return
		}
		if url := strings.TrimSpace(c.flags.databaseURL); url != "" {
			cfg.DatabaseURL = url
		}
		if path := strings.TrimSpace(c.flags.sqlitePath); path != "" {
			cfg.DatabaseURL = ""
			cfg.SQLitePath = path
		}
		if c.flags.debug {
			cfg.Debug = true
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	level := slog.LevelWarn
	if c.config != nil && c.config.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// withService opens the store for the duration of fn.
func (c *commandContext) withService(ctx context.Context, fn func(*periodical.Service) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger := c.logger()

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(periodical.NewService(store.Repository, logger))
}
