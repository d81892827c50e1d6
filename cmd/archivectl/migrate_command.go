// Copyright (c) 2026 MIZDB. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Actionb/MIZDB-sub002/internal/storage"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := storage.Migrate(cfg, ctx.logger()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", cfg.Driver())
			return nil
		},
	}
}
