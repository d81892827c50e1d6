// Copyright (c) 2026 MIZDB. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var flags rootFlags

	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "archivectl",
		Short:         "Periodicals archive maintenance CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.databaseURL, "database-url", "", "PostgreSQL URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&flags.sqlitePath, "sqlite", "", "SQLite database file (overrides SQLITE_PATH)")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newOrderCommand(ctx))
	rootCmd.AddCommand(newIncrementCommand(ctx))

	return rootCmd
}
