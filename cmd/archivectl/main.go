// Copyright (c) 2026 MIZDB. All rights reserved.

// Command archivectl runs archive operations against the configured store
// without the HTTP server: migrations, chronological listings and volume runs.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
