// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Command sqliteseed provisions and exports seeded SQLite databases.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/mdhender/sqliteseed/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
