// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdhender/sqliteseed"
	"github.com/mdhender/sqliteseed/internal/config"
)

// newHelper loads the configuration and builds the Helper every command
// works through. Logs go to stderr so JSON output stays clean.
func newHelper(opts *RootOptions, cmd *cobra.Command) (*sqliteseed.Helper, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}

	hc, err := cfg.HelperConfig(cfg.Logger(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}
	return sqliteseed.New(hc)
}
