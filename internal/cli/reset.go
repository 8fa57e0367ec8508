// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdhender/sqliteseed"
)

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the database file so the next provision re-seeds it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHelper(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := sqliteseed.Delete(cmd.Context(), h.Path()); err != nil {
				return err
			}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Success(map[string]string{"path": h.Path()},
				fmt.Sprintf("deleted %s", h.Path()))
		},
	}
}
