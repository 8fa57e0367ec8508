// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ProvisionResult is the output of the provision command.
type ProvisionResult struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	State string `json:"state"`
}

// NewProvisionCommand creates the provision command.
func NewProvisionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Create the database from the seed if it does not exist",
		Long: `Open the database for writing, copying the seed into place first when
no usable database file exists, then close it.

A seed that cannot be copied is logged and an empty database is created
instead; the reported state is then "unknown".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHelper(rootOpts, cmd)
			if err != nil {
				return err
			}

			db, err := h.Writable(cmd.Context())
			if err != nil {
				return err
			}
			if err := db.Close(); err != nil {
				return fmt.Errorf("close: %w", err)
			}

			result := ProvisionResult{Name: h.Name(), Path: h.Path(), State: h.State().String()}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Success(result,
				fmt.Sprintf("%s: %s", result.Path, result.State))
		},
	}
}
