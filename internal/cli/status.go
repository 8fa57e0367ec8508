// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// StatusResult is the output of the status command.
type StatusResult struct {
	Path        string `json:"path"`
	Exists      bool   `json:"exists"`
	Probe       string `json:"probe"`
	Size        int64  `json:"size"`
	UserVersion int    `json:"user_version"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Inspect the database file without provisioning it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHelper(rootOpts, cmd)
			if err != nil {
				return err
			}

			st, err := h.Status(cmd.Context())
			if err != nil {
				return err
			}

			result := StatusResult{
				Path:        st.Path,
				Exists:      st.Exists,
				Probe:       st.Probe.String(),
				Size:        st.Size,
				UserVersion: st.UserVersion,
			}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Success(result,
				fmt.Sprintf("path:         %s", result.Path),
				fmt.Sprintf("probe:        %s", result.Probe),
				fmt.Sprintf("size:         %d", result.Size),
				fmt.Sprintf("user_version: %d", result.UserVersion))
		},
	}
}
