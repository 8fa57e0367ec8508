// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ExportResult is the output of the export commands.
type ExportResult struct {
	File string `json:"file"`
	Kind string `json:"kind"` // "copy", "fresh", or "snapshot"
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Copy the live database file to the export directory",
		Long: `Copy the live database file byte for byte to <file> in the export
directory (export_dir, or the downloads directory when unset).

The database must already exist; run provision first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHelper(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := h.Export(cmd.Context(), args[0]); err != nil {
				return err
			}
			return exported(rootOpts, cmd, args[0], "copy")
		},
	}
}

// NewExportFreshCommand creates the export-fresh command.
func NewExportFreshCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export-fresh <file>",
		Short: "Write a newly created database to the export directory",
		Long: `Create a new database at <file> in the export directory and run the
create scripts (migrations) on it. The live database is not touched.
The result can be bundled as a seed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHelper(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := h.ExportOnCreate(cmd.Context(), args[0]); err != nil {
				return err
			}
			return exported(rootOpts, cmd, args[0], "fresh")
		},
	}
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <file>",
		Short: "Write a consistent copy of the database with VACUUM INTO",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHelper(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := h.Snapshot(cmd.Context(), args[0]); err != nil {
				return err
			}
			return exported(rootOpts, cmd, args[0], "snapshot")
		},
	}
}

func exported(opts *RootOptions, cmd *cobra.Command, file, kind string) error {
	return newFormatter(opts, cmd.OutOrStdout()).Success(ExportResult{File: file, Kind: kind},
		fmt.Sprintf("exported %s (%s)", file, kind))
}
