// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// Response is the JSON envelope for command output.
type Response struct {
	Status string `json:"status"`         // always "ok"; failures are returned as errors
	Data   any    `json:"data,omitempty"` // success payload
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

func newFormatter(opts *RootOptions, w io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: w}
}

// Success writes data as a JSON envelope, or the text lines otherwise.
func (f *OutputFormatter) Success(data any, lines ...string) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(Response{Status: "ok", Data: data})
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(f.Writer, line); err != nil {
			return err
		}
	}
	return nil
}
