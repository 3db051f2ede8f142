package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// emit writes v as JSON when --json is set and calls text otherwise.
func emit(ctx *commandContext, cmd *cobra.Command, v any, text func() error) error {
	if ctx.jsonOutput() {
		if err := writeJSON(cmd, v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
	return text()
}
