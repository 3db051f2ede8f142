package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tubetag/internal/config"
	"tubetag/internal/filename"
	"tubetag/internal/metadata"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	var fallbackArtist string

	cmd := &cobra.Command{
		Use:   "parse <video title>",
		Short: "Infer artist and title from a video title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := ctx.offlineOrganizer()
			if err != nil {
				return err
			}
			parsed := org.Parser().Parse(strings.Join(args, " "), fallbackArtist)
			return emit(ctx, cmd, parsed, func() error {
				printMetadata(cmd, parsed)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&fallbackArtist, "fallback-artist", "", "Artist to use when the title has no separator")
	return cmd
}

type sanitizeOutput struct {
	Input     string `json:"input"`
	Sanitized string `json:"sanitized"`
	Valid     bool   `json:"input_valid"`
}

func newSanitizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize <name>",
		Short: "Turn a string into a safe filename",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := ctx.offlineOrganizer()
			if err != nil {
				return err
			}
			input := strings.Join(args, " ")
			result := sanitizeOutput{
				Input:     input,
				Sanitized: org.Sanitizer().Sanitize(input),
				Valid:     filename.Validate(input),
			}
			return emit(ctx, cmd, result, func() error {
				fmt.Fprintln(cmd.OutOrStdout(), result.Sanitized)
				return nil
			})
		},
	}
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var reserve bool

	cmd := &cobra.Command{
		Use:   "resolve <dir> <name>",
		Short: "Print a collision-free path for name in dir",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}
			resolve := filename.ResolveUnique
			if reserve {
				resolve = filename.Reserve
			}
			path, err := resolve(dir, args[1])
			if err != nil {
				return err
			}
			return emit(ctx, cmd, map[string]string{"path": path}, func() error {
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&reserve, "reserve", false, "Create the file so no other process can claim the name")
	return cmd
}

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var flags tagFlags

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show the filename a tag edit would produce",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := ctx.offlineOrganizer()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			name, err := org.Preview(path, flags.edits(cmd))
			if err != nil {
				return err
			}
			return emit(ctx, cmd, map[string]string{"name": name}, func() error {
				fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func printMetadata(cmd *cobra.Command, m metadata.Metadata) {
	out := cmd.OutOrStdout()
	for _, key := range metadata.Keys {
		if value, ok := m.Get(key); ok {
			fmt.Fprintf(out, "%-12s %s\n", key+":", value)
		}
	}
}
