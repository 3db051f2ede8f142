package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tubetag/internal/config"
	"tubetag/internal/organizer"
	"tubetag/internal/services"
)

func newRetagCommand(ctx *commandContext) *cobra.Command {
	var flags tagFlags
	var rename bool

	cmd := &cobra.Command{
		Use:   "retag <file>",
		Short: "Edit the tags of a file in the collection",
		Long: `Edit the tags of a file in the collection.

Only the fields passed as flags change. An empty value never clears a stored
tag. With --rename the file is renamed to match the new tags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edits := flags.edits(cmd)
			if len(edits) == 0 && !rename {
				return services.Wrap(services.ErrValidation, "retag", "parse flags", "Nothing to do; pass --artist, --title, --album, --track or --rename", nil)
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			var result *organizer.Result
			err = ctx.withOrganizer(func(org *organizer.Organizer) error {
				var retagErr error
				result, retagErr = org.Retag(cmd.Context(), organizer.RetagRequest{Path: path, Edits: edits, Rename: rename})
				return retagErr
			})
			if result == nil {
				return err
			}
			if emitErr := emit(ctx, cmd, result, func() error {
				printMetadata(cmd, result.Metadata)
				if result.Path != result.SourcePath {
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", "renamed:", result.Path)
				}
				return nil
			}); emitErr != nil {
				return errors.Join(err, emitErr)
			}
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&rename, "rename", false, "Rename the file to match the new tags")
	return cmd
}
