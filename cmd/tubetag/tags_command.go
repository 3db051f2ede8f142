package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tubetag/internal/config"
	"tubetag/internal/metadata"
	"tubetag/internal/tags"
)

type tagsOutput struct {
	Path     string            `json:"path"`
	Tags     metadata.Metadata `json:"tags"`
	HasCover bool              `json:"has_cover"`
	Writable bool              `json:"writable"`
}

func newTagsCommand(ctx *commandContext) *cobra.Command {
	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "Inspect audio tags",
	}
	tagsCmd.AddCommand(&cobra.Command{
		Use:   "show <file>",
		Short: "Print the tags stored in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			stored, err := tags.Read(path)
			if err != nil {
				return fmt.Errorf("read tags: %w", err)
			}
			hasCover, err := tags.HasCover(path)
			if err != nil {
				return fmt.Errorf("read cover: %w", err)
			}
			result := tagsOutput{Path: path, Tags: stored, HasCover: hasCover, Writable: tags.Writable(path)}
			return emit(ctx, cmd, result, func() error {
				rows := make([][]string, 0, len(metadata.Keys)+2)
				for _, key := range metadata.Keys {
					rows = append(rows, []string{key, stored.Value(key)})
				}
				rows = append(rows, []string{"cover", yesNo(hasCover)}, []string{"writable", yesNo(result.Writable)})
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil, shouldColorize(cmd.OutOrStdout()), 0))
				return nil
			})
		},
	})
	return tagsCmd
}
