package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tubetag/internal/library"
	"tubetag/internal/services"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Browse the index of processed tracks",
	}
	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibraryShowCommand(ctx))
	libraryCmd.AddCommand(newLibraryRemoveCommand(ctx))
	return libraryCmd
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	var opts library.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracks ordered by artist and title",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(store *library.Store) error {
				tracks, err := store.List(cmd.Context(), opts)
				if err != nil {
					return err
				}
				if tracks == nil {
					tracks = []*library.Track{}
				}
				return emit(ctx, cmd, tracks, func() error {
					out := cmd.OutOrStdout()
					if len(tracks) == 0 {
						fmt.Fprintln(out, "Library is empty")
						return nil
					}
					rows := make([][]string, 0, len(tracks))
					for _, t := range tracks {
						rows = append(rows, []string{strconv.FormatInt(t.ID, 10), t.Artist, t.Title, t.Album, trackNumberText(t.TrackNumber), t.Path})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"ID", "Artist", "Title", "Album", "#", "Path"},
						rows,
						[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
						shouldColorize(out),
						60,
					))
					return nil
				})
			})
		},
	}
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Only tracks whose artist, title or album contains this text")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Maximum number of tracks to list")
	return cmd
}

func newLibraryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|path>",
		Short: "Show one track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(store *library.Store) error {
				track, err := lookupTrack(cmd, store, args[0])
				if err != nil {
					return err
				}
				return emit(ctx, cmd, track, func() error {
					rows := [][]string{
						{"id", strconv.FormatInt(track.ID, 10)},
						{"path", track.Path},
						{"artist", track.Artist},
						{"title", track.Title},
						{"album", track.Album},
						{"track", trackNumberText(track.TrackNumber)},
						{"source title", track.SourceTitle},
						{"run id", track.RunID},
						{"added", track.CreatedAt.Local().Format("2006-01-02 15:04")},
						{"updated", track.UpdatedAt.Local().Format("2006-01-02 15:04")},
					}
					fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil, shouldColorize(cmd.OutOrStdout()), 0))
					return nil
				})
			})
		},
	}
}

func newLibraryRemoveCommand(ctx *commandContext) *cobra.Command {
	var deleteFile bool

	cmd := &cobra.Command{
		Use:   "remove <id|path>",
		Short: "Remove a track from the index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(store *library.Store) error {
				track, err := lookupTrack(cmd, store, args[0])
				if err != nil {
					return err
				}
				if deleteFile {
					if err := os.Remove(track.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
						return fmt.Errorf("delete %s: %w", track.Path, err)
					}
				}
				if err := store.Remove(cmd.Context(), track.ID); err != nil {
					return err
				}
				return emit(ctx, cmd, map[string]any{"removed": track.ID, "file_deleted": deleteFile}, func() error {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed track %d (%s)\n", track.ID, track.Path)
					return nil
				})
			})
		},
	}
	cmd.Flags().BoolVar(&deleteFile, "delete-file", false, "Also delete the audio file")
	return cmd
}

// lookupTrack accepts a numeric id or a stored path.
func lookupTrack(cmd *cobra.Command, store *library.Store, arg string) (*library.Track, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, services.Wrap(services.ErrValidation, "library", "lookup", "Track id or path is required", nil)
	}
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return store.Get(cmd.Context(), id)
	}
	return store.GetByPath(cmd.Context(), arg)
}

func trackNumberText(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
