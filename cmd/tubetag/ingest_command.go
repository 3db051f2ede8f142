package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tubetag/internal/config"
	"tubetag/internal/organizer"
	"tubetag/internal/title"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var source title.SourceInfo
	var infoJSON string
	var keep bool

	cmd := &cobra.Command{
		Use:   "ingest <file|dir>...",
		Short: "Tag downloaded audio and move it into the music directory",
		Long: `Tag downloaded audio and move it into the music directory.

Source details come from --info-json, the source flags, or a "<name>.info.json"
file written next to each download. Directories are scanned for files with
the configured download.audio_format extension.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(infoJSON) != "" {
				info, err := organizer.ReadSourceInfo(infoJSON)
				if err != nil {
					return err
				}
				source = mergeSource(info, source)
			}

			files, err := collectAudioFiles(args, cfg)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No audio files found")
				return nil
			}

			var (
				results []*organizer.Result
				errs    []error
			)
			colorize := shouldColorize(cmd.OutOrStdout())
			err = ctx.withOrganizer(func(org *organizer.Organizer) error {
				for _, file := range files {
					result, err := org.Ingest(cmd.Context(), organizer.Request{Path: file, Source: source, Keep: keep})
					if err != nil {
						if cmd.Context().Err() != nil {
							return err
						}
						errs = append(errs, fmt.Errorf("%s: %w", file, err))
						if !ctx.jsonOutput() {
							fmt.Fprintln(cmd.OutOrStdout(), renderStatusLine(filepath.Base(file), statusError, err.Error(), colorize))
						}
						continue
					}
					results = append(results, result)
					if !ctx.jsonOutput() {
						printIngestResult(cmd, result, colorize)
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().StringVar(&source.Title, "source-title", "", "Original video title")
	cmd.Flags().StringVar(&source.Uploader, "uploader", "", "Uploader name, the fallback artist")
	cmd.Flags().StringVar(&source.Channel, "channel", "", "Channel name, used when uploader is empty")
	cmd.Flags().StringVar(&source.Album, "source-album", "", "Album reported by the source")
	cmd.Flags().StringVar(&source.PlaylistTitle, "playlist", "", "Playlist title, used when the album is empty")
	cmd.Flags().StringVar(&infoJSON, "info-json", "", "Downloader info JSON describing the source")
	cmd.Flags().BoolVar(&keep, "keep", false, "Copy instead of move and leave thumbnails in place")
	return cmd
}

// mergeSource overlays non-blank fields of override onto base.
func mergeSource(base, override title.SourceInfo) title.SourceInfo {
	pick := func(a, b string) string {
		if strings.TrimSpace(b) != "" {
			return b
		}
		return a
	}
	return title.SourceInfo{
		Title:         pick(base.Title, override.Title),
		Uploader:      pick(base.Uploader, override.Uploader),
		Channel:       pick(base.Channel, override.Channel),
		Album:         pick(base.Album, override.Album),
		PlaylistTitle: pick(base.PlaylistTitle, override.PlaylistTitle),
	}
}

func collectAudioFiles(args []string, cfg *config.Config) ([]string, error) {
	var files []string
	for _, arg := range args {
		path, err := config.ExpandPath(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve path %q: %w", arg, err)
		}
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := organizer.ScanDir(path, cfg.AudioExtension())
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func printIngestResult(cmd *cobra.Command, result *organizer.Result, colorize bool) {
	out := cmd.OutOrStdout()
	var notes []string
	if !result.Tagged {
		notes = append(notes, "untagged")
	}
	if result.CoverEmbedded {
		notes = append(notes, "cover")
	}
	message := result.Path
	if len(notes) > 0 {
		message += " (" + strings.Join(notes, ", ") + ")"
	}
	fmt.Fprintln(out, renderStatusLine(filepath.Base(result.SourcePath), statusOK, message, colorize))
	for _, dup := range result.Duplicates {
		fmt.Fprintln(out, renderStatusLine("possible duplicate", statusWarn,
			fmt.Sprintf("%s (%.0f%%)", dup.Track.Path, dup.Score*100), colorize))
	}
}
