package main

import (
	"github.com/spf13/cobra"

	"tubetag/internal/metadata"
)

// tagFlags collects --artist/--title/--album/--track. Only flags the user
// set end up in the edits, so an explicit empty value is distinguishable
// from an absent one.
type tagFlags struct {
	artist string
	title  string
	album  string
	track  string
}

func (f *tagFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.artist, "artist", "", "Artist tag")
	cmd.Flags().StringVar(&f.title, "title", "", "Title tag")
	cmd.Flags().StringVar(&f.album, "album", "", "Album tag")
	cmd.Flags().StringVar(&f.track, "track", "", "Track number")
}

func (f *tagFlags) edits(cmd *cobra.Command) metadata.Metadata {
	edits := metadata.Metadata{}
	for flag, pair := range map[string]struct {
		key   string
		value string
	}{
		"artist": {metadata.KeyArtist, f.artist},
		"title":  {metadata.KeyTitle, f.title},
		"album":  {metadata.KeyAlbum, f.album},
		"track":  {metadata.KeyTrackNumber, f.track},
	} {
		if cmd.Flags().Changed(flag) {
			edits[pair.key] = pair.value
		}
	}
	return edits
}
