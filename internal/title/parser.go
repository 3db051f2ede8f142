package title

import (
	"strings"

	"tubetag/internal/metadata"
)

// Parser splits and cleans video titles using a fixed set of Rules.
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	rules Rules
}

// New builds a Parser. Empty tables in rules fall back to the defaults.
func New(rules Rules) *Parser {
	return &Parser{rules: rules.normalized()}
}

var defaultParser = New(DefaultRules())

// Rules returns a copy of the tables the parser was built with.
func (p *Parser) Rules() Rules {
	return Rules{
		NoiseTerms:           append([]string(nil), p.rules.NoiseTerms...),
		CollaborationMarkers: append([]string(nil), p.rules.CollaborationMarkers...),
		ShortDescriptorLimit: p.rules.ShortDescriptorLimit,
	}
}

// Parse infers artist and title from raw using the default rules.
func Parse(raw, fallbackArtist string) metadata.Metadata {
	return defaultParser.Parse(raw, fallbackArtist)
}

// Parse infers artist and title from raw. "Artist - Title" wins over
// "Channel: Title"; without either separator the whole string is the title
// and fallbackArtist becomes the artist.
func (p *Parser) Parse(raw, fallbackArtist string) metadata.Metadata {
	for _, sep := range []string{" - ", ": "} {
		if artist, rest, ok := strings.Cut(raw, sep); ok {
			return metadata.Metadata{
				metadata.KeyArtist: strings.TrimSpace(artist),
				metadata.KeyTitle:  p.CleanTitle(strings.TrimSpace(rest)),
			}
		}
	}
	return metadata.Metadata{
		metadata.KeyArtist: strings.TrimSpace(fallbackArtist),
		metadata.KeyTitle:  p.CleanTitle(strings.TrimSpace(raw)),
	}
}

// SourceInfo is the subset of downloader metadata used to infer tags.
type SourceInfo struct {
	Title         string `json:"title"`
	Uploader      string `json:"uploader"`
	Channel       string `json:"channel"`
	Album         string `json:"album"`
	PlaylistTitle string `json:"playlist_title"`
}

// FromSource parses info using the default rules.
func FromSource(info SourceInfo) metadata.Metadata {
	return defaultParser.FromSource(info)
}

// FromSource parses the source title with the uploader (or channel) as the
// fallback artist. Album comes from the album field, then the playlist
// title, and is omitted when both are blank.
func (p *Parser) FromSource(info SourceInfo) metadata.Metadata {
	m := p.Parse(info.Title, firstNonBlank(info.Uploader, info.Channel))
	if album := firstNonBlank(info.Album, info.PlaylistTitle); album != "" {
		m[metadata.KeyAlbum] = album
	}
	return m
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
