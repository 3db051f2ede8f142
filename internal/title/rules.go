package title

import "strings"

// defaultNoiseTerms mark bracketed or trailing text that describes the
// upload rather than the song.
var defaultNoiseTerms = []string{
	"official video", "official music video", "official audio", "official",
	"lyrics", "lyric video", "with lyrics", "letra", "paroles",
	"hd", "hq", "4k", "uhd", "1080p", "720p", "480p",
	"audio", "video", "music video", "visualizer", "remaster", "remastered",
	"full album", "full", "explicit", "clean version", "radio edit",
	"extended", "remix", "live", "acoustic", "unplugged",
}

// defaultCollaborationMarkers mark bracketed spans naming featured artists.
var defaultCollaborationMarkers = []string{"feat", "ft", "featuring", "with", "&", "x"}

// DefaultShortDescriptorLimit is the rune length under which an otherwise
// unclassified bracketed span is kept.
const DefaultShortDescriptorLimit = 30

// Rules holds the lookup tables used by a Parser.
type Rules struct {
	NoiseTerms           []string
	CollaborationMarkers []string
	ShortDescriptorLimit int
}

// DefaultRules returns a fresh copy of the built-in tables.
func DefaultRules() Rules {
	return Rules{
		NoiseTerms:           append([]string(nil), defaultNoiseTerms...),
		CollaborationMarkers: append([]string(nil), defaultCollaborationMarkers...),
		ShortDescriptorLimit: DefaultShortDescriptorLimit,
	}
}

// normalized lowercases and trims every entry, drops blanks and duplicates,
// and falls back to defaults for empty tables.
func (r Rules) normalized() Rules {
	out := Rules{
		NoiseTerms:           lowerSet(r.NoiseTerms),
		CollaborationMarkers: lowerSet(r.CollaborationMarkers),
		ShortDescriptorLimit: r.ShortDescriptorLimit,
	}
	if len(out.NoiseTerms) == 0 {
		out.NoiseTerms = append([]string(nil), defaultNoiseTerms...)
	}
	if len(out.CollaborationMarkers) == 0 {
		out.CollaborationMarkers = append([]string(nil), defaultCollaborationMarkers...)
	}
	if out.ShortDescriptorLimit <= 0 {
		out.ShortDescriptorLimit = DefaultShortDescriptorLimit
	}
	return out
}

func lowerSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
