package filename

import (
	"path/filepath"
	"strings"

	"tubetag/internal/metadata"
)

// BuildCandidate joins artist and title as "Artist - Title", uses whichever
// is present when only one is, and falls back to "untitled".
func BuildCandidate(m metadata.Metadata) string {
	artist, title := m.Artist(), m.Title()
	switch {
	case artist != "" && title != "":
		return artist + " - " + title
	case title != "":
		return title
	case artist != "":
		return artist
	default:
		return untitled
	}
}

// Preview returns the name a file at currentPath would get for m with the
// default sanitizer.
func Preview(m metadata.Metadata, currentPath string) string {
	return defaultSanitizer.Preview(m, currentPath)
}

// Preview is the editor's live filename preview: the current extension is
// kept, and when both artist and title are blank the current stem is reused
// instead of "untitled".
func (s *Sanitizer) Preview(m metadata.Metadata, currentPath string) string {
	base := filepath.Base(currentPath)
	stemPart, ext := splitExt(base)
	candidate := BuildCandidate(m)
	if m.Artist() == "" && m.Title() == "" && strings.TrimSpace(stemPart) != "" {
		candidate = stemPart
	}
	return s.Sanitize(candidate) + ext
}

// splitExt splits the final extension off name. Leading dots belong to the
// stem, so ".hidden" has no extension.
func splitExt(name string) (string, string) {
	trimmed := strings.TrimLeft(name, ".")
	ext := filepath.Ext(trimmed)
	return name[:len(name)-len(ext)], ext
}
