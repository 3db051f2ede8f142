package filename

import (
	"strings"
	"unicode/utf8"

	"tubetag/internal/metadata"
	"tubetag/internal/textutil"
)

const (
	// MaxNameLength is the rune budget Sanitize truncates to.
	MaxNameLength = 200
	// MaxValidLength is the longest name Validate accepts, in runes.
	MaxValidLength = 255
	// minNameLength keeps a truncated stem longer than any reserved name.
	minNameLength = 16

	invalidChars = `<>:"/\|?*`
	untitled     = "untitled"
)

var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// Sanitizer cleans candidate names. The zero value is not usable; build one
// with NewSanitizer.
type Sanitizer struct {
	normalizer *textutil.Normalizer
	maxLength  int
}

// NewSanitizer returns a Sanitizer using normalizer (DefaultNormalizer when
// nil) and truncating to maxLength runes. Zero or oversized limits mean
// MaxNameLength; tiny limits are raised to 16.
func NewSanitizer(normalizer *textutil.Normalizer, maxLength int) *Sanitizer {
	if normalizer == nil {
		normalizer = textutil.DefaultNormalizer
	}
	switch {
	case maxLength <= 0 || maxLength > MaxNameLength:
		maxLength = MaxNameLength
	case maxLength < minNameLength:
		maxLength = minNameLength
	}
	return &Sanitizer{normalizer: normalizer, maxLength: maxLength}
}

var defaultSanitizer = NewSanitizer(nil, MaxNameLength)

// Sanitize cleans name with the default sanitizer.
func Sanitize(name string) string {
	return defaultSanitizer.Sanitize(name)
}

// SafeName builds, sanitizes and suffixes a name with the default sanitizer.
func SafeName(m metadata.Metadata, ext string) string {
	return defaultSanitizer.SafeName(m, ext)
}

// Sanitize returns a name that Validate accepts. It normalizes text, deletes
// characters invalid on common filesystems, collapses whitespace, trims
// spaces and dots, truncates, and returns "untitled" when nothing is left.
// Sanitize is idempotent.
func (s *Sanitizer) Sanitize(name string) string {
	name = stripInvalid(name)
	name = stripInvalid(s.normalizer.Normalize(name))
	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, " .")
	name = guardReserved(name)
	name = truncateRunes(name, s.maxLength)
	name = strings.Trim(name, " .")
	if name == "" {
		return untitled
	}
	// Trimming can expose a bare device name: "CON . . ." becomes "CON".
	return guardReserved(name)
}

// SafeName is Sanitize(BuildCandidate(m)) followed by ext. ext may be given
// with or without the leading dot; it is not sanitized beyond that.
func (s *Sanitizer) SafeName(m metadata.Metadata, ext string) string {
	return s.Sanitize(BuildCandidate(m)) + normalizeExt(ext)
}

// Validate reports whether name is usable as a file name on the filesystems
// tubetag targets.
func Validate(name string) bool {
	if name == "" {
		return false
	}
	if strings.ContainsAny(name, invalidChars) {
		return false
	}
	if utf8.RuneCountInString(name) > MaxValidLength {
		return false
	}
	return !isReserved(name)
}

func stripInvalid(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidChars, r) {
			return -1
		}
		return r
	}, name)
}

// stem is everything before the first dot, matching how Windows resolves
// device names ("con.txt" is still CON).
func stem(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

func isReserved(name string) bool {
	_, ok := reservedNames[strings.ToUpper(stem(name))]
	return ok
}

// guardReserved appends "_" to a reserved stem so "CON.mp3" becomes
// "CON_.mp3".
func guardReserved(name string) string {
	if !isReserved(name) {
		return name
	}
	s := stem(name)
	return s + "_" + name[len(s):]
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
