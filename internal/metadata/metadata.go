package metadata

import (
	"strconv"
	"strings"
)

// Recognized keys.
const (
	KeyArtist      = "artist"
	KeyTitle       = "title"
	KeyAlbum       = "album"
	KeyTrackNumber = "tracknumber"
)

// Keys lists the recognized keys in display order.
var Keys = []string{KeyArtist, KeyTitle, KeyAlbum, KeyTrackNumber}

// Metadata maps recognized keys to raw string values.
type Metadata map[string]string

// Get returns the raw value and whether the key is present.
func (m Metadata) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[key]
	return v, ok
}

// Value returns the trimmed value for key, or "" when absent.
func (m Metadata) Value(key string) string {
	v, _ := m.Get(key)
	return strings.TrimSpace(v)
}

// Has reports whether key is present and non-blank.
func (m Metadata) Has(key string) bool {
	return m.Value(key) != ""
}

func (m Metadata) Artist() string { return m.Value(KeyArtist) }

func (m Metadata) Title() string { return m.Value(KeyTitle) }

func (m Metadata) Album() string { return m.Value(KeyAlbum) }

// TrackNumber parses the tracknumber field. It returns false when the field
// is absent, blank, not an integer, or not positive. "3/12" style values
// yield the leading number.
func (m Metadata) TrackNumber() (int, bool) {
	raw := m.Value(KeyTrackNumber)
	if raw == "" {
		return 0, false
	}
	if idx := strings.IndexByte(raw, '/'); idx >= 0 {
		raw = strings.TrimSpace(raw[:idx])
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// SetTrackNumber stores n, or removes the key when n is not positive.
func (m Metadata) SetTrackNumber(n int) {
	if n <= 0 {
		delete(m, KeyTrackNumber)
		return
	}
	m[KeyTrackNumber] = strconv.Itoa(n)
}

// Clone returns an independent copy. A nil receiver yields an empty map.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Writable returns the trimmed non-blank fields a tag writer may emit. An
// unparseable track number is dropped.
func (m Metadata) Writable() Metadata {
	out := make(Metadata, len(Keys))
	for _, key := range []string{KeyArtist, KeyTitle, KeyAlbum} {
		if v := m.Value(key); v != "" {
			out[key] = v
		}
	}
	if n, ok := m.TrackNumber(); ok {
		out.SetTrackNumber(n)
	}
	return out
}

// Merge combines existing tags with freshly derived metadata. The result
// starts from fresh; every non-blank existing value then overrides it.
// Neither input is modified.
func Merge(existing, fresh Metadata) Metadata {
	out := fresh.Clone()
	for k, v := range existing {
		if strings.TrimSpace(v) == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// Apply replaces fields of base with those present in edits, including
// blank ones, and returns the result. It models a manual edit where the
// user's form is authoritative for the fields it carries.
func Apply(base, edits Metadata) Metadata {
	out := base.Clone()
	for k, v := range edits {
		out[k] = strings.TrimSpace(v)
	}
	return out
}
