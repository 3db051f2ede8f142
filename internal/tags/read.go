package tags

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dhowden/tag"

	"tubetag/internal/metadata"
)

// Read returns the tags stored in the file at path. A file without any tag
// block yields empty metadata and no error. Blank values are omitted.
func Read(path string) (metadata.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return metadata.Metadata{}, nil
		}
		return nil, fmt.Errorf("read tags %s: %w", path, err)
	}

	out := metadata.Metadata{}
	setIfPresent(out, metadata.KeyTitle, m.Title())
	setIfPresent(out, metadata.KeyArtist, m.Artist())
	setIfPresent(out, metadata.KeyAlbum, m.Album())
	if track, _ := m.Track(); track > 0 {
		out[metadata.KeyTrackNumber] = strconv.Itoa(track)
	}
	return out, nil
}

// HasCover reports whether the file carries an embedded picture.
func HasCover(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return false, nil
		}
		return false, fmt.Errorf("read tags %s: %w", path, err)
	}
	return m.Picture() != nil, nil
}

func setIfPresent(m metadata.Metadata, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		m[key] = value
	}
}
