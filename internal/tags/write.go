package tags

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"

	"tubetag/internal/metadata"
)

// ErrUnsupportedFormat is returned when a file or cover image type cannot be
// written.
var ErrUnsupportedFormat = errors.New("unsupported format")

const (
	frameTitle   = "Title/Songname/Content description"
	frameArtist  = "Lead artist/Lead performer/Soloist/Performing group"
	frameAlbum   = "Album/Movie/Show title"
	frameTrack   = "Track number/Position in set"
	framePicture = "Attached picture"
)

// Writable reports whether Write supports the file's extension.
func Writable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".m4a":
		return true
	default:
		return false
	}
}

// CoverMIME returns the picture MIME type for a cover image path, judged by
// extension.
func CoverMIME(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", true
	case ".png":
		return "image/png", true
	default:
		return "", false
	}
}

// Write stores the non-blank fields of m in the file at path. Only the
// title, artist, album and track fields are touched, and only for fields
// that carry a value: blank fields and a track number that is not a positive
// integer leave the stored value as it was. When coverPath is non-empty it
// replaces any embedded picture, otherwise the existing picture is kept.
// MP3 files get ID3v2 frames and M4A files get iTunes atoms.
func Write(path string, m metadata.Metadata, coverPath string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return writeMP3(path, m, coverPath)
	case ".m4a":
		return writeM4A(path, m, coverPath)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func writeMP3(path string, m metadata.Metadata, coverPath string) error {
	var cover *id3v2.PictureFrame
	if coverPath != "" {
		frame, err := loadCover(coverPath)
		if err != nil {
			return err
		}
		cover = frame
	}

	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open mp3 %s: %w", path, err)
	}
	defer t.Close()

	fields := m.Writable()
	for _, f := range []struct {
		key   string
		frame string
	}{
		{metadata.KeyTitle, frameTitle},
		{metadata.KeyArtist, frameArtist},
		{metadata.KeyAlbum, frameAlbum},
		{metadata.KeyTrackNumber, frameTrack},
	} {
		value, ok := fields[f.key]
		if !ok {
			continue
		}
		id := t.CommonID(f.frame)
		t.DeleteFrames(id)
		t.AddTextFrame(id, t.DefaultEncoding(), value)
	}

	if cover != nil {
		t.DeleteFrames(t.CommonID(framePicture))
		cover.Encoding = t.DefaultEncoding()
		t.AddAttachedPicture(*cover)
	}

	if err := t.Save(); err != nil {
		return fmt.Errorf("save mp3 tags %s: %w", path, err)
	}
	return nil
}

func loadCover(path string) (*id3v2.PictureFrame, error) {
	mime, ok := CoverMIME(path)
	if !ok {
		return nil, fmt.Errorf("%w: cover %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cover %s: %w", path, err)
	}
	return &id3v2.PictureFrame{
		MimeType:    mime,
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     data,
	}, nil
}
