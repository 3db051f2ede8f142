package tags

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zhaarey/go-mp4tag"

	"tubetag/internal/metadata"
)

// deleteAllPictures asks go-mp4tag to drop every covr entry before writing.
const deleteAllPictures = "allpictures"

func writeM4A(path string, m metadata.Metadata, coverPath string) error {
	var cover *mp4tag.MP4Picture
	if coverPath != "" {
		picture, err := loadMP4Cover(coverPath)
		if err != nil {
			return err
		}
		cover = picture
	}

	fields := m.Writable()
	t := &mp4tag.MP4Tags{
		Title:  fields[metadata.KeyTitle],
		Artist: fields[metadata.KeyArtist],
		Album:  fields[metadata.KeyAlbum],
	}
	if raw, ok := fields[metadata.KeyTrackNumber]; ok {
		if n, err := strconv.ParseInt(raw, 10, 16); err == nil && n > 0 {
			t.TrackNumber = int16(n)
		}
	}

	var deletes []string
	if cover != nil {
		t.Pictures = []*mp4tag.MP4Picture{cover}
		deletes = append(deletes, deleteAllPictures)
	}

	mp4, err := mp4tag.Open(path)
	if err != nil {
		return fmt.Errorf("open m4a %s: %w", path, err)
	}
	defer mp4.Close()

	if err := mp4.Write(t, deletes); err != nil {
		return fmt.Errorf("save m4a tags %s: %w", path, err)
	}
	return nil
}

func loadMP4Cover(path string) (*mp4tag.MP4Picture, error) {
	var format mp4tag.ImageType
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		format = mp4tag.ImageTypeJPEG
	case ".png":
		format = mp4tag.ImageTypePNG
	default:
		return nil, fmt.Errorf("%w: cover %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cover %s: %w", path, err)
	}
	return &mp4tag.MP4Picture{Format: format, Data: data}, nil
}
