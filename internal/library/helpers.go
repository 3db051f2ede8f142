package library

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"tubetag/internal/textutil"
)

const trackColumns = "id, path, artist, title, album, track_number, source_title, fingerprint, run_id, created_at, updated_at"

func scanTrack(scanner interface{ Scan(dest ...any) error }) (*Track, error) {
	var (
		id          int64
		path        string
		artist      sql.NullString
		title       sql.NullString
		album       sql.NullString
		trackNumber sql.NullInt64
		sourceTitle sql.NullString
		fingerprint sql.NullString
		runID       sql.NullString
		createdRaw  sql.NullString
		updatedRaw  sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&path,
		&artist,
		&title,
		&album,
		&trackNumber,
		&sourceTitle,
		&fingerprint,
		&runID,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	track := &Track{
		ID:          id,
		Path:        path,
		Artist:      artist.String,
		Title:       title.String,
		Album:       album.String,
		TrackNumber: int(trackNumber.Int64),
		SourceTitle: sourceTitle.String,
		Fingerprint: fingerprint.String,
		RunID:       runID.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		track.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		track.UpdatedAt = updated
	}
	return track, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value <= 0 {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

// FingerprintText returns the stored token form of an artist and title pair.
func FingerprintText(artist, title string) string {
	return strings.Join(textutil.Tokenize(artist+" "+title), " ")
}
