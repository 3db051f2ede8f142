package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"tubetag/internal/services"
	"tubetag/internal/textutil"
)

// DefaultSimilarityThreshold is used by FindSimilar when the caller passes a
// non-positive threshold.
const DefaultSimilarityThreshold = 0.85

// Track is one processed file in the library.
type Track struct {
	ID          int64     `json:"id"`
	Path        string    `json:"path"`
	Artist      string    `json:"artist,omitempty"`
	Title       string    `json:"title,omitempty"`
	Album       string    `json:"album,omitempty"`
	TrackNumber int       `json:"track_number,omitempty"`
	SourceTitle string    `json:"source_title,omitempty"`
	Fingerprint string    `json:"-"`
	RunID       string    `json:"run_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Match pairs a library track with its similarity score.
type Match struct {
	Track *Track  `json:"track"`
	Score float64 `json:"score"`
}

// ListOptions filters List results.
type ListOptions struct {
	// Query matches artist, title or album case-insensitively.
	Query string
	// Limit caps the number of rows. Zero means no limit.
	Limit int
}

// Record inserts the track or updates the row with the same path. The
// creation time of an existing row is kept, and a blank source title does
// not overwrite a stored one.
func (s *Store) Record(ctx context.Context, track Track) (*Track, error) {
	path := strings.TrimSpace(track.Path)
	if path == "" {
		return nil, services.Wrap(services.ErrValidation, "library", "record", "track path is required", nil)
	}
	fingerprint := track.Fingerprint
	if fingerprint == "" {
		fingerprint = FingerprintText(track.Artist, track.Title)
	}
	timestamp := s.now().UTC().Format(time.RFC3339Nano)

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO tracks (
            path, artist, title, album, track_number, source_title,
            fingerprint, run_id, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            artist = excluded.artist,
            title = excluded.title,
            album = excluded.album,
            track_number = excluded.track_number,
            source_title = COALESCE(excluded.source_title, tracks.source_title),
            fingerprint = excluded.fingerprint,
            run_id = COALESCE(excluded.run_id, tracks.run_id),
            updated_at = excluded.updated_at`,
		path,
		nullableString(track.Artist),
		nullableString(track.Title),
		nullableString(track.Album),
		nullableInt(track.TrackNumber),
		nullableString(track.SourceTitle),
		nullableString(fingerprint),
		nullableString(track.RunID),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("record track: %w", err)
	}
	return s.GetByPath(ctx, path)
}

// UpdatePath moves the row with id to newPath.
func (s *Store) UpdatePath(ctx context.Context, id int64, newPath string) error {
	newPath = strings.TrimSpace(newPath)
	if newPath == "" {
		return services.Wrap(services.ErrValidation, "library", "update path", "new path is required", nil)
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE tracks SET path = ?, updated_at = ? WHERE id = ?`,
		newPath,
		s.now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("update track path: %w", err)
	}
	return requireAffected(res, id)
}

// Get returns the track with id.
func (s *Store) Get(ctx context.Context, id int64) (*Track, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+trackColumns+` FROM tracks WHERE id = ?`, id)
	track, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrTrackNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get track %d: %w", id, err)
	}
	return track, nil
}

// GetByPath returns the track stored under path.
func (s *Store) GetByPath(ctx context.Context, path string) (*Track, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+trackColumns+` FROM tracks WHERE path = ?`, path)
	track, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTrackNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("get track by path: %w", err)
	}
	return track, nil
}

// List returns tracks ordered by artist then title.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]*Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks`
	var args []any
	if q := strings.TrimSpace(opts.Query); q != "" {
		like := "%" + escapeLike(q) + "%"
		query += ` WHERE artist LIKE ? ESCAPE '\' OR title LIKE ? ESCAPE '\' OR album LIKE ? ESCAPE '\'`
		args = append(args, like, like, like)
	}
	query += ` ORDER BY artist COLLATE NOCASE, title COLLATE NOCASE, id`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}
	return tracks, nil
}

// FindSimilar returns tracks whose artist and title fingerprint scores at
// least threshold against the given pair, best match first. The track stored
// at excludePath is skipped.
func (s *Store) FindSimilar(ctx context.Context, artist, title string, threshold float64, excludePath string) ([]Match, error) {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}
	probe := textutil.NewFingerprint(artist + " " + title)
	if probe == nil {
		return nil, nil
	}

	tracks, err := s.List(ctx, ListOptions{})
	if err != nil {
		return nil, err
	}
	var matches []Match
	for _, track := range tracks {
		if excludePath != "" && track.Path == excludePath {
			continue
		}
		score := textutil.CosineSimilarity(probe, textutil.NewFingerprint(track.Fingerprint))
		if score >= threshold {
			matches = append(matches, Match{Track: track, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}

// Remove deletes the track with id. The audio file is left untouched.
func (s *Store) Remove(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM tracks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove track: %w", err)
	}
	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrTrackNotFound, id)
	}
	return nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
