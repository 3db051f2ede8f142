package testsupport

import (
	"context"
	"testing"

	"tubetag/internal/config"
	"tubetag/internal/library"
)

// MustOpenLibrary opens a library.Store for tests and registers cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordTrack inserts a track for tests using the provided store.
func RecordTrack(t testing.TB, store *library.Store, path, artist, title string) *library.Track {
	t.Helper()

	track, err := store.Record(context.Background(), library.Track{Path: path, Artist: artist, Title: title})
	if err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return track
}
