package organizer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"tubetag/internal/config"
	"tubetag/internal/library"
	"tubetag/internal/logging"
	"tubetag/internal/metadata"
	"tubetag/internal/organizer"
	"tubetag/internal/services"
	"tubetag/internal/tags"
	"tubetag/internal/testsupport"
	"tubetag/internal/title"
)

func newOrganizer(t *testing.T, opts ...testsupport.ConfigOption) (*organizer.Organizer, *config.Config, *library.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenLibrary(t, cfg)
	return organizer.New(cfg, store, logging.NewNop()), cfg, store
}

func downloadPath(cfg *config.Config, name string) string {
	return filepath.Join(testsupport.BaseDir(cfg), "downloads", name)
}

func TestIngestTagsMovesAndRecords(t *testing.T) {
	org, cfg, store := newOrganizer(t, testsupport.WithDefaultAlbum("Singles"))
	src := downloadPath(cfg, "dQw4w9WgXcQ.mp3")
	thumb := downloadPath(cfg, "dQw4w9WgXcQ.jpg")
	testsupport.WriteAudio(t, src)
	testsupport.WriteFile(t, thumb, []byte("jpeg-bytes"))

	result, err := org.Ingest(context.Background(), organizer.Request{
		Path:   src,
		Source: title.SourceInfo{Title: "Artist - Song (Official Video) 2019", Uploader: "Some Channel"},
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	want := filepath.Join(cfg.Paths.MusicDir, "Artist - Song.mp3")
	if result.Path != want {
		t.Fatalf("unexpected path %q, want %q", result.Path, want)
	}
	if _, err := uuid.Parse(result.RunID); err != nil {
		t.Fatalf("run id %q is not a uuid: %v", result.RunID, err)
	}
	testsupport.MustNotExist(t, src)
	testsupport.MustNotExist(t, thumb)
	if !result.Tagged || !result.CoverEmbedded {
		t.Fatalf("expected tags and cover written: %+v", result)
	}

	stored, err := tags.Read(want)
	if err != nil {
		t.Fatalf("tags.Read: %v", err)
	}
	if stored.Artist() != "Artist" || stored.Title() != "Song" || stored.Album() != "Singles" {
		t.Fatalf("unexpected stored tags: %v", stored)
	}
	if hasCover, err := tags.HasCover(want); err != nil || !hasCover {
		t.Fatalf("expected embedded cover, got %v err=%v", hasCover, err)
	}

	track, err := store.GetByPath(context.Background(), want)
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if track.SourceTitle != "Artist - Song (Official Video) 2019" || track.RunID != result.RunID {
		t.Fatalf("unexpected library row: %+v", track)
	}
}

func TestIngestPreservesExistingTags(t *testing.T) {
	org, cfg, _ := newOrganizer(t)
	src := downloadPath(cfg, "clip.mp3")
	testsupport.WriteAudio(t, src)
	if err := tags.Write(src, metadata.Metadata{metadata.KeyTitle: "Kept Title"}, ""); err != nil {
		t.Fatalf("seed tags: %v", err)
	}

	result, err := org.Ingest(context.Background(), organizer.Request{
		Path:   src,
		Source: title.SourceInfo{Title: "Someone - Other Title", PlaylistTitle: "Mix"},
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if got := filepath.Base(result.Path); got != "Someone - Kept Title.mp3" {
		t.Fatalf("unexpected name %q", got)
	}
	if result.Metadata.Album() != "Mix" {
		t.Fatalf("expected playlist title as album, got %q", result.Metadata.Album())
	}
}

func TestIngestNumbersCollisions(t *testing.T) {
	tests := []struct {
		name string
		opts []testsupport.ConfigOption
	}{
		{"reserve with lock", nil},
		{"plain probe", []testsupport.ConfigOption{testsupport.WithoutReserveLock()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org, cfg, _ := newOrganizer(t, tt.opts...)
			testsupport.WriteFile(t, filepath.Join(cfg.Paths.MusicDir, "Band - Tune.mp3"), []byte("existing"))

			src := downloadPath(cfg, "x.mp3")
			testsupport.WriteAudio(t, src)
			result, err := org.Ingest(context.Background(), organizer.Request{
				Path:   src,
				Source: title.SourceInfo{Title: "Band - Tune [HD]"},
			})
			if err != nil {
				t.Fatalf("Ingest: %v", err)
			}
			if got := filepath.Base(result.Path); got != "Band - Tune (1).mp3" {
				t.Fatalf("unexpected name %q", got)
			}
			data, _ := os.ReadFile(filepath.Join(cfg.Paths.MusicDir, "Band - Tune.mp3"))
			if string(data) != "existing" {
				t.Fatal("existing file was overwritten")
			}
		})
	}
}

func TestIngestUsesSidecarInfo(t *testing.T) {
	org, cfg, _ := newOrganizer(t)
	src := downloadPath(cfg, "abc.mp3")
	testsupport.WriteAudio(t, src)
	testsupport.WriteFile(t, downloadPath(cfg, "abc.info.json"),
		[]byte(`{"title":"Chan: Great Track (Lyrics)","uploader":"","channel":"Chan","album":"LP"}`))

	result, err := org.Ingest(context.Background(), organizer.Request{Path: src})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if got := filepath.Base(result.Path); got != "Chan - Great Track.mp3" {
		t.Fatalf("unexpected name %q", got)
	}
	if result.Metadata.Album() != "LP" {
		t.Fatalf("unexpected album %q", result.Metadata.Album())
	}
	testsupport.MustNotExist(t, downloadPath(cfg, "abc.info.json"))
	if result.Sidecar != downloadPath(cfg, "abc.info.json") {
		t.Fatalf("unexpected removed sidecar %q", result.Sidecar)
	}
}

func TestIngestFallsBackToFileName(t *testing.T) {
	org, cfg, _ := newOrganizer(t)
	src := downloadPath(cfg, "Lonely Song.mp3")
	testsupport.WriteAudio(t, src)

	result, err := org.Ingest(context.Background(), organizer.Request{Path: src, Source: title.SourceInfo{Uploader: "Uploader"}})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if got := filepath.Base(result.Path); got != "Uploader - Lonely Song.mp3" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestIngestWarnsOnDuplicates(t *testing.T) {
	org, cfg, _ := newOrganizer(t)
	first := downloadPath(cfg, "one.mp3")
	second := downloadPath(cfg, "two.mp3")
	testsupport.WriteAudio(t, first)
	testsupport.WriteAudio(t, second)

	ctx := context.Background()
	if _, err := org.Ingest(ctx, organizer.Request{Path: first, Source: title.SourceInfo{Title: "Artist - Song"}}); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	result, err := org.Ingest(ctx, organizer.Request{Path: second, Source: title.SourceInfo{Title: "Artist - Song (Lyrics)"}})
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if len(result.Duplicates) != 1 {
		t.Fatalf("expected one duplicate, got %d", len(result.Duplicates))
	}
	if got := filepath.Base(result.Duplicates[0].Track.Path); got != "Artist - Song.mp3" {
		t.Fatalf("unexpected duplicate %q", got)
	}
	if got := filepath.Base(result.Path); got != "Artist - Song (1).mp3" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestIngestKeepCopies(t *testing.T) {
	org, cfg, _ := newOrganizer(t)
	src := downloadPath(cfg, "keep.mp3")
	thumb := downloadPath(cfg, "keep.png")
	testsupport.WriteAudio(t, src)
	testsupport.WriteFile(t, thumb, []byte("png"))

	result, err := org.Ingest(context.Background(), organizer.Request{Path: src, Keep: true, Source: title.SourceInfo{Title: "K - V"}})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	testsupport.MustExist(t, src)
	testsupport.MustExist(t, thumb)
	testsupport.MustExist(t, result.Path)
}

func TestIngestUnsupportedFormatStillOrganizes(t *testing.T) {
	org, cfg, _ := newOrganizer(t)
	src := downloadPath(cfg, "clip.opus")
	testsupport.WriteFile(t, src, []byte("not really an opus stream"))

	result, err := org.Ingest(context.Background(), organizer.Request{Path: src, Source: title.SourceInfo{Title: "Singer - Ballad"}})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.Tagged {
		t.Fatal("opus should not be tagged")
	}
	if got := filepath.Base(result.Path); got != "Singer - Ballad.opus" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestIngestTagsM4A(t *testing.T) {
	org, cfg, _ := newOrganizer(t)
	src := downloadPath(cfg, "clip.m4a")
	testsupport.WriteM4A(t, src)

	result, err := org.Ingest(context.Background(), organizer.Request{Path: src, Source: title.SourceInfo{Title: "Singer - Ballad (Official Audio)"}})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !result.Tagged {
		t.Fatal("m4a should be tagged")
	}
	stored, err := tags.Read(result.Path)
	if err != nil {
		t.Fatalf("read tags: %v", err)
	}
	if stored.Artist() != "Singer" || stored.Title() != "Ballad" {
		t.Fatalf("unexpected stored tags %v", stored)
	}
}

func TestIngestErrors(t *testing.T) {
	org, cfg, _ := newOrganizer(t)
	ctx := context.Background()

	if _, err := org.Ingest(ctx, organizer.Request{Path: downloadPath(cfg, "missing.mp3")}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := org.Ingest(ctx, organizer.Request{Path: "  "}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := org.Ingest(ctx, organizer.Request{Path: cfg.Paths.MusicDir}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for directory, got %v", err)
	}

	src := downloadPath(cfg, "bad.mp3")
	testsupport.WriteAudio(t, src)
	testsupport.WriteFile(t, downloadPath(cfg, "bad.info.json"), []byte("{not json"))
	if _, err := org.Ingest(ctx, organizer.Request{Path: src}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for broken sidecar, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := org.Ingest(cancelled, organizer.Request{Path: src}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestRetagRenamesAndUpdatesLibrary(t *testing.T) {
	org, cfg, store := newOrganizer(t)
	src := downloadPath(cfg, "r.mp3")
	testsupport.WriteAudio(t, src)
	ingested, err := org.Ingest(context.Background(), organizer.Request{Path: src, Source: title.SourceInfo{Title: "Artist - Song"}})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	result, err := org.Retag(context.Background(), organizer.RetagRequest{
		Path:   ingested.Path,
		Edits:  metadata.Metadata{metadata.KeyTitle: "Better Song", metadata.KeyTrackNumber: "4", metadata.KeyAlbum: "  "},
		Rename: true,
	})
	if err != nil {
		t.Fatalf("Retag: %v", err)
	}
	want := filepath.Join(cfg.Paths.MusicDir, "Artist - Better Song.mp3")
	if result.Path != want {
		t.Fatalf("unexpected path %q", result.Path)
	}
	testsupport.MustNotExist(t, ingested.Path)

	stored, err := tags.Read(want)
	if err != nil {
		t.Fatalf("tags.Read: %v", err)
	}
	if stored.Title() != "Better Song" || stored.Artist() != "Artist" {
		t.Fatalf("unexpected tags %v", stored)
	}
	if n, ok := stored.TrackNumber(); !ok || n != 4 {
		t.Fatalf("unexpected track number %v %v", n, ok)
	}

	track, err := store.GetByPath(context.Background(), want)
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if track.ID != ingested.Track.ID || track.Title != "Better Song" || track.TrackNumber != 4 {
		t.Fatalf("expected row updated in place, got %+v", track)
	}
	if track.SourceTitle != "Artist - Song" {
		t.Fatalf("source title should survive retag, got %q", track.SourceTitle)
	}
}

func TestRetagWithoutRenameKeepsPath(t *testing.T) {
	org, cfg, store := newOrganizer(t)
	path := filepath.Join(cfg.Paths.MusicDir, "manual.mp3")
	testsupport.WriteAudio(t, path)

	result, err := org.Retag(context.Background(), organizer.RetagRequest{
		Path:  path,
		Edits: metadata.Metadata{metadata.KeyArtist: "Who"},
	})
	if err != nil {
		t.Fatalf("Retag: %v", err)
	}
	if result.Path != path {
		t.Fatalf("path changed to %q", result.Path)
	}
	if _, err := store.GetByPath(context.Background(), path); err != nil {
		t.Fatalf("expected untracked file to be added: %v", err)
	}
}

func TestRetagUnsupportedFormat(t *testing.T) {
	org, cfg, _ := newOrganizer(t)
	path := filepath.Join(cfg.Paths.MusicDir, "clip.opus")
	testsupport.WriteFile(t, path, []byte("data"))

	_, err := org.Retag(context.Background(), organizer.RetagRequest{Path: path, Edits: metadata.Metadata{metadata.KeyTitle: "x"}})
	if !errors.Is(err, services.ErrValidation) || !errors.Is(err, tags.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format validation error, got %v", err)
	}
}

func TestPreview(t *testing.T) {
	org, cfg, _ := newOrganizer(t)
	path := filepath.Join(cfg.Paths.MusicDir, "Old Name.mp3")
	testsupport.WriteAudio(t, path)
	if err := tags.Write(path, metadata.Metadata{metadata.KeyArtist: "Stored"}, ""); err != nil {
		t.Fatalf("seed tags: %v", err)
	}

	tests := []struct {
		name  string
		edits metadata.Metadata
		want  string
	}{
		{"stored artist fills in", metadata.Metadata{metadata.KeyTitle: "New: Title?"}, "Stored - New Title.mp3"},
		{"both blank keeps stem", metadata.Metadata{metadata.KeyArtist: "", metadata.KeyTitle: " "}, "Old Name.mp3"},
		{"diacritics folded", metadata.Metadata{metadata.KeyArtist: "Đorđe", metadata.KeyTitle: "Čaša"}, "Djordje - Casa.mp3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := org.Preview(path, tt.edits)
			if err != nil {
				t.Fatalf("Preview: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Preview = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := org.Preview(filepath.Join(cfg.Paths.MusicDir, "nope.mp3"), nil); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mp3", "a.MP3", "c.m4a", "a.info.json", "a.jpg"} {
		testsupport.WriteFile(t, filepath.Join(dir, name), []byte("x"))
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.mp3"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := organizer.ScanDir(dir, ".mp3")
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	want := []string{filepath.Join(dir, "a.MP3"), filepath.Join(dir, "b.mp3")}
	if len(files) != len(want) || files[0] != want[0] || files[1] != want[1] {
		t.Fatalf("ScanDir = %v, want %v", files, want)
	}

	if _, err := organizer.ScanDir(filepath.Join(dir, "missing"), ".mp3"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestValidateFinalName(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"/music/Artist - Song.mp3", false},
		{"/music/CON.mp3", true},
		{"", true},
		{"/music/a?b.mp3", true},
	}
	for _, tt := range tests {
		err := organizer.ValidateFinalName(tt.path, logging.NewNop())
		if (err != nil) != tt.wantErr {
			t.Fatalf("ValidateFinalName(%q) err=%v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, services.ErrValidation) {
			t.Fatalf("expected validation marker, got %v", err)
		}
	}
}
