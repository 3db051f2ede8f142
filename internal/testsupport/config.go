package testsupport

import (
	"path/filepath"
	"testing"

	"tubetag/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.MusicDir = filepath.Join(base, "music")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LibraryDB = filepath.Join(base, "data", "library.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithDefaultAlbum sets the album used when the source names none.
func WithDefaultAlbum(album string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Download.DefaultAlbum = album
	}
}

// WithoutReserveLock makes the organizer resolve names with plain probes.
func WithoutReserveLock() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Filenames.ReserveWithLock = false
	}
}

// WithNoiseTerms overrides the noise term table.
func WithNoiseTerms(terms ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Rules.NoiseTerms = terms
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.MusicDir)
}
