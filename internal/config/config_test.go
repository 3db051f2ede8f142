package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"tubetag/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "tubetag", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.MusicDir != filepath.Join(tempHome, "Music", "tubetag") {
		t.Fatalf("unexpected music dir: %q", cfg.Paths.MusicDir)
	}
	if cfg.Paths.LibraryDB != filepath.Join(tempHome, ".local", "share", "tubetag", "library.db") {
		t.Fatalf("unexpected library db: %q", cfg.Paths.LibraryDB)
	}
	if cfg.Download.AudioFormat != "mp3" || cfg.AudioExtension() != ".mp3" {
		t.Fatalf("unexpected audio format: %q", cfg.Download.AudioFormat)
	}
	if cfg.Filenames.MaxLength != 200 || !cfg.Filenames.ReserveWithLock {
		t.Fatalf("unexpected filename defaults: %+v", cfg.Filenames)
	}
	if cfg.Rules.ShortDescriptorLimit != 30 {
		t.Fatalf("unexpected short descriptor limit: %d", cfg.Rules.ShortDescriptorLimit)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" || cfg.Logging.RetentionDays != 30 {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadProjectFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	t.Chdir(project)

	body := "[download]\naudio_format = \"m4a\"\n"
	if err := os.WriteFile(filepath.Join(project, "tubetag.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "tubetag.toml" {
		t.Fatalf("expected project config, got %q exists=%v", resolved, exists)
	}
	if cfg.Download.AudioFormat != "m4a" {
		t.Fatalf("expected m4a, got %q", cfg.Download.AudioFormat)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
music_dir = "~/tunes"
library_db = "~/db/library.db"

[download]
audio_format = ".MP3"
default_album = "  Singles  "

[rules]
noise_terms = [" nightcore ", ""]
short_descriptor_limit = 12

[rules.extra_diacritics]
"ß" = "ss"

[filenames]
max_length = 64
reserve_with_lock = false

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.MusicDir != filepath.Join(tempHome, "tunes") {
		t.Fatalf("unexpected music dir: %q", cfg.Paths.MusicDir)
	}
	if cfg.Paths.LibraryDB != filepath.Join(tempHome, "db", "library.db") {
		t.Fatalf("unexpected library db: %q", cfg.Paths.LibraryDB)
	}
	if cfg.Download.AudioFormat != "mp3" {
		t.Fatalf("expected audio format normalized to mp3, got %q", cfg.Download.AudioFormat)
	}
	if cfg.Download.DefaultAlbum != "Singles" {
		t.Fatalf("expected trimmed default album, got %q", cfg.Download.DefaultAlbum)
	}
	if len(cfg.Rules.NoiseTerms) != 1 || cfg.Rules.NoiseTerms[0] != "nightcore" {
		t.Fatalf("unexpected noise terms: %v", cfg.Rules.NoiseTerms)
	}
	if cfg.Rules.ShortDescriptorLimit != 12 {
		t.Fatalf("unexpected short descriptor limit: %d", cfg.Rules.ShortDescriptorLimit)
	}
	if got := cfg.DiacriticTable(); got['ß'] != "ss" {
		t.Fatalf("unexpected diacritic table: %v", got)
	}
	if cfg.Filenames.MaxLength != 64 || cfg.Filenames.ReserveWithLock {
		t.Fatalf("unexpected filenames: %+v", cfg.Filenames)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(configPath, []byte("[paths\nmusic_dir = 1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.MusicDir, "tubetag") {
		t.Fatalf("expected music dir to contain tubetag, got %q", cfg.Paths.MusicDir)
	}

	loaded, _, exists, err := config.Load(path)
	if err != nil || !exists {
		t.Fatalf("sample should load cleanly: exists=%v err=%v", exists, err)
	}
	if loaded.Library.DuplicateThreshold != config.Default().Library.DuplicateThreshold {
		t.Fatalf("unexpected threshold: %v", loaded.Library.DuplicateThreshold)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.MusicDir = filepath.Join(base, "music")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LibraryDB = filepath.Join(base, "state", "library.db")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{"music", "logs", "state"} {
		if info, err := os.Stat(filepath.Join(base, dir)); err != nil || !info.IsDir() {
			t.Fatalf("expected %s directory: %v", dir, err)
		}
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty music dir", func(c *config.Config) { c.Paths.MusicDir = "" }},
		{"empty library db", func(c *config.Config) { c.Paths.LibraryDB = " " }},
		{"unsupported format", func(c *config.Config) { c.Download.AudioFormat = "flac" }},
		{"negative descriptor limit", func(c *config.Config) { c.Rules.ShortDescriptorLimit = -1 }},
		{"multi-rune diacritic key", func(c *config.Config) { c.Rules.ExtraDiacritics = map[string]string{"ab": "x"} }},
		{"tiny max length", func(c *config.Config) { c.Filenames.MaxLength = 4 }},
		{"huge max length", func(c *config.Config) { c.Filenames.MaxLength = 300 }},
		{"threshold above one", func(c *config.Config) { c.Library.DuplicateThreshold = 1.5 }},
		{"negative threshold", func(c *config.Config) { c.Library.DuplicateThreshold = -0.1 }},
		{"unknown level", func(c *config.Config) { c.Logging.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/music/../tunes")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "tunes") {
		t.Fatalf("unexpected expansion: %q", got)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Fatalf("expected empty path unchanged, got %q", got)
	}
}
