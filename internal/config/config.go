package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and database locations.
type Paths struct {
	MusicDir  string `toml:"music_dir"`
	LogDir    string `toml:"log_dir"`
	LibraryDB string `toml:"library_db"`
}

// Download describes what the external downloader produces.
type Download struct {
	// AudioFormat is the extension picked up when ingesting a directory.
	AudioFormat string `toml:"audio_format"`
	// DefaultAlbum is used when neither the source nor the file names one.
	DefaultAlbum string `toml:"default_album"`
}

// Rules tunes title cleaning and text normalization.
type Rules struct {
	NoiseTerms           []string          `toml:"noise_terms"`
	CollaborationMarkers []string          `toml:"collaboration_markers"`
	ShortDescriptorLimit int               `toml:"short_descriptor_limit"`
	ExtraDiacritics      map[string]string `toml:"extra_diacritics"`
}

// Filenames controls name sanitization and collision handling.
type Filenames struct {
	MaxLength       int  `toml:"max_length"`
	ReserveWithLock bool `toml:"reserve_with_lock"`
}

// Library controls the processed-track index.
type Library struct {
	// DuplicateThreshold is the fingerprint similarity at which an ingest
	// warns about a likely duplicate.
	DuplicateThreshold float64 `toml:"duplicate_threshold"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// RetentionDays prunes daily log files older than this. Zero keeps all.
	RetentionDays int `toml:"retention_days"`
}

// Config encapsulates all configuration values for tubetag.
//
// Configuration sections by subsystem:
//   - Paths: music directory, log directory and library database
//   - Download: expected audio format and album fallback
//   - Rules: noise terms, collaboration markers and diacritic folding
//   - Filenames: length limit and lock-based reservation
//   - Library: duplicate detection threshold
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Download  Download  `toml:"download"`
	Rules     Rules     `toml:"rules"`
	Filenames Filenames `toml:"filenames"`
	Library   Library   `toml:"library"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tubetag/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("tubetag.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the music, log and database directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.MusicDir, c.Paths.LogDir, filepath.Dir(c.Paths.LibraryDB)} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DiacriticTable converts rules.extra_diacritics into a rune table. Keys
// that are not exactly one character are skipped; Validate rejects them.
func (c *Config) DiacriticTable() map[rune]string {
	if len(c.Rules.ExtraDiacritics) == 0 {
		return nil
	}
	out := make(map[rune]string, len(c.Rules.ExtraDiacritics))
	for key, value := range c.Rules.ExtraDiacritics {
		if utf8.RuneCountInString(key) != 1 {
			continue
		}
		r, _ := utf8.DecodeRuneInString(key)
		out[r] = value
	}
	return out
}

// AudioExtension returns the download format as a file extension.
func (c *Config) AudioExtension() string {
	return "." + c.Download.AudioFormat
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
