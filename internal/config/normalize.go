package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDownload()
	c.normalizeRules()
	c.normalizeFilenames()
	c.normalizeLibrary()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.MusicDir) == "" {
		c.Paths.MusicDir = defaultMusicDir
	}
	if c.Paths.MusicDir, err = expandPath(strings.TrimSpace(c.Paths.MusicDir)); err != nil {
		return fmt.Errorf("paths.music_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LibraryDB) == "" {
		c.Paths.LibraryDB = defaultLibraryDB
	}
	if c.Paths.LibraryDB, err = expandPath(strings.TrimSpace(c.Paths.LibraryDB)); err != nil {
		return fmt.Errorf("paths.library_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeDownload() {
	format := strings.ToLower(strings.TrimSpace(c.Download.AudioFormat))
	format = strings.TrimPrefix(format, ".")
	if format == "" {
		format = defaultAudioFormat
	}
	c.Download.AudioFormat = format
	c.Download.DefaultAlbum = strings.TrimSpace(c.Download.DefaultAlbum)
}

func (c *Config) normalizeRules() {
	c.Rules.NoiseTerms = trimList(c.Rules.NoiseTerms)
	c.Rules.CollaborationMarkers = trimList(c.Rules.CollaborationMarkers)
	if c.Rules.ShortDescriptorLimit == 0 {
		c.Rules.ShortDescriptorLimit = defaultShortDescriptorLimit
	}
}

func (c *Config) normalizeFilenames() {
	if c.Filenames.MaxLength == 0 {
		c.Filenames.MaxLength = defaultMaxNameLength
	}
}

func (c *Config) normalizeLibrary() {
	if c.Library.DuplicateThreshold == 0 {
		c.Library.DuplicateThreshold = defaultDuplicateThreshold
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func trimList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
