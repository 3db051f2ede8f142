package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var supportedAudioFormats = map[string]struct{}{"mp3": {}, "m4a": {}}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateRules(); err != nil {
		return err
	}
	if err := c.validateFilenames(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.MusicDir) == "" {
		return errors.New("paths.music_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LibraryDB) == "" {
		return errors.New("paths.library_db must be set")
	}
	return nil
}

func (c *Config) validateDownload() error {
	if _, ok := supportedAudioFormats[c.Download.AudioFormat]; !ok {
		return fmt.Errorf("download.audio_format %q is not supported (use mp3 or m4a)", c.Download.AudioFormat)
	}
	return nil
}

func (c *Config) validateRules() error {
	if c.Rules.ShortDescriptorLimit < 0 {
		return errors.New("rules.short_descriptor_limit must be >= 0")
	}
	for key := range c.Rules.ExtraDiacritics {
		if utf8.RuneCountInString(key) != 1 {
			return fmt.Errorf("rules.extra_diacritics key %q must be a single character", key)
		}
	}
	return nil
}

func (c *Config) validateFilenames() error {
	if c.Filenames.MaxLength < minNameLength || c.Filenames.MaxLength > defaultMaxNameLength {
		return fmt.Errorf("filenames.max_length must be between %d and %d", minNameLength, defaultMaxNameLength)
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if c.Library.DuplicateThreshold <= 0 || c.Library.DuplicateThreshold > 1 {
		return errors.New("library.duplicate_threshold must be in (0, 1]")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
}
