// Package config loads, normalizes, and validates tubetag configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from ~/.config/tubetag/config.toml or a
// project-local tubetag.toml. The Config type centralizes the music
// directory, library database location, title cleaning rules and filename
// limits so the CLI and the organizer see the same values.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
