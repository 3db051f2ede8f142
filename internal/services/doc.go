// Package services defines shared error markers and context helpers used by
// the organizer, the library and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, track IDs and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper, so callers can tell a
//     bad input (validation, not found) from an environmental failure.
//
// Use these helpers when wiring new pipeline steps so error handling and
// observability stay uniform.
package services
