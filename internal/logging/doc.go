// Package logging assembles structured slog loggers and formatting helpers used
// across tubetag.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with run IDs, track IDs and stages. Log files rotate per day in the
// configured log directory and are pruned after the retention window. A
// no-op logger is provided for tests and wiring code that cannot fail.
package logging
