// Package main hosts the tubetag CLI entrypoint and command graph.
//
// The Cobra-based command tree exposes the title parser and filename
// resolver for quick experiments (parse, sanitize, resolve, preview), runs
// the organizer over downloaded files (ingest, retag), and browses the
// library index. Configuration and logger setup live in the command context
// so subcommands only describe their flags and output.
//
// Every command that prints results accepts --json for scripting.
package main
