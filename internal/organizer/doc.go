// Package organizer finalizes downloaded audio files: it infers tags from the
// source title, writes them, moves the file to a collision-free name in the
// music directory and records it in the library.
//
// Ingest handles freshly downloaded files, Retag applies manual edits to a
// file already in the collection, and Preview shows the filename an edit
// would produce. Errors are wrapped with services markers so the CLI can map
// them to exit codes; non-fatal problems such as a skipped cover or a likely
// duplicate are logged as warnings with an event type and a hint.
package organizer
