// Package title infers artist/title/album metadata from unstructured video
// titles.
//
// Parsing splits "Artist - Title" (or "Channel: Title") on the first
// separator and falls back to the uploader as artist. The title segment is
// then cleaned in a fixed order:
//
//  1. year tokens (1900-2099, optionally parenthesized) are removed
//  2. each (...) then [...] span is kept or dropped by Verdict
//  3. trailing noise terms are stripped until none remain
//  4. whitespace is collapsed and trailing separators are trimmed
//
// Step 2 runs before step 3 because dropping a span can expose a new
// trailing noise term. The rule tables live in rules.go and can be replaced
// through Rules, usually from configuration.
package title
