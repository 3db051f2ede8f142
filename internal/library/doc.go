// Package library persists processed tracks in a SQLite index so the user can
// browse, re-tag and de-duplicate their collection.
//
// Rows are keyed by the final file path. Record upserts on that path, so
// re-ingesting or re-tagging a file updates the existing row while keeping
// its creation time. Each row carries a token fingerprint of artist and title
// used by FindSimilar to flag near-duplicates. Schema changes ship as
// embedded, ordered SQL migrations tracked in schema_migrations.
package library
