// Package metadata defines the artist/title/album/tracknumber mapping that
// flows between the title parser, the filename resolver and the tag writer.
//
// A Metadata value distinguishes an absent key from an empty value. Blank
// values (empty after trimming) are never allowed to clear a stored tag:
// Merge lets non-blank existing values win field by field, and writers only
// emit non-blank fields.
package metadata
