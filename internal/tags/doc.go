// Package tags reads and writes the artist/title/album/track tags of audio
// files.
//
// Reads go through github.com/dhowden/tag and cover MP3, M4A, FLAC and Ogg.
// Writes are MP3 only (ID3v2 via github.com/bogem/id3v2/v2); other formats
// return ErrUnsupportedFormat. A write replaces only the four frames tubetag
// manages and leaves every other frame, including embedded cover art, alone
// unless a new cover is supplied.
package tags
