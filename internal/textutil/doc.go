// Package textutil provides text normalization and token fingerprints for
// media titles.
//
// The primary use cases are:
//   - Folding Serbian Latin diacritics to ASCII and stripping emoji and
//     control characters before text reaches a filename
//   - Creating token-based fingerprints from titles for duplicate detection
//   - Computing cosine similarity between fingerprints
//
// The diacritic table and emoji block list are data carried by a Normalizer,
// so callers can extend them without touching the stripping logic.
package textutil
