package textutil

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Block is an inclusive code point range.
type Block struct {
	Lo rune
	Hi rune
}

// Contains reports whether r falls inside the block.
func (b Block) Contains(r rune) bool {
	return r >= b.Lo && r <= b.Hi
}

// DefaultDiacritics returns a fresh copy of the Serbian Latin folding table.
// Uppercase letters map to uppercase-led ASCII (Đ becomes Dj).
func DefaultDiacritics() map[rune]string {
	return map[rune]string{
		'č': "c", 'ć': "c", 'š': "s", 'ž': "z", 'đ': "dj",
		'Č': "C", 'Ć': "C", 'Š': "S", 'Ž': "Z", 'Đ': "Dj",
	}
}

// DefaultEmojiBlocks returns the emoji and pictograph ranges removed by
// Normalize.
func DefaultEmojiBlocks() []Block {
	return []Block{
		{0x1F600, 0x1F64F}, // emoticons
		{0x1F300, 0x1F5FF}, // symbols & pictographs
		{0x1F680, 0x1F6FF}, // transport & map
		{0x1F1E0, 0x1F1FF}, // regional indicators (flags)
		{0x2702, 0x27B0},   // dingbats
		{0x24C2, 0x24C2},   // circled M
		{0x1F170, 0x1F251}, // enclosed alphanumeric and ideographic supplements
		{0x1F900, 0x1F9FF}, // supplemental symbols & pictographs
		{0x1FA00, 0x1FA6F}, // chess symbols
		{0xFE0E, 0xFE0F},   // emoji presentation selectors
	}
}

// Normalizer folds diacritics and strips emoji and control characters. It
// holds no mutable state after construction and is safe for concurrent use.
type Normalizer struct {
	diacritics map[rune]string
	blocks     []Block
}

// NewNormalizer builds a Normalizer from a diacritic table and emoji block
// list. Both arguments are copied.
func NewNormalizer(diacritics map[rune]string, blocks []Block) *Normalizer {
	n := &Normalizer{
		diacritics: make(map[rune]string, len(diacritics)),
		blocks:     append([]Block(nil), blocks...),
	}
	for k, v := range diacritics {
		n.diacritics[k] = v
	}
	sort.Slice(n.blocks, func(i, j int) bool { return n.blocks[i].Lo < n.blocks[j].Lo })
	return n
}

// WithDiacritics returns a copy of n whose table is extended (or overridden)
// by extra.
func (n *Normalizer) WithDiacritics(extra map[rune]string) *Normalizer {
	if len(extra) == 0 {
		return n
	}
	merged := make(map[rune]string, len(n.diacritics)+len(extra))
	for k, v := range n.diacritics {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return NewNormalizer(merged, n.blocks)
}

// DefaultNormalizer uses the Serbian diacritic table and default emoji blocks.
var DefaultNormalizer = NewNormalizer(DefaultDiacritics(), DefaultEmojiBlocks())

// Normalize applies DefaultNormalizer to text.
func Normalize(text string) string {
	return DefaultNormalizer.Normalize(text)
}

// Normalize removes emoji and every Unicode "other" character except tab,
// carriage return and newline, then folds diacritics. A base letter followed
// by combining marks is folded when its NFC composition is in the table
// ("c" + U+030C folds like "č"); other combining sequences are left as they
// are. The result may be empty.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	stripped, _, err := transform.String(runes.Remove(runes.Predicate(n.drop)), text)
	if err != nil {
		stripped = strings.Map(func(r rune) rune {
			if n.drop(r) {
				return -1
			}
			return r
		}, text)
	}
	// Folding can leave a base letter next to a combining mark that composes
	// on the next pass, so iterate to a fixed point.
	for {
		folded := n.fold(stripped)
		if folded == stripped {
			return folded
		}
		stripped = folded
	}
}

func (n *Normalizer) fold(text string) string {
	if len(n.diacritics) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for len(text) > 0 {
		seg := nextSegment(text)
		text = text[len(seg):]
		if len(seg) > utf8.RuneLen(firstRune(seg)) {
			composed := norm.NFC.String(seg)
			if r, size := utf8.DecodeRuneInString(composed); size == len(composed) {
				if repl, ok := n.diacritics[r]; ok {
					b.WriteString(repl)
					continue
				}
			}
		}
		for _, r := range seg {
			if repl, ok := n.diacritics[r]; ok {
				b.WriteString(repl)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// nextSegment returns the leading rune of text plus any combining marks that
// follow it.
func nextSegment(text string) string {
	_, size := utf8.DecodeRuneInString(text)
	end := size
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !unicode.Is(unicode.M, r) {
			break
		}
		end += size
	}
	return text[:end]
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func (n *Normalizer) drop(r rune) bool {
	return n.isEmoji(r) || isOther(r)
}

func (n *Normalizer) isEmoji(r rune) bool {
	// blocks are sorted by Lo; overlapping entries are allowed.
	for _, b := range n.blocks {
		if r < b.Lo {
			return false
		}
		if r <= b.Hi {
			return true
		}
	}
	return false
}

// isOther matches the Unicode C categories, unassigned code points included.
func isOther(r rune) bool {
	switch r {
	case '\t', '\r', '\n':
		return false
	}
	return !unicode.In(r, unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z)
}
