package title

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	yearPattern       = regexp.MustCompile(`\(?\b(?:19|20)\d{2}\b\)?`)
	parenPattern      = regexp.MustCompile(`\(([^)]*)\)`)
	bracketPattern    = regexp.MustCompile(`\[([^\]]*)\]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	trailingSepRun    = regexp.MustCompile(`\s*[-_|]+\s*$`)
)

// CleanTitle strips noise from a title segment using the default rules.
func CleanTitle(s string) string {
	return defaultParser.CleanTitle(s)
}

// CleanTitle removes years, noisy bracketed spans and trailing noise terms
// from s. Collaboration credits and short descriptors survive.
func (p *Parser) CleanTitle(s string) string {
	s = yearPattern.ReplaceAllString(s, "")
	s = p.filterSpans(parenPattern, s)
	s = p.filterSpans(bracketPattern, s)
	s = p.stripTrailingNoise(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = trailingSepRun.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func (p *Parser) filterSpans(pattern *regexp.Regexp, s string) string {
	return pattern.ReplaceAllStringFunc(s, func(span string) string {
		content := span[1 : len(span)-1]
		if p.Verdict(content).Keep {
			return span
		}
		return ""
	})
}

// stripTrailingNoise drops trailing noise terms until none remain. Only
// whitespace is trimmed between passes; separators are left for the final
// cleanup, so "Song - Live | HD" keeps "Live". A term only matches as a
// whole word, so "Alive" does not lose its "live".
func (p *Parser) stripTrailingNoise(s string) string {
	for {
		trimmed := strings.TrimRightFunc(s, unicode.IsSpace)
		cut, ok := p.trailingNoiseCut(trimmed)
		if !ok {
			return trimmed
		}
		s = trimmed[:cut]
	}
}

func (p *Parser) trailingNoiseCut(s string) (int, bool) {
	for _, term := range p.rules.NoiseTerms {
		if len(s) < len(term) {
			continue
		}
		cut := len(s) - len(term)
		if !strings.EqualFold(s[cut:], term) {
			continue
		}
		if cut > 0 {
			prev, _ := utf8.DecodeLastRuneInString(s[:cut])
			if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
				continue
			}
		}
		return cut, true
	}
	return 0, false
}
