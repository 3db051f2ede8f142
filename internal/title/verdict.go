package title

import (
	"strings"
	"unicode/utf8"
)

// Reason names the rule that decided a bracketed span.
type Reason string

const (
	ReasonNoise         Reason = "noise_term"
	ReasonCollaboration Reason = "collaboration"
	ReasonShort         Reason = "short_descriptor"
	ReasonLong          Reason = "long_descriptor"
)

// Decision is the keep/drop verdict for one bracketed span.
type Decision struct {
	Keep   bool
	Reason Reason
	// Term is the noise term or collaboration marker that matched, if any.
	Term string
}

// Verdict classifies bracket content using the default rules.
func Verdict(content string) Decision {
	return defaultParser.Verdict(content)
}

// Verdict classifies the content of a (...) or [...] span, without its
// brackets. Precedence: noise term (drop), collaboration marker (keep),
// shorter than the descriptor limit (keep), otherwise drop.
func (p *Parser) Verdict(content string) Decision {
	content = strings.TrimSpace(content)
	lower := strings.ToLower(content)

	for _, term := range p.rules.NoiseTerms {
		if strings.Contains(lower, term) {
			return Decision{Keep: false, Reason: ReasonNoise, Term: term}
		}
	}
	for _, marker := range p.rules.CollaborationMarkers {
		if strings.Contains(lower, marker) {
			return Decision{Keep: true, Reason: ReasonCollaboration, Term: marker}
		}
	}
	if utf8.RuneCountInString(content) < p.rules.ShortDescriptorLimit {
		return Decision{Keep: true, Reason: ReasonShort}
	}
	return Decision{Keep: false, Reason: ReasonLong}
}
