package content

import (
	"regexp"
	"strings"
)

// Signal carries one tier's keyword/pattern hits over a text. Derived
// fresh per classification call.
type Signal struct {
	Tier     Tier     `json:"tier"`
	Keywords []string `json:"matched_keywords"`
	Patterns []string `json:"pattern_hits"`
	RawScore int      `json:"raw_score"`
}

// Signals is the full extraction result across tiers.
type Signals struct {
	Educational Signal
	High        Signal
	Medium      Signal
}

// Tier score weights.
const (
	eduStrongWeight  = 2
	eduKeywordWeight = 1
	eduPatternWeight = 3

	highStrongWeight  = 5
	highMidWeight     = 3
	highKeywordWeight = 2
	highPatternWeight = 4
)

// ExtractSignals matches the keyword and pattern tables against the text.
// Matching is case-insensitive substring containment plus regex search; no
// partial-word protection is applied.
func (t *Tables) ExtractSignals(text string) Signals {
	lower := strings.ToLower(text)

	edu := Signal{Tier: TierEducational}
	for _, kw := range t.EducationalStrong {
		if strings.Contains(lower, kw) {
			edu.Keywords = append(edu.Keywords, kw)
			edu.RawScore += eduStrongWeight
		}
	}
	for _, kw := range t.Educational {
		if strings.Contains(lower, kw) {
			edu.Keywords = append(edu.Keywords, kw)
			edu.RawScore += eduKeywordWeight
		}
	}
	for _, re := range t.EducationalPatterns {
		if m := re.FindString(lower); m != "" {
			edu.Patterns = append(edu.Patterns, m)
			edu.RawScore += eduPatternWeight
		}
	}

	high := Signal{Tier: TierHigh}
	for _, kw := range t.HighStrong {
		if strings.Contains(lower, kw) {
			high.Keywords = append(high.Keywords, kw)
			high.RawScore += highStrongWeight
		}
	}
	for _, kw := range t.HighMid {
		if strings.Contains(lower, kw) {
			high.Keywords = append(high.Keywords, kw)
			high.RawScore += highMidWeight
		}
	}
	for _, kw := range t.High {
		if strings.Contains(lower, kw) {
			high.Keywords = append(high.Keywords, kw)
			high.RawScore += highKeywordWeight
		}
	}
	for _, re := range t.HighPatterns {
		if m := re.FindString(lower); m != "" {
			high.Patterns = append(high.Patterns, m)
			high.RawScore += highPatternWeight
		}
	}

	medium := Signal{Tier: TierMedium}
	for _, kw := range t.Medium {
		if strings.Contains(lower, kw) {
			medium.Keywords = append(medium.Keywords, kw)
		}
	}
	medium.RawScore = len(medium.Keywords)

	return Signals{Educational: edu, High: high, Medium: medium}
}

var (
	websiteRe   = regexp.MustCompile(`\b(?:[a-zA-Z0-9-]+\.)+(?:com|org|net|io|co|in|ai|gov|edu)\b`)
	titleTrimRe = regexp.MustCompile(`^[^a-zA-Z0-9]+|[^a-zA-Z0-9]+$`)
)

// ExtractWebsite pulls the first domain-looking token out of OCR text.
// Returns "unknown" when no domain is present.
func ExtractWebsite(text string) string {
	if m := websiteRe.FindString(strings.ToLower(text)); m != "" {
		return m
	}
	return "unknown"
}

// ExtractTabTitle returns the first meaningful line of OCR text with stray
// OCR junk symbols stripped from both ends.
func ExtractTabTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return titleTrimRe.ReplaceAllString(line, "")
	}
	return ""
}

// normalizeDomain strips a leading www. so extracted domains compare
// against the fixed distracting-domain list exactly.
func normalizeDomain(domain string) string {
	return strings.TrimPrefix(strings.ToLower(domain), "www.")
}

// IsDistractingDomain reports whether the domain exactly matches the
// known-distracting list.
func (t *Tables) IsDistractingDomain(domain string) bool {
	d := normalizeDomain(domain)
	for _, known := range t.DistractingDomains {
		if d == known {
			return true
		}
	}
	return false
}
