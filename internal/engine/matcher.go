// Package engine implements the risk-classification core: pattern
// matching over free-text change descriptions, risk evaluation with
// numeric-context adjustment, escalation decisions, knowledge search,
// and packaging of escalations into advisory review artifacts.
//
// The engine is stateless per request. Every call reads one catalog
// snapshot from the store and computes a result from it; no shared
// mutable state, no I/O.
package engine

import (
	"sort"
	"strings"
	"unicode"

	"github.com/impactsim/impactsim/internal/catalog"
)

// PatternMatch pairs a change pattern with its keyword score.
type PatternMatch struct {
	Pattern *catalog.ChangePattern
	Score   int

	// matchedLen is the summed length of the phrases that matched,
	// used to prefer specific patterns over generic ones on score ties.
	matchedLen int
}

// normalize case-folds the text and treats punctuation as separators,
// so "Scale-down: Replicas!" and "scale down replicas" compare equal.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// matchPatterns scores every catalog pattern against the text and
// returns the matches ranked best-first. Texts that match nothing yield
// an empty slice; never an error.
//
// Score is the number of trigger phrases found as substrings of the
// normalized text; a multi-word phrase only counts as a whole. Ties
// break on longer total matched-phrase length, then on catalog order
// (the sort is stable and candidates are collected in catalog order).
func matchPatterns(c *catalog.Catalog, text string) []PatternMatch {
	ntext := normalize(text)
	if ntext == "" {
		return nil
	}

	var matches []PatternMatch
	for i := range c.Patterns {
		p := &c.Patterns[i]
		score, matchedLen := 0, 0
		for _, kw := range p.Keywords {
			phrase := normalize(kw)
			if phrase == "" {
				continue
			}
			if strings.Contains(ntext, phrase) {
				score++
				matchedLen += len(phrase)
			}
		}
		if score > 0 {
			matches = append(matches, PatternMatch{Pattern: p, Score: score, matchedLen: matchedLen})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].matchedLen > matches[j].matchedLen
	})
	return matches
}

// bestMatch returns the top-ranked pattern, or nil when nothing matched.
func bestMatch(c *catalog.Catalog, text string) *catalog.ChangePattern {
	matches := matchPatterns(c, text)
	if len(matches) == 0 {
		return nil
	}
	return matches[0].Pattern
}
