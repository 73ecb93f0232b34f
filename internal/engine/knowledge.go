package engine

import (
	"sort"
	"strings"

	"github.com/impactsim/impactsim/internal/catalog"
)

// KnowledgeMatch pairs a knowledge entry with its query score.
type KnowledgeMatch struct {
	Entry catalog.KnowledgeEntry `json:"entry"`
	Score int                    `json:"score"`

	matchedLen int
}

// searchKnowledge ranks knowledge entries against a query by keyword
// overlap, with the same tie-breaking as the pattern matcher. The
// knowledge base is independent of change patterns. An empty result is
// a valid answer, not an error.
func searchKnowledge(c *catalog.Catalog, query string) []KnowledgeMatch {
	nquery := normalize(query)
	if nquery == "" {
		return nil
	}

	var matches []KnowledgeMatch
	for _, e := range c.Knowledge {
		score, matchedLen := 0, 0
		for _, kw := range e.Keywords {
			phrase := normalize(kw)
			if phrase == "" {
				continue
			}
			if strings.Contains(nquery, phrase) {
				score++
				matchedLen += len(phrase)
			}
		}
		// A query naming the topic itself counts even when no declared
		// keyword appears ("backup policy" finds the "Backup policy" entry
		// regardless of keyword spelling).
		if topic := normalize(e.Topic); topic != "" && strings.Contains(nquery, topic) {
			score++
			matchedLen += len(topic)
		}
		if score > 0 {
			matches = append(matches, KnowledgeMatch{Entry: e, Score: score, matchedLen: matchedLen})
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
