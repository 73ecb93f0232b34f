package engine

import (
	"regexp"
	"strconv"
)

// NumericContext is a "from N to M" pair extracted from a change
// description, used by capacity-floor adjustment rules.
type NumericContext struct {
	From float64
	To   float64
}

// Unit tokens between the number and "to" are tolerated and ignored
// ("from 4 TB to 1 TB", "from 80% to 20%").
var (
	fromToPattern = regexp.MustCompile(`(?i)\bfrom\s+(\d+(?:\.\d+)?)\s*[a-z%]*\s+to\s+(\d+(?:\.\d+)?)`)
	barePattern   = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*[a-z%]*\s+to\s+(\d+(?:\.\d+)?)`)
)

// extractNumericContext parses a before/after value pair out of free
// text. Extraction is best-effort: when nothing parses it reports
// ok=false and the caller simply skips the adjustment step.
func extractNumericContext(text string) (ctx NumericContext, ok bool) {
	m := fromToPattern.FindStringSubmatch(text)
	if m == nil {
		m = barePattern.FindStringSubmatch(text)
	}
	if m == nil {
		return NumericContext{}, false
	}
	from, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return NumericContext{}, false
	}
	to, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return NumericContext{}, false
	}
	return NumericContext{From: from, To: to}, true
}
