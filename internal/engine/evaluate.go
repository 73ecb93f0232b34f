package engine

import (
	"fmt"
	"strconv"

	"github.com/impactsim/impactsim/internal/catalog"
)

// Evaluation is the risk evaluator's output before assembly: the
// resolved level and the impact/safeguard bundle.
type Evaluation struct {
	Level          catalog.RiskLevel
	Impacts        []string
	SafeConditions []string
	Safeguards     []string

	// Adjustment explains why the level moved off the pattern's base;
	// empty when no adjustment applied.
	Adjustment string
}

// Placeholders returned for unrecognized changes. Deliberately not
// empty: "we don't know" is itself the finding.
var (
	unknownImpacts = []string{
		"The change did not match any known pattern; its blast radius is unknown.",
	}
	unknownSafeConditions = []string{
		"Insufficient information to enumerate safe conditions.",
	}
	unknownSafeguards = []string{
		"Describe the change in more detail, or request a manual review.",
	}
)

// evaluate maps a matched pattern (or nil) plus optional numeric
// context to a risk level and impact bundle.
//
// A matched pattern starts at its declared base level. The category's
// adjustment rule may raise it one step: under capacity_floor, reducing
// a capacity-like quantity below the floor raises risk; an increase
// never lowers the level below the base. No pattern means the catalog's
// conservative unknown-change level with placeholder guidance.
func evaluate(c *catalog.Catalog, p *catalog.ChangePattern, num NumericContext, hasNum bool) Evaluation {
	if p == nil {
		return Evaluation{
			Level:          c.UnknownLevel,
			Impacts:        unknownImpacts,
			SafeConditions: unknownSafeConditions,
			Safeguards:     unknownSafeguards,
		}
	}

	ev := Evaluation{
		Level:          p.RiskLevel,
		Impacts:        p.Impacts,
		SafeConditions: p.SafeConditions,
		Safeguards:     p.Safeguards,
	}

	rule := c.AdjustmentFor(p.Category)
	if rule.Kind == catalog.AdjustCapacityFloor && hasNum {
		if num.To < num.From && num.To < float64(rule.Floor) {
			raised := ev.Level.Raise()
			if raised != ev.Level {
				ev.Adjustment = fmt.Sprintf(
					"capacity reduced from %s to %s, below the floor of %d; risk raised from %s to %s",
					formatQuantity(num.From), formatQuantity(num.To), rule.Floor, ev.Level, raised,
				)
				ev.Level = raised
			}
		}
	}
	return ev
}

func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
