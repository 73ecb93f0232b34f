package engine

import "github.com/impactsim/impactsim/internal/catalog"

// decide applies the escalation rule: escalate when the evaluated level
// sits at or above the threshold under the fixed total order. When it
// fires, the advisory action is the pattern's declared override if any,
// otherwise the risk level's default. The returned action is always
// non-executable; this decider never produces anything that implies
// execution.
func decide(c *catalog.Catalog, level, threshold catalog.RiskLevel, p *catalog.ChangePattern) (bool, *catalog.AdvisoryAction) {
	if level < threshold {
		return false, nil
	}

	var action catalog.AdvisoryAction
	var ok bool
	if p != nil && p.ActionID != "" {
		action, ok = c.Action(p.ActionID)
	}
	if !ok {
		action, ok = c.DefaultAction(level)
	}
	if !ok {
		// The loader guarantees every level has an action; this covers
		// synthetic catalogs built outside Load.
		action = catalog.AdvisoryAction{
			ID:          "manual_review",
			Description: "Manual review required.",
		}
	}
	action.NonExecutable = true
	return true, &action
}
