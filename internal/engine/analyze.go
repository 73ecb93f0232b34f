package engine

import (
	"github.com/impactsim/impactsim/internal/catalog"
)

// Engine evaluates change descriptions and knowledge queries against
// the catalog store's active snapshot. It holds no per-request state;
// one Engine serves any number of concurrent callers.
type Engine struct {
	store *catalog.Store
}

// New creates an Engine reading from the given catalog store.
func New(store *catalog.Store) *Engine {
	return &Engine{store: store}
}

// Catalog returns the active catalog snapshot.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.store.Snapshot()
}

// AnalysisResult is the structured output of analyze_change. It is
// created fresh per request, never persisted by the engine, and carries
// no timestamp: identical input against an unchanged catalog produces a
// byte-identical result.
type AnalysisResult struct {
	ChangeDescription string `json:"change_description"`

	// MatchedPattern is empty for an unrecognized change.
	MatchedPattern string `json:"matched_pattern,omitempty"`
	Category       string `json:"category,omitempty"`

	RiskLevel       catalog.RiskLevel `json:"risk_level"`
	RiskDescription string            `json:"risk_description"`
	Impacts         []string          `json:"impacts"`
	SafeConditions  []string          `json:"safe_conditions"`
	Safeguards      []string          `json:"safeguards"`

	// Adjustment explains a numeric-context level change, when one applied.
	Adjustment string `json:"adjustment,omitempty"`

	RequiresReview bool                    `json:"requires_manual_review"`
	Action         *catalog.AdvisoryAction `json:"advisory_action,omitempty"`

	Disclaimer string `json:"disclaimer"`
}

// Analyze runs the full pipeline (match, evaluate, decide, assemble)
// using the catalog's configured escalation threshold.
func (e *Engine) Analyze(text string) AnalysisResult {
	c := e.store.Snapshot()
	return analyze(c, text, c.Threshold)
}

// AnalyzeAt is Analyze with a per-request threshold override.
func (e *Engine) AnalyzeAt(text string, threshold catalog.RiskLevel) AnalysisResult {
	return analyze(e.store.Snapshot(), text, threshold)
}

// Match returns the full ranked pattern list for the text. Used by
// introspection callers; Analyze itself only consumes the top rank.
func (e *Engine) Match(text string) []PatternMatch {
	return matchPatterns(e.store.Snapshot(), text)
}

// SearchKnowledge ranks knowledge-base entries against the query.
func (e *Engine) SearchKnowledge(query string) []KnowledgeMatch {
	return searchKnowledge(e.store.Snapshot(), query)
}

// analyze composes the pipeline stages over one catalog snapshot.
func analyze(c *catalog.Catalog, text string, threshold catalog.RiskLevel) AnalysisResult {
	pattern := bestMatch(c, text)
	num, hasNum := extractNumericContext(text)
	ev := evaluate(c, pattern, num, hasNum)
	escalate, action := decide(c, ev.Level, threshold, pattern)
	return assemble(c, text, pattern, ev, escalate, action)
}

// assemble is the response assembler: pure composition of the matcher,
// evaluator, and decider outputs plus the catalog's disclaimer. The
// only branching is matched-vs-unmatched null coalescing.
func assemble(c *catalog.Catalog, text string, p *catalog.ChangePattern, ev Evaluation, escalate bool, action *catalog.AdvisoryAction) AnalysisResult {
	result := AnalysisResult{
		ChangeDescription: text,
		RiskLevel:         ev.Level,
		Impacts:           ev.Impacts,
		SafeConditions:    ev.SafeConditions,
		Safeguards:        ev.Safeguards,
		Adjustment:        ev.Adjustment,
		RequiresReview:    escalate,
		Action:            action,
		Disclaimer:        c.Persona.Disclaimer,
	}
	if p != nil {
		result.MatchedPattern = p.ID
		result.Category = p.Category
	}
	if def, ok := c.Risks[ev.Level]; ok {
		result.RiskDescription = def.Description
	}
	return result
}
