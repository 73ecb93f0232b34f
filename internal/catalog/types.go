// Package catalog holds the immutable knowledge tables the engine runs
// against: change patterns, risk definitions, advisory actions, the
// intent taxonomy, the knowledge base, and approval workflows.
//
// Tables are loaded once from YAML (or the embedded defaults), validated
// into strongly-typed records, and published through a Store snapshot.
// Nothing in this package mutates a Catalog after Load returns.
package catalog

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// RiskLevel is one of the ordered escalation severities. The zero value
// is RiskLow; comparison with < and >= follows the declared total order
// LOW < MEDIUM < HIGH < CRITICAL.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskCritical
)

var riskLevelNames = [...]string{"LOW", "MEDIUM", "HIGH", "CRITICAL"}

// Levels returns all risk levels in ascending order.
func Levels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}
}

// LevelNames returns the canonical level names in ascending order,
// for enum-constrained tool schemas.
func LevelNames() []string {
	return append([]string(nil), riskLevelNames[:]...)
}

// String returns the canonical upper-case name of the level.
func (r RiskLevel) String() string {
	if r < RiskLow || r > RiskCritical {
		return fmt.Sprintf("RiskLevel(%d)", int(r))
	}
	return riskLevelNames[r]
}

// Valid reports whether the level is one of the four defined severities.
func (r RiskLevel) Valid() bool {
	return r >= RiskLow && r <= RiskCritical
}

// Raise returns the level one step up, capped at CRITICAL.
func (r RiskLevel) Raise() RiskLevel {
	if r >= RiskCritical {
		return RiskCritical
	}
	return r + 1
}

// ParseRiskLevel converts a level name (case-sensitive, upper case) into
// a RiskLevel. Unknown names are an error; callers decide whether that
// is a configuration problem or caller misuse.
func ParseRiskLevel(s string) (RiskLevel, error) {
	for i, name := range riskLevelNames {
		if s == name {
			return RiskLevel(i), nil
		}
	}
	return RiskLow, fmt.Errorf("undefined risk level %q", s)
}

// MarshalJSON encodes the level as its canonical name.
func (r RiskLevel) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshaling risk level: %s", r)
	}
	return json.Marshal(r.String())
}

// MarshalText lets a level serve as a JSON object key.
func (r RiskLevel) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshaling risk level: %s", r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a canonical level name used as an object key.
func (r *RiskLevel) UnmarshalText(data []byte) error {
	level, err := ParseRiskLevel(string(data))
	if err != nil {
		return err
	}
	*r = level
	return nil
}

// UnmarshalJSON decodes a canonical level name.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	level, err := ParseRiskLevel(s)
	if err != nil {
		return err
	}
	*r = level
	return nil
}

// UnmarshalYAML decodes a canonical level name from a catalog table.
func (r *RiskLevel) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	level, err := ParseRiskLevel(s)
	if err != nil {
		return err
	}
	*r = level
	return nil
}

// AdvisoryAction is a non-executable recommendation attached to an
// escalated analysis. The loader rejects any action whose table entry
// claims to be executable; this server never performs changes.
type AdvisoryAction struct {
	ID            string `yaml:"id" json:"id"`
	Description   string `yaml:"description" json:"description"`
	NonExecutable bool   `yaml:"-" json:"non_executable"`
}

// RiskDefinition describes one severity level and its default advisory
// action.
type RiskDefinition struct {
	Level       RiskLevel `yaml:"level" json:"level"`
	Description string    `yaml:"description" json:"description"`
	ActionID    string    `yaml:"action" json:"action"`
}

// AdjustmentKind tags the per-category numeric adjustment rule.
type AdjustmentKind string

const (
	// AdjustNone leaves the pattern's base level untouched.
	AdjustNone AdjustmentKind = "none"
	// AdjustCapacityFloor raises risk one step when a capacity-like
	// quantity is reduced below the declared floor.
	AdjustCapacityFloor AdjustmentKind = "capacity_floor"
)

// AdjustmentRule is the tagged-variant adjustment declared per pattern
// category. Floor is only meaningful for AdjustCapacityFloor.
type AdjustmentRule struct {
	Kind  AdjustmentKind `yaml:"rule" json:"rule"`
	Floor int            `yaml:"floor,omitempty" json:"floor,omitempty"`
}

// Category groups patterns that share an adjustment rule.
type Category struct {
	Name       string         `yaml:"name" json:"name"`
	Adjustment AdjustmentRule `yaml:"adjustment" json:"adjustment"`
}

// ChangePattern is a recognizable class of infrastructure change with
// its default risk and impact profile.
type ChangePattern struct {
	ID             string    `yaml:"id" json:"id"`
	Category       string    `yaml:"category" json:"category"`
	Keywords       []string  `yaml:"keywords" json:"keywords"`
	RiskLevel      RiskLevel `yaml:"risk_level" json:"risk_level"`
	Description    string    `yaml:"description" json:"description"`
	Example        string    `yaml:"example" json:"example"`
	Impacts        []string  `yaml:"impacts" json:"impacts"`
	SafeConditions []string  `yaml:"safe_conditions" json:"safe_conditions"`
	Safeguards     []string  `yaml:"safeguards" json:"safeguards"`
	// ActionID optionally overrides the risk level's default advisory
	// action when this pattern escalates.
	ActionID string `yaml:"action,omitempty" json:"action,omitempty"`
}

// KnowledgeEntry is an independent best-practice / failure-mode record,
// searchable by keyword. It has no relationship to change patterns.
type KnowledgeEntry struct {
	ID       string   `yaml:"id" json:"id"`
	Topic    string   `yaml:"topic" json:"topic"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	Content  string   `yaml:"content" json:"content"`
}

// Intent maps trigger phrases to the tool a caller should route to.
// The engine itself never consults intents; they are a lookup table
// for the host.
type Intent struct {
	ID      string   `yaml:"id" json:"id"`
	Phrases []string `yaml:"phrases" json:"phrases"`
	Tool    string   `yaml:"tool" json:"tool"`
}

// WorkflowStage is one approval stage in the advisory approval workflow.
type WorkflowStage struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	RequiredFor []RiskLevel `yaml:"required_for" json:"required_for"`
	Approvers   []string    `yaml:"approvers" json:"approvers"`
	AutoApprove bool        `yaml:"auto_approve" json:"auto_approve"`
}

// Persona carries the advisory framing attached to every response.
type Persona struct {
	Name       string `yaml:"name" json:"name"`
	Role       string `yaml:"role" json:"role"`
	Disclaimer string `yaml:"disclaimer" json:"disclaimer"`
}

// Catalog is the complete validated table set for one industry mode.
// It is immutable after Load; consumers hold it via Store snapshots.
type Catalog struct {
	Industry string

	Patterns   []ChangePattern
	Categories map[string]AdjustmentRule
	Risks      map[RiskLevel]RiskDefinition
	Knowledge  []KnowledgeEntry
	Intents    []Intent
	Actions    map[string]AdvisoryAction
	Workflow   []WorkflowStage
	Persona    Persona

	// Threshold is the configured escalation threshold; UnknownLevel is
	// the conservative level assigned to unrecognized changes.
	Threshold    RiskLevel
	UnknownLevel RiskLevel
}

// Action looks up an advisory action by ID.
func (c *Catalog) Action(id string) (AdvisoryAction, bool) {
	a, ok := c.Actions[id]
	return a, ok
}

// DefaultAction returns the advisory action declared for a risk level.
func (c *Catalog) DefaultAction(level RiskLevel) (AdvisoryAction, bool) {
	def, ok := c.Risks[level]
	if !ok {
		return AdvisoryAction{}, false
	}
	return c.Action(def.ActionID)
}

// AdjustmentFor returns the adjustment rule declared for a category.
// Unknown categories get AdjustNone; the loader guarantees patterns
// only reference declared categories, so this is for synthetic inputs.
func (c *Catalog) AdjustmentFor(category string) AdjustmentRule {
	if rule, ok := c.Categories[category]; ok {
		return rule
	}
	return AdjustmentRule{Kind: AdjustNone}
}
