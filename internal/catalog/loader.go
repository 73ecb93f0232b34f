package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// Table file names. An industry mode first tries <name>_<industry>.yaml
// and falls back to the base file, per table.
const (
	fileRiskDefinitions = "risk_definitions.yaml"
	fileChangePatterns  = "change_patterns.yaml"
	fileKnowledgeBase   = "knowledge_base.yaml"
	fileActions         = "actions.yaml"
	fileIntents         = "intents.yaml"
	fileWorkflows       = "workflows.yaml"
	filePersona         = "persona.yaml"
)

// ─── YAML file shapes ────────────────────────────────────────────────────────

type riskFile struct {
	Threshold    string           `yaml:"threshold"`
	UnknownLevel string           `yaml:"unknown_level"`
	Levels       []RiskDefinition `yaml:"levels"`
}

type actionsFile struct {
	Actions []struct {
		ID          string `yaml:"id"`
		Description string `yaml:"description"`
		Executable  bool   `yaml:"executable"`
	} `yaml:"actions"`
}

type patternsFile struct {
	Categories []Category      `yaml:"categories"`
	Patterns   []ChangePattern `yaml:"patterns"`
}

type knowledgeFile struct {
	Entries []KnowledgeEntry `yaml:"entries"`
}

type intentsFile struct {
	Intents []Intent `yaml:"intents"`
}

type workflowsFile struct {
	ApprovalWorkflow struct {
		Stages []WorkflowStage `yaml:"stages"`
	} `yaml:"approval_workflow"`
}

// ─── Loading ─────────────────────────────────────────────────────────────────

// Load reads and validates the catalog tables for the given industry
// mode. An empty dir loads the embedded default catalogs; otherwise dir
// must contain the YAML tables. Any validation failure is fatal; the
// caller must refuse to serve.
func Load(dir, industry string) (*Catalog, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(defaultsFS, "defaults")
		if err != nil {
			return nil, fmt.Errorf("catalog: embedded defaults: %w", err)
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}
	return LoadFS(fsys, industry)
}

// LoadFS is Load over an arbitrary filesystem, used directly by tests.
func LoadFS(fsys fs.FS, industry string) (*Catalog, error) {
	c := &Catalog{
		Industry:   industry,
		Categories: make(map[string]AdjustmentRule),
		Risks:      make(map[RiskLevel]RiskDefinition),
		Actions:    make(map[string]AdvisoryAction),
	}

	if err := loadActions(fsys, industry, c); err != nil {
		return nil, err
	}
	if err := loadRiskDefinitions(fsys, industry, c); err != nil {
		return nil, err
	}
	if err := loadChangePatterns(fsys, industry, c); err != nil {
		return nil, err
	}
	if err := loadKnowledgeBase(fsys, industry, c); err != nil {
		return nil, err
	}
	if err := loadIntents(fsys, industry, c); err != nil {
		return nil, err
	}
	if err := loadWorkflows(fsys, industry, c); err != nil {
		return nil, err
	}
	if err := loadPersona(fsys, industry, c); err != nil {
		return nil, err
	}

	return c, nil
}

// readTable reads a table file, preferring the industry-specific
// variant (<base>_<industry>.yaml). A missing industry variant silently
// falls back to the base file. Returns fs.ErrNotExist when neither
// exists; the caller decides whether the table is required.
func readTable(fsys fs.FS, base, industry string) ([]byte, error) {
	if industry != "" && industry != "general" {
		name := industryVariant(base, industry)
		data, err := fs.ReadFile(fsys, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("catalog: reading %s: %w", name, err)
		}
	}
	data, err := fs.ReadFile(fsys, base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("catalog: table %s: %w", base, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("catalog: reading %s: %w", base, err)
	}
	return data, nil
}

func industryVariant(base, industry string) string {
	const ext = ".yaml"
	return base[:len(base)-len(ext)] + "_" + industry + ext
}

func decodeTable(fsys fs.FS, base, industry string, out any) (found bool, err error) {
	data, err := readTable(fsys, base, industry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return true, fmt.Errorf("catalog: parsing %s: %w", base, err)
	}
	return true, nil
}

func loadActions(fsys fs.FS, industry string, c *Catalog) error {
	var f actionsFile
	found, err := decodeTable(fsys, fileActions, industry, &f)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("catalog: required table %s is missing", fileActions)
	}
	for _, a := range f.Actions {
		if a.ID == "" {
			return fmt.Errorf("catalog: %s: action with empty id", fileActions)
		}
		if _, dup := c.Actions[a.ID]; dup {
			return fmt.Errorf("catalog: %s: duplicate action %q", fileActions, a.ID)
		}
		if a.Executable {
			return fmt.Errorf("catalog: %s: action %q is marked executable; this server is advisory only", fileActions, a.ID)
		}
		c.Actions[a.ID] = AdvisoryAction{
			ID:            a.ID,
			Description:   a.Description,
			NonExecutable: true,
		}
	}
	if len(c.Actions) == 0 {
		return fmt.Errorf("catalog: %s: no actions defined", fileActions)
	}
	return nil
}

func loadRiskDefinitions(fsys fs.FS, industry string, c *Catalog) error {
	var f riskFile
	found, err := decodeTable(fsys, fileRiskDefinitions, industry, &f)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("catalog: required table %s is missing", fileRiskDefinitions)
	}

	for _, def := range f.Levels {
		if _, dup := c.Risks[def.Level]; dup {
			return fmt.Errorf("catalog: %s: duplicate level %s", fileRiskDefinitions, def.Level)
		}
		if _, ok := c.Actions[def.ActionID]; !ok {
			return fmt.Errorf("catalog: %s: level %s references undefined action %q", fileRiskDefinitions, def.Level, def.ActionID)
		}
		c.Risks[def.Level] = def
	}
	for _, level := range Levels() {
		if _, ok := c.Risks[level]; !ok {
			return fmt.Errorf("catalog: %s: level %s is not defined", fileRiskDefinitions, level)
		}
	}

	c.Threshold = RiskMedium
	if f.Threshold != "" {
		level, err := ParseRiskLevel(f.Threshold)
		if err != nil {
			return fmt.Errorf("catalog: %s: malformed threshold: %w", fileRiskDefinitions, err)
		}
		c.Threshold = level
	}
	c.UnknownLevel = RiskMedium
	if f.UnknownLevel != "" {
		level, err := ParseRiskLevel(f.UnknownLevel)
		if err != nil {
			return fmt.Errorf("catalog: %s: malformed unknown_level: %w", fileRiskDefinitions, err)
		}
		c.UnknownLevel = level
	}
	return nil
}

func loadChangePatterns(fsys fs.FS, industry string, c *Catalog) error {
	var f patternsFile
	found, err := decodeTable(fsys, fileChangePatterns, industry, &f)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("catalog: required table %s is missing", fileChangePatterns)
	}

	for _, cat := range f.Categories {
		if cat.Name == "" {
			return fmt.Errorf("catalog: %s: category with empty name", fileChangePatterns)
		}
		switch cat.Adjustment.Kind {
		case AdjustNone, "":
			cat.Adjustment.Kind = AdjustNone
		case AdjustCapacityFloor:
			if cat.Adjustment.Floor <= 0 {
				return fmt.Errorf("catalog: %s: category %q: capacity_floor requires a positive floor", fileChangePatterns, cat.Name)
			}
		default:
			return fmt.Errorf("catalog: %s: category %q: unknown adjustment rule %q", fileChangePatterns, cat.Name, cat.Adjustment.Kind)
		}
		if _, dup := c.Categories[cat.Name]; dup {
			return fmt.Errorf("catalog: %s: duplicate category %q", fileChangePatterns, cat.Name)
		}
		c.Categories[cat.Name] = cat.Adjustment
	}

	seen := make(map[string]bool, len(f.Patterns))
	for _, p := range f.Patterns {
		switch {
		case p.ID == "":
			return fmt.Errorf("catalog: %s: pattern with empty id", fileChangePatterns)
		case seen[p.ID]:
			return fmt.Errorf("catalog: %s: duplicate pattern %q", fileChangePatterns, p.ID)
		case len(p.Keywords) == 0:
			return fmt.Errorf("catalog: %s: pattern %q has no keywords", fileChangePatterns, p.ID)
		}
		if _, ok := c.Categories[p.Category]; !ok {
			return fmt.Errorf("catalog: %s: pattern %q references undeclared category %q", fileChangePatterns, p.ID, p.Category)
		}
		if p.ActionID != "" {
			if _, ok := c.Actions[p.ActionID]; !ok {
				return fmt.Errorf("catalog: %s: pattern %q references undefined action %q", fileChangePatterns, p.ID, p.ActionID)
			}
		}
		seen[p.ID] = true
	}
	if len(f.Patterns) == 0 {
		return fmt.Errorf("catalog: %s: no patterns defined", fileChangePatterns)
	}
	c.Patterns = f.Patterns
	return nil
}

func loadKnowledgeBase(fsys fs.FS, industry string, c *Catalog) error {
	var f knowledgeFile
	found, err := decodeTable(fsys, fileKnowledgeBase, industry, &f)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("catalog: required table %s is missing", fileKnowledgeBase)
	}
	seen := make(map[string]bool, len(f.Entries))
	for _, e := range f.Entries {
		switch {
		case e.ID == "":
			return fmt.Errorf("catalog: %s: entry with empty id", fileKnowledgeBase)
		case seen[e.ID]:
			return fmt.Errorf("catalog: %s: duplicate entry %q", fileKnowledgeBase, e.ID)
		case len(e.Keywords) == 0:
			return fmt.Errorf("catalog: %s: entry %q has no keywords", fileKnowledgeBase, e.ID)
		}
		seen[e.ID] = true
	}
	c.Knowledge = f.Entries
	return nil
}

// Intents, workflows, and persona are optional tables: the engine works
// without them, so absence is not a configuration error.

func loadIntents(fsys fs.FS, industry string, c *Catalog) error {
	var f intentsFile
	if _, err := decodeTable(fsys, fileIntents, industry, &f); err != nil {
		return err
	}
	c.Intents = f.Intents
	return nil
}

func loadWorkflows(fsys fs.FS, industry string, c *Catalog) error {
	var f workflowsFile
	if _, err := decodeTable(fsys, fileWorkflows, industry, &f); err != nil {
		return err
	}
	for _, stage := range f.ApprovalWorkflow.Stages {
		if stage.Name == "" {
			return fmt.Errorf("catalog: %s: stage with empty name", fileWorkflows)
		}
	}
	c.Workflow = f.ApprovalWorkflow.Stages
	return nil
}

func loadPersona(fsys fs.FS, industry string, c *Catalog) error {
	found, err := decodeTable(fsys, filePersona, industry, &c.Persona)
	if err != nil {
		return err
	}
	if !found || c.Persona.Disclaimer == "" {
		c.Persona.Disclaimer = DefaultDisclaimer
	}
	return nil
}

// DefaultDisclaimer is attached to analyses when the persona table does
// not declare one.
const DefaultDisclaimer = "Advisory analysis only. No changes are executed or scheduled by this server."
