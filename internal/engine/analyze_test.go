package engine

import (
	"encoding/json"
	"testing"

	"github.com/impactsim/impactsim/internal/catalog"
)

// testCatalog builds a small synthetic catalog covering all matcher,
// evaluator, and decider branches. Built directly rather than through
// the loader so each test controls exactly what the engine sees.
func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Patterns: []catalog.ChangePattern{
			{
				ID:             "replica_scaling",
				Category:       "scaling",
				Keywords:       []string{"replica", "replicas", "scale down"},
				RiskLevel:      catalog.RiskMedium,
				Description:    "Changing replica counts",
				Impacts:        []string{"Reduced availability headroom"},
				SafeConditions: []string{"Traffic is at a seasonal low"},
				Safeguards:     []string{"Scale in steps"},
			},
			{
				ID:         "backup_schedule_change",
				Category:   "backup",
				Keywords:   []string{"backup"},
				RiskLevel:  catalog.RiskHigh,
				Impacts:    []string{"Longer recovery point"},
				Safeguards: []string{"Verify last good backup"},
				ActionID:   "manual_review",
			},
			{
				ID:        "deployment_rollout",
				Category:  "deployment",
				Keywords:  []string{"deploy"},
				RiskLevel: catalog.RiskLow,
			},
		},
		Categories: map[string]catalog.AdjustmentRule{
			"scaling":    {Kind: catalog.AdjustCapacityFloor, Floor: 2},
			"backup":     {Kind: catalog.AdjustNone},
			"deployment": {Kind: catalog.AdjustNone},
		},
		Risks: map[catalog.RiskLevel]catalog.RiskDefinition{
			catalog.RiskLow:      {Level: catalog.RiskLow, Description: "Routine change", ActionID: "log_only"},
			catalog.RiskMedium:   {Level: catalog.RiskMedium, Description: "Moderate change", ActionID: "peer_review"},
			catalog.RiskHigh:     {Level: catalog.RiskHigh, Description: "Significant change", ActionID: "manual_review"},
			catalog.RiskCritical: {Level: catalog.RiskCritical, Description: "Severe change", ActionID: "manual_review"},
		},
		Knowledge: []catalog.KnowledgeEntry{
			{ID: "backup-policy", Topic: "Backup policy", Keywords: []string{"backup", "retention"},
				Content: "Keep at least one verified backup before schedule changes."},
			{ID: "replica-floor", Topic: "Replica floors", Keywords: []string{"replica", "availability"},
				Content: "Run at least two replicas of stateless services."},
			{ID: "dns-cutover", Topic: "DNS cutover", Keywords: []string{"dns", "ttl"},
				Content: "Lower TTLs ahead of a cutover."},
		},
		Actions: map[string]catalog.AdvisoryAction{
			"log_only":      {ID: "log_only", Description: "Log the change", NonExecutable: true},
			"peer_review":   {ID: "peer_review", Description: "Peer review", NonExecutable: true},
			"manual_review": {ID: "manual_review", Description: "Manual review", NonExecutable: true},
		},
		Workflow: []catalog.WorkflowStage{
			{Name: "peer_review", RequiredFor: []catalog.RiskLevel{catalog.RiskMedium, catalog.RiskHigh, catalog.RiskCritical}, Approvers: []string{"any engineer"}},
			{Name: "sre_review", RequiredFor: []catalog.RiskLevel{catalog.RiskHigh, catalog.RiskCritical}, Approvers: []string{"sre on-call"}},
			{Name: "change_board", RequiredFor: []catalog.RiskLevel{catalog.RiskCritical}, Approvers: []string{"change advisory board"}},
		},
		Persona:      catalog.Persona{Disclaimer: catalog.DefaultDisclaimer},
		Threshold:    catalog.RiskHigh,
		UnknownLevel: catalog.RiskMedium,
	}
}

func testEngine() *Engine {
	return New(catalog.NewStore(testCatalog()))
}

func TestAnalyzeCapacityReductionBelowFloor(t *testing.T) {
	eng := testEngine()

	result := eng.AnalyzeAt("reduce replicas from 3 to 1", catalog.RiskMedium)

	if result.MatchedPattern != "replica_scaling" {
		t.Fatalf("matched = %q, want replica_scaling", result.MatchedPattern)
	}
	if result.RiskLevel != catalog.RiskHigh {
		t.Errorf("risk = %s, want HIGH (raised from MEDIUM)", result.RiskLevel)
	}
	if result.Adjustment == "" {
		t.Error("adjustment explanation missing")
	}
	if !result.RequiresReview {
		t.Error("HIGH at threshold MEDIUM must escalate")
	}
	if result.Action == nil {
		t.Fatal("escalated analysis carries no advisory action")
	}
	if !result.Action.NonExecutable {
		t.Error("advisory action must be non-executable")
	}
}

func TestAnalyzeCapacityIncreaseKeepsBaseLevel(t *testing.T) {
	eng := testEngine()

	result := eng.Analyze("increase replicas from 2 to 5")

	if result.MatchedPattern != "replica_scaling" {
		t.Fatalf("matched = %q, want replica_scaling", result.MatchedPattern)
	}
	if result.RiskLevel != catalog.RiskMedium {
		t.Errorf("risk = %s, want base MEDIUM", result.RiskLevel)
	}
	if result.Adjustment != "" {
		t.Errorf("unexpected adjustment: %q", result.Adjustment)
	}
	if result.RequiresReview {
		t.Error("MEDIUM below threshold HIGH must not escalate")
	}
	if result.Action != nil {
		t.Errorf("non-escalated analysis carries action %+v", result.Action)
	}
}

func TestAnalyzeUnrecognizedChange(t *testing.T) {
	eng := testEngine()

	result := eng.Analyze("repaint the office walls")

	if result.MatchedPattern != "" {
		t.Fatalf("matched = %q, want no match", result.MatchedPattern)
	}
	if result.RiskLevel != catalog.RiskMedium {
		t.Errorf("risk = %s, want configured unknown level MEDIUM", result.RiskLevel)
	}
	if len(result.Impacts) == 0 || len(result.Safeguards) == 0 {
		t.Error("unknown change must carry placeholder guidance, not empty lists")
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	eng := testEngine()
	const input = "scale down replicas from 3 to 1 on checkout"

	first, err := json.Marshal(eng.Analyze(input))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(eng.Analyze(input))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("repeat analysis differs:\n%s\n%s", first, second)
	}
}

func TestAnalyzeCarriesDisclaimer(t *testing.T) {
	eng := testEngine()
	result := eng.Analyze("deploy the new build")
	if result.Disclaimer != catalog.DefaultDisclaimer {
		t.Errorf("disclaimer = %q", result.Disclaimer)
	}
}

func TestAnalyzeRiskDescriptionFollowsResolvedLevel(t *testing.T) {
	eng := testEngine()

	// Raised from MEDIUM to HIGH; the description must be HIGH's.
	result := eng.AnalyzeAt("reduce replicas from 3 to 1", catalog.RiskMedium)
	if result.RiskDescription != "Significant change" {
		t.Errorf("risk description = %q, want HIGH's", result.RiskDescription)
	}
}

func TestAnalyzeDefaultCatalogScenarios(t *testing.T) {
	c, err := catalog.Load("", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	eng := New(catalog.NewStore(c))

	reduce := eng.AnalyzeAt("reduce replicas from 3 to 1", catalog.RiskMedium)
	if reduce.RiskLevel != catalog.RiskHigh || !reduce.RequiresReview {
		t.Errorf("reduce: level=%s escalate=%v, want HIGH/true", reduce.RiskLevel, reduce.RequiresReview)
	}

	increase := eng.Analyze("increase replicas from 2 to 5")
	if increase.RiskLevel > catalog.RiskMedium {
		t.Errorf("increase: level=%s, want at or below pattern base", increase.RiskLevel)
	}
	if increase.RequiresReview {
		t.Error("increase: must not escalate at the default threshold")
	}
}
