package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/impactsim/impactsim/internal/catalog"
	"github.com/impactsim/impactsim/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Test helpers ---

// newTestEngine builds an engine over a small synthetic catalog with a
// HIGH escalation threshold.
func newTestEngine() *engine.Engine {
	c := &catalog.Catalog{
		Patterns: []catalog.ChangePattern{
			{
				ID:          "replica_scaling",
				Category:    "scaling",
				Keywords:    []string{"replica", "replicas", "scale down"},
				RiskLevel:   catalog.RiskMedium,
				Description: "Changing replica counts",
				Example:     "reduce replicas from 3 to 1",
				Impacts:     []string{"Reduced availability headroom"},
				Safeguards:  []string{"Scale in steps"},
			},
			{
				ID:          "backup_schedule_change",
				Category:    "backup",
				Keywords:    []string{"backup"},
				RiskLevel:   catalog.RiskHigh,
				Description: "Modifying backup schedules",
				Example:     "disable nightly backups",
			},
		},
		Categories: map[string]catalog.AdjustmentRule{
			"scaling": {Kind: catalog.AdjustCapacityFloor, Floor: 2},
			"backup":  {Kind: catalog.AdjustNone},
		},
		Risks: map[catalog.RiskLevel]catalog.RiskDefinition{
			catalog.RiskLow:      {Level: catalog.RiskLow, Description: "Routine", ActionID: "log_only"},
			catalog.RiskMedium:   {Level: catalog.RiskMedium, Description: "Moderate", ActionID: "peer_review"},
			catalog.RiskHigh:     {Level: catalog.RiskHigh, Description: "Significant", ActionID: "manual_review"},
			catalog.RiskCritical: {Level: catalog.RiskCritical, Description: "Severe", ActionID: "manual_review"},
		},
		Knowledge: []catalog.KnowledgeEntry{
			{ID: "backup-policy", Topic: "Backup policy", Keywords: []string{"backup"},
				Content: "Keep a verified backup before schedule changes."},
			{ID: "dns-cutover", Topic: "DNS cutover", Keywords: []string{"dns"},
				Content: "Lower TTLs ahead of a cutover."},
		},
		Actions: map[string]catalog.AdvisoryAction{
			"log_only":      {ID: "log_only", Description: "Log the change", NonExecutable: true},
			"peer_review":   {ID: "peer_review", Description: "Peer review", NonExecutable: true},
			"manual_review": {ID: "manual_review", Description: "Manual review", NonExecutable: true},
		},
		Workflow: []catalog.WorkflowStage{
			{Name: "peer_review", RequiredFor: []catalog.RiskLevel{catalog.RiskHigh, catalog.RiskCritical}},
		},
		Persona:      catalog.Persona{Disclaimer: catalog.DefaultDisclaimer},
		Threshold:    catalog.RiskHigh,
		UnknownLevel: catalog.RiskMedium,
	}
	return engine.New(catalog.NewStore(c))
}

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func requestWithArgs(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// --- SearchKnowledgeTool ---

func TestSearchKnowledgeTool_Handle_Success(t *testing.T) {
	tool := NewSearchKnowledgeTool(newTestEngine())

	result, err := tool.Handle(context.Background(), requestWithArgs(map[string]interface{}{
		"query": "backup policy",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected error result: %s", getResultText(result))
	}

	var results []knowledgeResult
	if err := json.Unmarshal([]byte(getResultText(result)), &results); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(results) == 0 || results[0].ID != "backup-policy" {
		t.Errorf("results = %+v, want backup-policy first", results)
	}
}

func TestSearchKnowledgeTool_Handle_NoMatchIsEmptyList(t *testing.T) {
	tool := NewSearchKnowledgeTool(newTestEngine())

	result, err := tool.Handle(context.Background(), requestWithArgs(map[string]interface{}{
		"query": "quantum blockchain",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatal("no match must not be an error")
	}
	if text := strings.TrimSpace(getResultText(result)); text != "[]" {
		t.Errorf("result = %q, want empty JSON list", text)
	}
}

func TestSearchKnowledgeTool_Handle_MissingQuery(t *testing.T) {
	tool := NewSearchKnowledgeTool(newTestEngine())

	result, err := tool.Handle(context.Background(), requestWithArgs(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("missing query must produce an error result")
	}
}

// --- ListChangesTool ---

func TestListChangesTool_Handle_OneEntryPerPattern(t *testing.T) {
	eng := newTestEngine()
	tool := NewListChangesTool(eng)

	result, err := tool.Handle(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected error result: %s", getResultText(result))
	}

	var changes []supportedChange
	if err := json.Unmarshal([]byte(getResultText(result)), &changes); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if want := len(eng.Catalog().Patterns); len(changes) != want {
		t.Errorf("entries = %d, want %d (one per pattern)", len(changes), want)
	}
	if changes[0].ID != "replica_scaling" || changes[0].RiskLevel != catalog.RiskMedium {
		t.Errorf("first entry = %+v", changes[0])
	}
}
