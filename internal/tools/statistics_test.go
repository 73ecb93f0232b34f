package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/impactsim/impactsim/internal/metrics"
	"github.com/mark3labs/mcp-go/mcp"
)

func TestStatisticsTool_Handle(t *testing.T) {
	store, err := metrics.New(metrics.DefaultConfig())
	if err != nil {
		t.Fatalf("metrics.New: %v", err)
	}
	defer store.Close()

	if err := store.RecordAnalysis("replica_scaling", "HIGH", true); err != nil {
		t.Fatalf("RecordAnalysis: %v", err)
	}

	tool := NewStatisticsTool(store)
	result, err := tool.Handle(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected error result: %s", getResultText(result))
	}

	var stats metrics.Statistics
	if err := json.Unmarshal([]byte(getResultText(result)), &stats); err != nil {
		t.Fatalf("unmarshal stats: %v", err)
	}
	if stats.TotalAnalyses != 1 {
		t.Errorf("total = %d, want 1", stats.TotalAnalyses)
	}
	if stats.RiskDistribution["HIGH"] != 1 {
		t.Errorf("distribution = %+v", stats.RiskDistribution)
	}
}
