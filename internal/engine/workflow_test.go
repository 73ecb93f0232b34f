package engine

import (
	"testing"
	"time"

	"github.com/impactsim/impactsim/internal/catalog"
)

func TestBuildApprovalChainStagesByLevel(t *testing.T) {
	eng := testEngine()
	fixTestClock(t, "0001", time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))

	tests := []struct {
		level      catalog.RiskLevel
		wantStages []string
	}{
		{catalog.RiskMedium, []string{"peer_review"}},
		{catalog.RiskHigh, []string{"peer_review", "sre_review"}},
		{catalog.RiskCritical, []string{"peer_review", "sre_review", "change_board"}},
	}

	for _, tt := range tests {
		chain, err := eng.BuildApprovalChain(AnalysisResult{
			ChangeDescription: "change",
			RiskLevel:         tt.level,
		})
		if err != nil {
			t.Fatalf("%s: %v", tt.level, err)
		}
		if !chain.RequiresApproval {
			t.Errorf("%s: expected approval workflow", tt.level)
			continue
		}
		if len(chain.Stages) != len(tt.wantStages) {
			t.Errorf("%s: %d stages, want %d", tt.level, len(chain.Stages), len(tt.wantStages))
			continue
		}
		for i, name := range tt.wantStages {
			if chain.Stages[i].Name != name {
				t.Errorf("%s: stage %d = %s, want %s", tt.level, i, chain.Stages[i].Name, name)
			}
		}
		if chain.WorkflowID != "WF-0001" {
			t.Errorf("%s: workflow id = %q", tt.level, chain.WorkflowID)
		}
		if chain.Status != "PENDING_APPROVAL" {
			t.Errorf("%s: status = %q", tt.level, chain.Status)
		}
	}
}

func TestBuildApprovalChainNoStagesRequired(t *testing.T) {
	eng := testEngine()

	chain, err := eng.BuildApprovalChain(AnalysisResult{RiskLevel: catalog.RiskLow})
	if err != nil {
		t.Fatalf("BuildApprovalChain: %v", err)
	}
	if chain.RequiresApproval {
		t.Error("LOW requires no approval workflow")
	}
	if chain.Reason == "" {
		t.Error("no-approval result must carry a reason")
	}
}

func TestBuildApprovalChainRejectsUndefinedLevel(t *testing.T) {
	eng := testEngine()
	if _, err := eng.BuildApprovalChain(AnalysisResult{RiskLevel: catalog.RiskLevel(-1)}); err == nil {
		t.Fatal("want error for undefined risk level")
	}
}

func TestEstimateApprovalTime(t *testing.T) {
	tests := []struct {
		stages int
		want   string
	}{
		{1, "Same day"},
		{2, "Same day"},
		{3, "Within 24 hours"},
		{12, "Within 24 hours"},
		{24, "2 business days"},
	}
	for _, tt := range tests {
		if got := estimateApprovalTime(tt.stages); got != tt.want {
			t.Errorf("estimateApprovalTime(%d) = %q, want %q", tt.stages, got, tt.want)
		}
	}
}
