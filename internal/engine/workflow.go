package engine

import (
	"fmt"
	"time"

	"github.com/impactsim/impactsim/internal/catalog"
)

// ApprovalStage is one stage of an assembled approval chain.
type ApprovalStage struct {
	Name        string   `json:"stage"`
	Description string   `json:"description"`
	Approvers   []string `json:"approvers"`
	AutoApprove bool     `json:"auto_approve"`
}

// ApprovalChain is the advisory approval workflow assembled for an
// analysis: which stages the change must pass at its risk level.
type ApprovalChain struct {
	RequiresApproval  bool              `json:"requires_approval"`
	Reason            string            `json:"reason,omitempty"`
	WorkflowID        string            `json:"workflow_id,omitempty"`
	Status            string            `json:"status,omitempty"`
	RiskLevel         catalog.RiskLevel `json:"risk_level"`
	ChangeDescription string            `json:"change_description,omitempty"`
	Stages            []ApprovalStage   `json:"approval_stages,omitempty"`
	EstimatedApproval string            `json:"estimated_approval_time,omitempty"`
	CreatedAt         string            `json:"created_at,omitempty"`
	Note              string            `json:"note,omitempty"`
}

// BuildApprovalChain assembles the policy-based approval workflow for
// an analysis from the catalog's workflow table. A risk level no stage
// requires yields RequiresApproval=false with a reason, not an error.
func (e *Engine) BuildApprovalChain(a AnalysisResult) (ApprovalChain, error) {
	if !a.RiskLevel.Valid() {
		return ApprovalChain{}, fmt.Errorf("approval chain: analysis carries an undefined risk level")
	}

	c := e.store.Snapshot()
	var stages []ApprovalStage
	for _, ws := range c.Workflow {
		for _, level := range ws.RequiredFor {
			if level == a.RiskLevel {
				stages = append(stages, ApprovalStage{
					Name:        ws.Name,
					Description: ws.Description,
					Approvers:   ws.Approvers,
					AutoApprove: ws.AutoApprove,
				})
				break
			}
		}
	}

	if len(stages) == 0 {
		return ApprovalChain{
			RequiresApproval: false,
			RiskLevel:        a.RiskLevel,
			Reason:           "risk level does not require an approval workflow",
		}, nil
	}

	return ApprovalChain{
		RequiresApproval:  true,
		WorkflowID:        "WF-" + newTaskID(),
		Status:            "PENDING_APPROVAL",
		RiskLevel:         a.RiskLevel,
		ChangeDescription: a.ChangeDescription,
		Stages:            stages,
		EstimatedApproval: estimateApprovalTime(len(stages)),
		CreatedAt:         timeNow().UTC().Format(time.RFC3339),
		Note:              c.Persona.Disclaimer,
	}, nil
}

// estimateApprovalTime buckets a rough two-hours-per-stage estimate
// into human terms.
func estimateApprovalTime(stageCount int) string {
	hours := stageCount * 2
	switch {
	case hours <= 4:
		return "Same day"
	case hours <= 24:
		return "Within 24 hours"
	default:
		return fmt.Sprintf("%d business days", hours/24)
	}
}
