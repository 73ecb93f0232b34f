package tools

import (
	"context"

	"github.com/impactsim/impactsim/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// ApprovalWorkflowTool handles the create_approval_workflow MCP tool:
// assembling the policy-based approval chain a change must pass at its
// evaluated risk level.
type ApprovalWorkflowTool struct {
	engine *engine.Engine
}

// NewApprovalWorkflowTool creates an ApprovalWorkflowTool.
func NewApprovalWorkflowTool(eng *engine.Engine) *ApprovalWorkflowTool {
	return &ApprovalWorkflowTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *ApprovalWorkflowTool) Definition() mcp.Tool {
	return mcp.NewTool("create_approval_workflow",
		mcp.WithDescription(
			"Create the advisory approval workflow for an analyzed change: "+
				"the approval stages its risk level requires, per the catalog's "+
				"workflow policy. Advisory only; no approvals are requested "+
				"automatically.",
		),
		mcp.WithObject("analysis",
			mcp.Required(),
			mcp.Description("The full analysis object returned by analyze_change."),
		),
	)
}

// Handle processes the create_approval_workflow tool call.
func (t *ApprovalWorkflowTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var analysis engine.AnalysisResult
	if err := decodeObjectArg(req, "analysis", &analysis); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	chain, err := t.engine.BuildApprovalChain(analysis)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(chain)
}
