package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/impactsim/impactsim/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// CreateReviewTaskTool handles the create_review_task MCP tool: pure
// packaging of an escalated analysis into an advisory review task
// descriptor. Calling it with a non-escalating analysis is caller
// misuse and returns a tool error result.
type CreateReviewTaskTool struct {
	engine *engine.Engine
}

// NewCreateReviewTaskTool creates a CreateReviewTaskTool.
func NewCreateReviewTaskTool(eng *engine.Engine) *CreateReviewTaskTool {
	return &CreateReviewTaskTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateReviewTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("create_review_task",
		mcp.WithDescription(
			"Create an advisory review task from an analysis produced by "+
				"analyze_change. Only valid for analyses flagged "+
				"requires_manual_review=true. The task is a descriptor for "+
				"humans; no automation is triggered.",
		),
		mcp.WithObject("analysis",
			mcp.Required(),
			mcp.Description("The full analysis object returned by analyze_change."),
		),
	)
}

// Handle processes the create_review_task tool call.
func (t *CreateReviewTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var analysis engine.AnalysisResult
	if err := decodeObjectArg(req, "analysis", &analysis); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := t.engine.BuildReviewTask(analysis)
	if err != nil {
		if errors.Is(err, engine.ErrNotEscalated) {
			return mcp.NewToolResultError(fmt.Sprintf(
				"%v; only analyses with requires_manual_review=true can become review tasks", err)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(task)
}
