// Package prompts implements the MCP prompts the server exposes.
//
// Prompts are user-triggered workflows (like slash commands) that
// instruct the AI to run a specific tool sequence, as opposed to tools
// the AI calls on its own.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// AssessPrompt handles the assess-change prompt. It walks the AI
// through a full advisory assessment of a proposed change.
type AssessPrompt struct{}

// NewAssessPrompt creates an AssessPrompt.
func NewAssessPrompt() *AssessPrompt {
	return &AssessPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *AssessPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("assess-change",
		mcp.WithPromptDescription(
			"Assess the risk of a proposed infrastructure change. "+
				"Runs the change through risk analysis, looks up related "+
				"best practices, and creates a review task when the risk "+
				"level requires one.",
		),
		mcp.WithArgument("change_description",
			mcp.ArgumentDescription("Plain-language description of the change, e.g. 'reduce replicas from 3 to 1'"),
		),
	)
}

// Handle processes the assess-change prompt request.
func (p *AssessPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	change := "the change I am about to describe"
	if args := req.Params.Arguments; args != nil {
		if c, ok := args["change_description"]; ok && c != "" {
			change = fmt.Sprintf("'%s'", c)
		}
	}

	return &mcp.GetPromptResult{
		Description: "Advisory change assessment",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want an advisory risk assessment of %s.\n\n"+
						"Please:\n"+
						"1. Run `analyze_change` with my change description\n"+
						"2. Summarize the risk level, expected impacts, and the conditions under which the change is safe\n"+
						"3. Run `search_knowledge` for the change's category and share any relevant best practices\n"+
						"4. If the analysis requires manual review, run `create_review_task` with the analysis result and show me the task\n\n"+
						"Remember this is advisory only; nothing is executed or scheduled.",
					change,
				)),
			},
		},
	}, nil
}
