package tools

import (
	"context"

	"github.com/impactsim/impactsim/internal/catalog"
	"github.com/impactsim/impactsim/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListChangesTool handles the list_supported_changes MCP tool:
// introspection over the pattern catalog, one entry per loaded pattern.
// No matching logic runs.
type ListChangesTool struct {
	engine *engine.Engine
}

// NewListChangesTool creates a ListChangesTool.
func NewListChangesTool(eng *engine.Engine) *ListChangesTool {
	return &ListChangesTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *ListChangesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_supported_changes",
		mcp.WithDescription(
			"List every change pattern this server can recognize, with its "+
				"category, base risk level, and an example phrasing.",
		),
	)
}

// supportedChange is the per-pattern response shape.
type supportedChange struct {
	ID          string            `json:"id"`
	Category    string            `json:"category"`
	RiskLevel   catalog.RiskLevel `json:"risk_level"`
	Description string            `json:"description"`
	Example     string            `json:"example"`
}

// Handle processes the list_supported_changes tool call.
func (t *ListChangesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patterns := t.engine.Catalog().Patterns
	changes := make([]supportedChange, 0, len(patterns))
	for _, p := range patterns {
		changes = append(changes, supportedChange{
			ID:          p.ID,
			Category:    p.Category,
			RiskLevel:   p.RiskLevel,
			Description: p.Description,
			Example:     p.Example,
		})
	}
	return jsonResult(changes)
}
