package tools

import (
	"context"
	"fmt"

	"github.com/impactsim/impactsim/internal/metrics"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatisticsTool handles the get_analysis_statistics MCP tool.
type StatisticsTool struct {
	store *metrics.Store
}

// NewStatisticsTool creates a StatisticsTool with the metrics store.
func NewStatisticsTool(store *metrics.Store) *StatisticsTool {
	return &StatisticsTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *StatisticsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_analysis_statistics",
		mcp.WithDescription(
			"Get statistics about the analyses this server has performed: "+
				"total count, high-risk percentage, risk distribution, "+
				"most-matched patterns, and recent activity.",
		),
	)
}

// Handle processes the get_analysis_statistics tool call.
func (t *StatisticsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := t.store.Statistics()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get statistics: %v", err)), nil
	}
	return jsonResult(stats)
}
