package tools

import (
	"context"
	"strings"

	"github.com/impactsim/impactsim/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// SearchKnowledgeTool handles the search_knowledge MCP tool: keyword
// search over the best-practice knowledge base, independent of change
// patterns.
type SearchKnowledgeTool struct {
	engine *engine.Engine
}

// NewSearchKnowledgeTool creates a SearchKnowledgeTool.
func NewSearchKnowledgeTool(eng *engine.Engine) *SearchKnowledgeTool {
	return &SearchKnowledgeTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchKnowledgeTool) Definition() mcp.Tool {
	return mcp.NewTool("search_knowledge",
		mcp.WithDescription(
			"Search the engineering knowledge base for best practices and "+
				"known failure modes. Returns entries ranked by keyword overlap "+
				"with the query; an empty list means nothing matched.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query, e.g. 'backup policy' or 'dns cutover'."),
		),
	)
}

// knowledgeResult is the flattened per-entry response shape.
type knowledgeResult struct {
	ID      string `json:"id"`
	Topic   string `json:"topic"`
	Content string `json:"content"`
	Score   int    `json:"score"`
}

// Handle processes the search_knowledge tool call.
func (t *SearchKnowledgeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := strings.TrimSpace(req.GetString("query", ""))
	if query == "" {
		return mcp.NewToolResultError("'query' is required; what do you want to look up?"), nil
	}

	matches := t.engine.SearchKnowledge(query)
	results := make([]knowledgeResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, knowledgeResult{
			ID:      m.Entry.ID,
			Topic:   m.Entry.Topic,
			Content: m.Entry.Content,
			Score:   m.Score,
		})
	}
	return jsonResult(results)
}
