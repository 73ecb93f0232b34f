package tools

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/impactsim/impactsim/internal/catalog"
	"github.com/impactsim/impactsim/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// Recorder receives analysis outcomes for statistics. Satisfied by
// *metrics.Store; nil disables recording.
type Recorder interface {
	RecordAnalysis(pattern, riskLevel string, escalated bool) error
}

// AnalyzeChangeTool handles the analyze_change MCP tool: the full
// match → evaluate → decide → assemble pipeline over one catalog
// snapshot.
type AnalyzeChangeTool struct {
	engine   *engine.Engine
	recorder Recorder // nullable; analysis works without metrics
}

// NewAnalyzeChangeTool creates an AnalyzeChangeTool with its
// dependencies. recorder may be nil.
func NewAnalyzeChangeTool(eng *engine.Engine, recorder Recorder) *AnalyzeChangeTool {
	return &AnalyzeChangeTool{engine: eng, recorder: recorder}
}

// Definition returns the MCP tool definition for registration.
func (t *AnalyzeChangeTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_change",
		mcp.WithDescription(
			"Analyze a proposed infrastructure change and assess its risk. "+
				"Matches the description against known change patterns, resolves a "+
				"risk level with impacts and safeguards, and flags whether the "+
				"change requires manual review. Advisory only; nothing is executed.",
		),
		mcp.WithString("change_description",
			mcp.Required(),
			mcp.Description("Free-text description of the proposed change, "+
				"e.g. 'reduce replicas from 3 to 1 for the checkout service'."),
		),
		mcp.WithString("risk_threshold",
			mcp.Description("Optional per-request escalation threshold. "+
				"Defaults to the catalog's configured threshold."),
			mcp.Enum(catalog.LevelNames()...),
		),
	)
}

// Handle processes the analyze_change tool call.
func (t *AnalyzeChangeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	desc := strings.TrimSpace(req.GetString("change_description", ""))
	if desc == "" {
		return mcp.NewToolResultError("'change_description' is required; describe the change to analyze"), nil
	}

	var result engine.AnalysisResult
	if raw := req.GetString("risk_threshold", ""); raw != "" {
		threshold, err := catalog.ParseRiskLevel(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid risk_threshold: %v", err)), nil
		}
		result = t.engine.AnalyzeAt(desc, threshold)
	} else {
		result = t.engine.Analyze(desc)
	}

	// Statistics are best-effort: a metrics failure never fails the
	// analysis itself.
	if t.recorder != nil {
		if err := t.recorder.RecordAnalysis(result.MatchedPattern, result.RiskLevel.String(), result.RequiresReview); err != nil {
			log.Printf("WARNING: recording analysis metrics: %v", err)
		}
	}

	return jsonResult(result)
}
