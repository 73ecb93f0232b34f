// Package resources exposes the loaded catalog tables and runtime
// statistics as MCP resources.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/impactsim/impactsim/internal/catalog"
	"github.com/impactsim/impactsim/internal/metrics"
)

// Handler serves read-only views of the catalog and, when a metrics
// store is attached, the aggregated analysis statistics.
type Handler struct {
	store   *catalog.Store
	metrics *metrics.Store
}

// NewHandler creates a resource handler. metrics may be nil when the
// statistics store is unavailable.
func NewHandler(store *catalog.Store, metrics *metrics.Store) *Handler {
	return &Handler{store: store, metrics: metrics}
}

// catalogTables maps resource URIs to a description of what the table
// holds. The URI suffix matches the catalog file the table came from.
var catalogTables = []struct {
	uri, name, description string
}{
	{"config://change_patterns", "Change Patterns", "Recognized change patterns with keywords, base risk levels, impacts, safe conditions, and safeguards"},
	{"config://risk_definitions", "Risk Definitions", "Risk levels, their descriptions, the escalation threshold, and the unknown-change fallback level"},
	{"config://knowledge_base", "Knowledge Base", "Operational best-practice entries searchable by keyword"},
	{"config://intents", "Intents", "Example phrasings mapped to the tool that serves them"},
	{"config://actions", "Advisory Actions", "Advisory review actions a caller may take; none are executed by this server"},
	{"config://workflows", "Approval Workflow", "Approval stages and the risk levels that require each stage"},
	{"config://persona", "Persona", "The advisory persona and disclaimer attached to analysis results"},
}

// CatalogResources returns one resource definition per catalog table.
func (h *Handler) CatalogResources() []mcp.Resource {
	out := make([]mcp.Resource, 0, len(catalogTables))
	for _, t := range catalogTables {
		out = append(out, mcp.NewResource(
			t.uri,
			t.name,
			mcp.WithResourceDescription(t.description),
			mcp.WithMIMEType("application/json"),
		))
	}
	return out
}

// HandleCatalog serves a catalog table as JSON. The snapshot is taken
// once per read, so a concurrent reload cannot tear the view.
func (h *Handler) HandleCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	c := h.store.Snapshot()

	var v any
	switch req.Params.URI {
	case "config://change_patterns":
		v = struct {
			Categories map[string]catalog.AdjustmentRule `json:"categories"`
			Patterns   []catalog.ChangePattern           `json:"patterns"`
		}{c.Categories, c.Patterns}
	case "config://risk_definitions":
		v = struct {
			Threshold    catalog.RiskLevel                          `json:"threshold"`
			UnknownLevel catalog.RiskLevel                          `json:"unknown_level"`
			Levels       map[catalog.RiskLevel]catalog.RiskDefinition `json:"levels"`
		}{c.Threshold, c.UnknownLevel, c.Risks}
	case "config://knowledge_base":
		v = c.Knowledge
	case "config://intents":
		v = c.Intents
	case "config://actions":
		v = c.Actions
	case "config://workflows":
		v = c.Workflow
	case "config://persona":
		v = c.Persona
	default:
		return nil, fmt.Errorf("unknown catalog resource %q", req.Params.URI)
	}

	return jsonContents(req.Params.URI, v)
}

// StatisticsResource describes the aggregated analysis statistics.
func (h *Handler) StatisticsResource() mcp.Resource {
	return mcp.NewResource(
		"metrics://statistics",
		"Analysis Statistics",
		mcp.WithResourceDescription("Aggregated counts of analyses performed since startup: risk distribution, top patterns, and recent analyses"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStatistics serves the current statistics snapshot.
func (h *Handler) HandleStatistics(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.metrics == nil {
		return nil, fmt.Errorf("statistics store is not available")
	}
	stats, err := h.metrics.Statistics()
	if err != nil {
		return nil, fmt.Errorf("collecting statistics: %w", err)
	}
	return jsonContents(req.Params.URI, stats)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding resource %q: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
