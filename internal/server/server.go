// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it loads the catalog, builds the engine,
// and injects them into the tools/prompts/resources. No business logic
// lives here; only wiring.
package server

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/impactsim/impactsim/internal/catalog"
	"github.com/impactsim/impactsim/internal/engine"
	"github.com/impactsim/impactsim/internal/metrics"
	"github.com/impactsim/impactsim/internal/prompts"
	"github.com/impactsim/impactsim/internal/resources"
	"github.com/impactsim/impactsim/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Options configure the server at startup. Zero values mean the
// embedded default catalog with its own threshold.
type Options struct {
	// ConfigDir overrides the embedded catalog with tables loaded
	// from a directory.
	ConfigDir string

	// Industry selects industry-specific table variants when present.
	Industry string

	// RiskThreshold overrides the catalog's escalation threshold.
	// Empty keeps the catalog value.
	RiskThreshold string

	// MetricsPath is the statistics database path. Empty means an
	// in-memory database that lives for the process lifetime.
	MetricsPath string
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered.
//
// The returned cleanup function closes the statistics store and must
// be called on shutdown (typically via defer). It is always non-nil
// and safe to call even if statistics init failed.
func New(opts Options) (*server.MCPServer, func(), error) {
	// --- Load the catalog ---

	cat, err := catalog.Load(opts.ConfigDir, opts.Industry)
	if err != nil {
		return nil, noop, fmt.Errorf("loading catalog: %w", err)
	}

	if opts.RiskThreshold != "" {
		threshold, err := catalog.ParseRiskLevel(opts.RiskThreshold)
		if err != nil {
			return nil, noop, fmt.Errorf("risk threshold override: %w", err)
		}
		cat.Threshold = threshold
	}

	store := catalog.NewStore(cat)
	eng := engine.New(store)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"impactsim",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions(cat)),
	)

	// --- Statistics store ---
	//
	// Statistics are an independent subsystem: if the store fails to
	// initialize, analysis tools continue working without recording.
	// We log a warning and skip the statistics tool and resource.

	cleanup := noop
	metricsCfg := metrics.DefaultConfig()
	metricsCfg.Path = opts.MetricsPath
	metricsStore, metricsErr := metrics.New(metricsCfg)
	if metricsErr != nil {
		log.Printf("WARNING: statistics subsystem disabled: %v", metricsErr)
		metricsStore = nil
	} else {
		cleanup = func() {
			if err := metricsStore.Close(); err != nil {
				log.Printf("WARNING: statistics store close: %v", err)
			}
		}
	}

	// --- Register analysis tools ---

	var recorder tools.Recorder
	if metricsStore != nil {
		recorder = metricsStore
	}

	analyzeTool := tools.NewAnalyzeChangeTool(eng, recorder)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	searchTool := tools.NewSearchKnowledgeTool(eng)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	reviewTool := tools.NewCreateReviewTaskTool(eng)
	s.AddTool(reviewTool.Definition(), reviewTool.Handle)

	listTool := tools.NewListChangesTool(eng)
	s.AddTool(listTool.Definition(), listTool.Handle)

	workflowTool := tools.NewApprovalWorkflowTool(eng)
	s.AddTool(workflowTool.Definition(), workflowTool.Handle)

	if metricsStore != nil {
		statsTool := tools.NewStatisticsTool(metricsStore)
		s.AddTool(statsTool.Definition(), statsTool.Handle)
	}

	// --- Register deployment validation tools ---

	validateTool := tools.NewValidateDeploymentTool()
	s.AddTool(validateTool.Definition(), validateTool.Handle)

	stageTool := tools.NewValidateStageTool()
	s.AddTool(stageTool.Definition(), stageTool.Handle)

	// --- Register prompts ---

	assessPrompt := prompts.NewAssessPrompt()
	s.AddPrompt(assessPrompt.Definition(), assessPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(store, metricsStore)
	for _, res := range resourceHandler.CatalogResources() {
		s.AddResource(res, resourceHandler.HandleCatalog)
	}
	if metricsStore != nil {
		s.AddResource(resourceHandler.StatisticsResource(), resourceHandler.HandleStatistics)
	}

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when the
// statistics store is disabled or hasn't been initialized.
func noop() {}

// serverInstructions tells the AI what the server does and, more
// importantly, what it never does.
func serverInstructions(c *catalog.Catalog) string {
	return fmt.Sprintf(`You have access to %s, an advisory change impact analysis MCP server.

## What it does
Given a plain-language description of an infrastructure change, the server
matches it against a catalog of known change patterns, assigns a risk level
(LOW, MEDIUM, HIGH, CRITICAL), and tells you the expected impacts, the
conditions under which the change is safe, and the safeguards to apply.

## Tools
- analyze_change: assess a described change. Start here.
- search_knowledge: look up operational best practices by keyword.
- create_review_task: turn an escalated analysis into a review task.
  Only valid when the analysis has requires_manual_review set; calling
  it for a non-escalated analysis returns an error.
- create_approval_workflow: build the approval chain an escalated change
  must pass through.
- list_supported_changes: enumerate the change patterns the catalog knows.
- validate_deployment_config / validate_pipeline_stage: check a deployment
  configuration against baseline availability requirements.

## Important
- %s
- Every recommendation is advisory. Present analysis results to the user
  as guidance, never as actions the server has taken.
- If a change is not recognized, the server still answers with a
  conservative default risk level; say so explicitly when relaying it.`,
		"impactsim", c.Persona.Disclaimer)
}
