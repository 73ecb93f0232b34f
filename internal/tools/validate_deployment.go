package tools

import (
	"context"
	"strings"

	"github.com/impactsim/impactsim/internal/pipeline"
	"github.com/mark3labs/mcp-go/mcp"
)

// ValidateDeploymentTool handles the validate_deployment_config MCP
// tool: advisory checks of a deployment manifest for common rollout
// failure modes.
type ValidateDeploymentTool struct{}

// NewValidateDeploymentTool creates a ValidateDeploymentTool.
func NewValidateDeploymentTool() *ValidateDeploymentTool {
	return &ValidateDeploymentTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateDeploymentTool) Definition() mcp.Tool {
	return mcp.NewTool("validate_deployment_config",
		mcp.WithDescription(
			"Validate a deployment configuration for CI/CD use: replica "+
				"count, resource limits, health checks, and production "+
				"readiness. Returns issues, warnings, and a recommendation.",
		),
		mcp.WithObject("config",
			mcp.Required(),
			mcp.Description("Deployment configuration (replicas, environment, resources, healthCheck)."),
		),
	)
}

// Handle processes the validate_deployment_config tool call.
func (t *ValidateDeploymentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var cfg pipeline.DeploymentConfig
	if err := decodeObjectArg(req, "config", &cfg); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(pipeline.ValidateDeployment(cfg))
}

// ValidateStageTool handles the validate_pipeline_stage MCP tool:
// per-stage (dev/staging/production) requirement checks.
type ValidateStageTool struct{}

// NewValidateStageTool creates a ValidateStageTool.
func NewValidateStageTool() *ValidateStageTool {
	return &ValidateStageTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateStageTool) Definition() mcp.Tool {
	return mcp.NewTool("validate_pipeline_stage",
		mcp.WithDescription(
			"Validate a configuration against the requirements of one "+
				"pipeline stage (dev, staging, production). Unknown stages are "+
				"held to production requirements.",
		),
		mcp.WithString("stage",
			mcp.Required(),
			mcp.Description("Pipeline stage: dev, staging, or production."),
		),
		mcp.WithObject("config",
			mcp.Required(),
			mcp.Description("Stage configuration (replicas, healthCheck)."),
		),
	)
}

// Handle processes the validate_pipeline_stage tool call.
func (t *ValidateStageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stage := strings.TrimSpace(req.GetString("stage", ""))
	if stage == "" {
		return mcp.NewToolResultError("'stage' is required; dev, staging, or production"), nil
	}
	var cfg pipeline.DeploymentConfig
	if err := decodeObjectArg(req, "config", &cfg); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(pipeline.ValidateStage(stage, cfg))
}
