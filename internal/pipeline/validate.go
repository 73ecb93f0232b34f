// Package pipeline validates deployment configurations for CI/CD use.
// Like everything else in this server the checks are advisory: the
// report recommends blocking or proceeding, it never gates anything
// itself.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/impactsim/impactsim/internal/catalog"
)

// DeploymentConfig is the subset of a deployment manifest the validator
// inspects. Unknown fields are ignored.
type DeploymentConfig struct {
	Replicas    int    `json:"replicas"`
	Environment string `json:"environment"`
	Resources   struct {
		Limits map[string]string `json:"limits"`
	} `json:"resources"`
	HealthCheck map[string]any `json:"healthCheck"`
}

// Issue is one finding against a deployment configuration.
type Issue struct {
	Severity       catalog.RiskLevel `json:"severity"`
	Field          string            `json:"field"`
	Message        string            `json:"message"`
	Recommendation string            `json:"recommendation,omitempty"`
}

// Summary counts findings by class.
type Summary struct {
	TotalIssues    int `json:"total_issues"`
	TotalWarnings  int `json:"total_warnings"`
	BlockingIssues int `json:"blocking_issues"`
}

// Report is the full validation result for a deployment configuration.
type Report struct {
	Valid          bool    `json:"valid"`
	Environment    string  `json:"environment"`
	Issues         []Issue `json:"issues"`
	Warnings       []Issue `json:"warnings"`
	Summary        Summary `json:"summary"`
	Recommendation string  `json:"recommendation"`
}

// Replica thresholds: below minReplicas is an issue, below
// optimalReplicas a warning.
const (
	minReplicas     = 2
	optimalReplicas = 3
)

// ValidateDeployment checks a deployment configuration for the failure
// modes that most often cause rollout incidents: single-replica
// deployments, missing resource limits, and missing health checks.
func ValidateDeployment(cfg DeploymentConfig) Report {
	var issues, warnings []Issue

	switch {
	case cfg.Replicas < minReplicas:
		issues = append(issues, Issue{
			Severity:       catalog.RiskHigh,
			Field:          "replicas",
			Message:        fmt.Sprintf("replica count (%d) is below the recommended minimum of %d", cfg.Replicas, minReplicas),
			Recommendation: fmt.Sprintf("increase replicas to at least %d for high availability", minReplicas),
		})
	case cfg.Replicas < optimalReplicas:
		warnings = append(warnings, Issue{
			Severity:       catalog.RiskMedium,
			Field:          "replicas",
			Message:        fmt.Sprintf("replica count (%d) is below the optimal count of %d", cfg.Replicas, optimalReplicas),
			Recommendation: fmt.Sprintf("consider %d replicas for better fault tolerance", optimalReplicas),
		})
	}

	if len(cfg.Resources.Limits) == 0 {
		warnings = append(warnings, Issue{
			Severity:       catalog.RiskMedium,
			Field:          "resources.limits",
			Message:        "no resource limits defined",
			Recommendation: "define CPU and memory limits to prevent resource exhaustion",
		})
	}

	if len(cfg.HealthCheck) == 0 {
		issues = append(issues, Issue{
			Severity:       catalog.RiskMedium,
			Field:          "healthCheck",
			Message:        "no health check configured",
			Recommendation: "add liveness and readiness probes",
		})
	}

	env := cfg.Environment
	if env == "" {
		env = "unknown"
	}
	if strings.EqualFold(env, "production") && len(issues) > 0 {
		issues = append(issues, Issue{
			Severity:       catalog.RiskCritical,
			Field:          "environment",
			Message:        "production deployment has blocking issues",
			Recommendation: "resolve all findings before deploying to production",
		})
	}

	blocking := 0
	for _, i := range issues {
		if i.Severity >= catalog.RiskHigh {
			blocking++
		}
	}

	recommendation := "APPROVED"
	switch {
	case len(issues) > 0:
		recommendation = "BLOCK DEPLOYMENT"
	case len(warnings) > 0:
		recommendation = "PROCEED WITH CAUTION"
	}

	return Report{
		Valid:       len(issues) == 0,
		Environment: env,
		Issues:      issues,
		Warnings:    warnings,
		Summary: Summary{
			TotalIssues:    len(issues),
			TotalWarnings:  len(warnings),
			BlockingIssues: blocking,
		},
		Recommendation: recommendation,
	}
}

// StageReport is the per-pipeline-stage validation result.
type StageReport struct {
	Stage  string  `json:"stage"`
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

type stageRequirements struct {
	minReplicas        int
	requireHealthCheck bool
}

// Unknown stages get production requirements; the strictest set.
var stageConfigs = map[string]stageRequirements{
	"dev":        {minReplicas: 1, requireHealthCheck: false},
	"staging":    {minReplicas: 2, requireHealthCheck: true},
	"production": {minReplicas: 3, requireHealthCheck: true},
}

// ValidateStage checks a configuration against the requirements of one
// pipeline stage (dev, staging, production).
func ValidateStage(stage string, cfg DeploymentConfig) StageReport {
	req, ok := stageConfigs[strings.ToLower(stage)]
	if !ok {
		req = stageConfigs["production"]
	}

	var issues []Issue
	if cfg.Replicas < req.minReplicas {
		issues = append(issues, Issue{
			Severity: catalog.RiskHigh,
			Field:    "replicas",
			Message:  fmt.Sprintf("%s requires at least %d replicas", stage, req.minReplicas),
		})
	}
	if req.requireHealthCheck && len(cfg.HealthCheck) == 0 {
		issues = append(issues, Issue{
			Severity: catalog.RiskHigh,
			Field:    "healthCheck",
			Message:  fmt.Sprintf("%s requires a health check configuration", stage),
		})
	}

	return StageReport{Stage: stage, Valid: len(issues) == 0, Issues: issues}
}
