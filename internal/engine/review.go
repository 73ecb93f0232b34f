package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/impactsim/impactsim/internal/catalog"
)

// ErrNotEscalated reports caller misuse: packaging a review task from
// an analysis that did not escalate. It never crashes the process; the
// transport layer turns it into a structured error result.
var ErrNotEscalated = errors.New("analysis does not require manual review")

// Test injection points, same trick the rest of the codebase uses for
// sql.Open.
var (
	newTaskID = uuid.NewString
	timeNow   = time.Now
)

// ReviewTask is the advisory descriptor produced for an escalated
// analysis. Unlike AnalysisResult it carries an ID and timestamp; it
// names a unit of human work, not a deterministic computation.
type ReviewTask struct {
	TaskID            string                 `json:"task_id"`
	TaskType          string                 `json:"task_type"`
	Priority          string                 `json:"priority"`
	CreatedAt         string                 `json:"created_at"`
	ChangeDescription string                 `json:"change_description"`
	RiskLevel         catalog.RiskLevel      `json:"risk_level"`
	Action            catalog.AdvisoryAction `json:"advisory_action"`
	Note              string                 `json:"note"`
}

// TaskTypeManualReview is the only task type this server produces.
const TaskTypeManualReview = "MANUAL_REVIEW"

// BuildReviewTask packages an already-escalated analysis into a review
// task descriptor. It performs no new risk evaluation. A non-escalating
// analysis is caller misuse and returns ErrNotEscalated.
func (e *Engine) BuildReviewTask(a AnalysisResult) (ReviewTask, error) {
	if !a.RiskLevel.Valid() {
		return ReviewTask{}, fmt.Errorf("review task: %w", errors.New("analysis carries an undefined risk level"))
	}
	if !a.RequiresReview {
		return ReviewTask{}, fmt.Errorf("review task for %s analysis: %w", a.RiskLevel, ErrNotEscalated)
	}

	c := e.store.Snapshot()
	var action catalog.AdvisoryAction
	if a.Action != nil {
		action = *a.Action
	} else if def, ok := c.DefaultAction(a.RiskLevel); ok {
		action = def
	}
	action.NonExecutable = true

	priority := "MEDIUM"
	if a.RiskLevel == catalog.RiskCritical {
		priority = "HIGH"
	}

	return ReviewTask{
		TaskID:            newTaskID(),
		TaskType:          TaskTypeManualReview,
		Priority:          priority,
		CreatedAt:         timeNow().UTC().Format(time.RFC3339),
		ChangeDescription: a.ChangeDescription,
		RiskLevel:         a.RiskLevel,
		Action:            action,
		Note:              c.Persona.Disclaimer,
	}, nil
}
