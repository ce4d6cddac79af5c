package workflow

import "github.com/devtool-substrate/orchestrator/observability"

const (
	// EventWorkflowStart fires once before the first wave is scheduled.
	EventWorkflowStart observability.EventType = "workflow.start"

	// EventStepStart fires immediately before a step's Run is invoked.
	EventStepStart observability.EventType = "workflow.step.start"

	// EventStepComplete fires after a step resolves, successfully or not.
	EventStepComplete observability.EventType = "workflow.step.complete"

	// EventWorkflowComplete fires once the run terminates, by success,
	// step failure, or invariant violation.
	EventWorkflowComplete observability.EventType = "workflow.complete"
)
