package workflow

import "time"

// StepExecutionResult records the outcome of a single completed step.
type StepExecutionResult struct {
	Name     string
	Success  bool
	Error    string
	Duration time.Duration
}

// Result is the outcome of a single Engine.Run call. Steps is ordered by
// completion time within each wave (declaration order for a sequential
// group, actual completion order for a parallel group) — not by
// declaration order across the whole workflow.
type Result struct {
	Success      bool
	Steps        []StepExecutionResult
	FinalContext *Context
	Duration     time.Duration
}
