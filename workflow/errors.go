package workflow

// ValidationError reports a malformed Workflow, discovered before any step
// runs: a duplicate step name or a predecessor that names no step.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "workflow: invalid workflow: " + e.Message
}

// InvariantViolation is raised when a wave computes an empty ready set
// while steps remain unexecuted — only possible if the workflow's
// predecessor graph contains a cycle, since Validate already guarantees
// every predecessor name resolves.
type InvariantViolation struct {
	Message string
}

func (e *InvariantViolation) Error() string {
	return "workflow: invariant violation: " + e.Message
}
