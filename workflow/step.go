package workflow

import "context"

// StepOutcome is what a step's run function reports. A synchronous error
// returned by Run is captured into StepOutcome{Success: false, ErrorMessage:
// <cause text>} by the engine; Run itself may also construct this directly.
type StepOutcome struct {
	Success      bool
	ErrorMessage string
}

// Run is the function a Step executes. It receives the workflow's shared
// context and the run's cancellation signal; cancellation should propagate
// outward rather than being captured as a StepOutcome.
type Run func(ctx context.Context, wfCtx *Context) (StepOutcome, error)

// Step is a single named unit of work within a Workflow.
type Step struct {
	Name            string
	Predecessors    []string
	ParallelCapable bool
	Run             Run
}

func (s Step) predecessorSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Predecessors))
	for _, p := range s.Predecessors {
		set[p] = struct{}{}
	}
	return set
}
