package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devtool-substrate/orchestrator/observability"
	"github.com/devtool-substrate/orchestrator/throttle"
	"github.com/devtool-substrate/orchestrator/tools"
	"github.com/devtool-substrate/orchestrator/workflow"
)

const eventWorkflowDispatchStart observability.EventType = "orchestrator.workflow.start"
const eventWorkflowDispatchComplete observability.EventType = "orchestrator.workflow.complete"

// RunWorkflow delegates wf to the WorkflowEngine, routing every step's Run
// through the shared Throttle so capacity limits apply globally, and
// summarizes the outcome into a single ToolResult: on success, Content
// reports "{succeeded}/{total} in {duration}"; on failure, Error names the
// step(s) that failed.
func (o *Orchestrator) RunWorkflow(ctx context.Context, wf workflow.Workflow) (tools.Result, error) {
	correlationID := newCorrelationID()

	o.observer.OnEvent(ctx, observability.Event{
		Type:      eventWorkflowDispatchStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "orchestrator.RunWorkflow",
		Data:      map[string]any{"run_id": correlationID, "workflow": wf.Name, "step_count": len(wf.Steps)},
	})

	throttled := throttleSteps(wf, o.throttle)

	result, err := o.engine.Run(ctx, throttled, nil)
	if err != nil {
		o.observer.OnEvent(ctx, observability.Event{
			Type:      eventWorkflowDispatchComplete,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    "orchestrator.RunWorkflow",
			Data:      map[string]any{"run_id": correlationID, "cancelled": true},
		})
		return tools.Result{}, fmt.Errorf("orchestrator: workflow run failed: %w", err)
	}

	o.observer.OnEvent(ctx, observability.Event{
		Type:      eventWorkflowDispatchComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "orchestrator.RunWorkflow",
		Data:      map[string]any{"run_id": correlationID, "success": result.Success},
	})

	if result.Success {
		return tools.Result{
			Ok:      true,
			Content: fmt.Sprintf("%d/%d steps succeeded in %s", len(result.Steps), len(wf.Steps), result.Duration),
		}, nil
	}

	var failed []string
	for _, s := range result.Steps {
		if !s.Success {
			failed = append(failed, s.Name)
		}
	}
	return tools.Result{
		Ok:    false,
		Error: fmt.Sprintf("step(s) failed: %s", strings.Join(failed, ", ")),
	}, nil
}

// throttleSteps returns a copy of wf whose steps acquire a permit from th
// before running, so workflow step execution shares the orchestrator's
// single global concurrency limit with dispatch_parallel.
func throttleSteps(wf workflow.Workflow, th *throttle.Throttle) workflow.Workflow {
	steps := make([]workflow.Step, len(wf.Steps))
	for i, s := range wf.Steps {
		run := s.Run
		steps[i] = workflow.Step{
			Name:            s.Name,
			Predecessors:    s.Predecessors,
			ParallelCapable: s.ParallelCapable,
			Run: func(ctx context.Context, wfCtx *workflow.Context) (workflow.StepOutcome, error) {
				return throttle.AcquireAndRun(ctx, th, func(ctx context.Context) (workflow.StepOutcome, error) {
					return run(ctx, wfCtx)
				})
			},
		}
	}
	return workflow.Workflow{Name: wf.Name, Steps: steps}
}
