package workflow

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/devtool-substrate/orchestrator/observability"
)

// Config configures an Engine at construction time.
type Config struct {
	// Observer selects a registered observability.Observer by name.
	Observer string `json:"observer"`
}

// DefaultConfig returns a Config with observability disabled.
func DefaultConfig() Config {
	return Config{Observer: "noop"}
}

func (c *Config) Merge(source *Config) {
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// Engine schedules a Workflow's steps in topological waves, running
// parallel-capable steps within a wave concurrently and all other ready
// steps one at a time.
type Engine struct {
	observer observability.Observer
}

// NewEngine constructs an Engine from cfg.
func NewEngine(cfg Config) (*Engine, error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("workflow: failed to resolve observer: %w", err)
	}
	return &Engine{observer: observer}, nil
}

// Run executes wf to completion or first failure. A well-formed workflow
// with zero steps returns success with an empty step list.
func (e *Engine) Run(ctx context.Context, wf Workflow, progress ProgressFunc) (Result, error) {
	if err := wf.Validate(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	wfCtx := NewContext()

	e.observer.OnEvent(ctx, observability.Event{
		Type:      EventWorkflowStart,
		Level:     observability.LevelInfo,
		Timestamp: start,
		Source:    "workflow.Engine.Run",
		Data:      map[string]any{"workflow": wf.Name, "step_count": len(wf.Steps)},
	})

	if len(wf.Steps) == 0 {
		e.observer.OnEvent(ctx, observability.Event{
			Type:      EventWorkflowComplete,
			Level:     observability.LevelInfo,
			Timestamp: time.Now(),
			Source:    "workflow.Engine.Run",
			Data:      map[string]any{"success": true, "steps_completed": 0},
		})
		return Result{Success: true, Steps: []StepExecutionResult{}, FinalContext: wfCtx}, nil
	}

	executed := make(map[string]struct{}, len(wf.Steps))
	var results []StepExecutionResult

	emitFailure := func(reason string) {
		e.observer.OnEvent(ctx, observability.Event{
			Type:      EventWorkflowComplete,
			Level:     observability.LevelInfo,
			Timestamp: time.Now(),
			Source:    "workflow.Engine.Run",
			Data:      map[string]any{"success": false, "reason": reason, "steps_completed": len(results)},
		})
	}

	for len(executed) < len(wf.Steps) {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("workflow: cancelled: %w", err)
		}

		ready := computeReady(wf.Steps, executed)
		if len(ready) == 0 {
			emitFailure("invariant_violation")
			return Result{}, &InvariantViolation{Message: "no ready steps remain with " + fmt.Sprint(len(wf.Steps)-len(executed)) + " unexecuted — likely a predecessor cycle"}
		}

		var parallelGroup, sequentialGroup []Step
		if len(ready) > 1 {
			for _, s := range ready {
				if s.ParallelCapable {
					parallelGroup = append(parallelGroup, s)
				} else {
					sequentialGroup = append(sequentialGroup, s)
				}
			}
		} else {
			sequentialGroup = ready
		}

		for _, s := range sequentialGroup {
			result, err := e.runStep(ctx, s, wfCtx, progress, len(wf.Steps), len(results))
			if err != nil {
				return Result{}, fmt.Errorf("workflow: cancelled: %w", err)
			}
			results = append(results, result)
			executed[s.Name] = struct{}{}
			if !result.Success {
				emitFailure("step_failed")
				return Result{
					Success:      false,
					Steps:        results,
					FinalContext: wfCtx,
					Duration:     time.Since(start),
				}, nil
			}
		}

		if len(parallelGroup) > 0 {
			parallelResults, anyFailed, cancelErr := e.runParallel(ctx, parallelGroup, wfCtx, progress, len(wf.Steps), len(results))
			if cancelErr != nil {
				return Result{}, fmt.Errorf("workflow: cancelled: %w", cancelErr)
			}
			results = append(results, parallelResults...)
			for _, s := range parallelGroup {
				executed[s.Name] = struct{}{}
			}
			if anyFailed {
				emitFailure("step_failed")
				return Result{
					Success:      false,
					Steps:        results,
					FinalContext: wfCtx,
					Duration:     time.Since(start),
				}, nil
			}
		}
	}

	e.observer.OnEvent(ctx, observability.Event{
		Type:      EventWorkflowComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "workflow.Engine.Run",
		Data:      map[string]any{"success": true, "steps_completed": len(results)},
	})

	return Result{
		Success:      true,
		Steps:        results,
		FinalContext: wfCtx,
		Duration:     time.Since(start),
	}, nil
}

// computeReady returns, in declaration order, every step not yet executed
// whose predecessors are all present in executed.
func computeReady(steps []Step, executed map[string]struct{}) []Step {
	var ready []Step
	for _, s := range steps {
		if _, done := executed[s.Name]; done {
			continue
		}
		preds := s.predecessorSet()
		allSatisfied := true
		for p := range preds {
			if _, ok := executed[p]; !ok {
				allSatisfied = false
				break
			}
		}
		if allSatisfied {
			ready = append(ready, s)
		}
	}
	return ready
}

// runStep invokes s.Run and returns its captured outcome. A non-nil error
// means the run's cancellation was observed and must propagate outward
// rather than be captured as a StepOutcome.
func (e *Engine) runStep(ctx context.Context, s Step, wfCtx *Context, progress ProgressFunc, total, completedSoFar int) (StepExecutionResult, error) {
	e.observer.OnEvent(ctx, observability.Event{
		Type:      EventStepStart,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "workflow.Engine.Run",
		Data:      map[string]any{"step": s.Name},
	})
	if progress != nil {
		progress(Progress{Total: total, Completed: completedSoFar, CurrentStepName: s.Name})
	}

	start := time.Now()
	outcome, err := s.Run(ctx, wfCtx)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return StepExecutionResult{}, err
		}
		outcome = StepOutcome{Success: false, ErrorMessage: err.Error()}
	}

	result := StepExecutionResult{
		Name:     s.Name,
		Success:  outcome.Success,
		Error:    outcome.ErrorMessage,
		Duration: elapsed,
	}

	e.observer.OnEvent(ctx, observability.Event{
		Type:      EventStepComplete,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "workflow.Engine.Run",
		Data:      map[string]any{"step": s.Name, "success": outcome.Success},
	})
	if progress != nil {
		progress(Progress{Total: total, Completed: completedSoFar + 1})
	}

	return result, nil
}

func (e *Engine) runParallel(ctx context.Context, group []Step, wfCtx *Context, progress ProgressFunc, total, completedSoFar int) ([]StepExecutionResult, bool, error) {
	type completion struct {
		result StepExecutionResult
		doneAt time.Time
		failed bool
		err    error
	}

	stepProgress := progress
	if progress != nil {
		var mu sync.Mutex
		completed := completedSoFar
		stepProgress = func(p Progress) {
			mu.Lock()
			defer mu.Unlock()
			if p.CurrentStepName == "" {
				completed++
			}
			p.Completed = completed
			progress(p)
		}
	}

	completions := make(chan completion, len(group))
	var wg sync.WaitGroup
	wg.Add(len(group))
	for _, s := range group {
		go func(s Step) {
			defer wg.Done()
			result, err := e.runStep(ctx, s, wfCtx, stepProgress, total, completedSoFar)
			completions <- completion{result: result, doneAt: time.Now(), failed: !result.Success, err: err}
		}(s)
	}

	go func() {
		wg.Wait()
		close(completions)
	}()

	var all []completion
	for c := range completions {
		all = append(all, c)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].doneAt.Before(all[j].doneAt)
	})

	var cancelErr error
	results := make([]StepExecutionResult, 0, len(all))
	anyFailed := false
	for _, c := range all {
		if c.err != nil {
			if cancelErr == nil {
				cancelErr = c.err
			}
			continue
		}
		results = append(results, c.result)
		if c.failed {
			anyFailed = true
		}
	}

	return results, anyFailed, cancelErr
}
