package batch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/devtool-substrate/orchestrator/observability"
)

// Operation is a unit of work submitted to a batch. It is opaque to the
// executor beyond its success/failure outcome.
type Operation[T any] func(ctx context.Context) (T, error)

type indexedOp[T any] struct {
	index int
	op    Operation[T]
}

type indexedOutcome[T any] struct {
	index int
	value T
	err   error
}

// Executor runs ordered, independent operations with bounded parallelism.
// The zero value is usable; Executor holds no state between Run calls.
type Executor struct{}

// NewExecutor constructs an Executor. It exists for symmetry with the
// other components' constructors and to leave room for future shared
// configuration without breaking callers.
func NewExecutor() *Executor {
	return &Executor{}
}

// Run executes ops with bounded parallelism per opts and returns an
// ordered Result. On cancellation or a fail-fast abort, Run returns a
// zero Result alongside the error rather than a partial one.
func Run[T any](ctx context.Context, e *Executor, ops []Operation[T], opts Options, progress ProgressFunc) (Result[T], error) {
	observer, err := observability.GetObserver(opts.Observer)
	if err != nil {
		return Result[T]{}, fmt.Errorf("batch: failed to resolve observer: %w", err)
	}

	start := time.Now()

	if len(ops) == 0 {
		observer.OnEvent(ctx, observability.Event{
			Type:      EventBatchStart,
			Level:     observability.LevelInfo,
			Timestamp: start,
			Source:    "batch.Run",
			Data:      map[string]any{"operation_count": 0},
		})
		observer.OnEvent(ctx, observability.Event{
			Type:      EventBatchComplete,
			Level:     observability.LevelInfo,
			Timestamp: time.Now(),
			Source:    "batch.Run",
			Data:      map[string]any{"succeeded": 0, "failed": 0},
		})
		return Result[T]{Successes: []T{}, Errors: []ExecutionError{}}, nil
	}

	workers := effectiveParallelism(opts.MaxParallelism, len(ops))
	continueOnError := opts.ContinueOnError()

	observer.OnEvent(ctx, observability.Event{
		Type:      EventBatchStart,
		Level:     observability.LevelInfo,
		Timestamp: start,
		Source:    "batch.Run",
		Data: map[string]any{
			"operation_count":   len(ops),
			"workers":           workers,
			"continue_on_error": continueOnError,
		},
	})

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	workQueue := make(chan indexedOp[T], len(ops))
	outcomes := make(chan indexedOutcome[T], len(ops))

	for i, op := range ops {
		workQueue <- indexedOp[T]{index: i, op: op}
	}
	close(workQueue)

	var wg sync.WaitGroup
	var completed, failed atomic.Int64
	var abortOnce sync.Once
	var abortErr atomic.Pointer[ExecutionError]
	var progressMu sync.Mutex

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for work := range workQueue {
				select {
				case <-runCtx.Done():
					return
				default:
				}

				opCtx := runCtx
				var cancelOp context.CancelFunc
				if opts.PerOpTimeout > 0 {
					opCtx, cancelOp = context.WithTimeout(runCtx, time.Duration(opts.PerOpTimeout)*time.Millisecond)
				}

				value, opErr := work.op(opCtx)
				if cancelOp != nil {
					cancelOp()
				}

				progressMu.Lock()
				n := completed.Add(1)
				if opErr != nil {
					failed.Add(1)
				}

				observer.OnEvent(ctx, observability.Event{
					Type:      EventOperationComplete,
					Level:     observability.LevelVerbose,
					Timestamp: time.Now(),
					Source:    "batch.Run",
					Data: map[string]any{
						"operation_index": work.index,
						"error":           opErr != nil,
					},
				})

				if progress != nil {
					progress(Progress{
						Total:     len(ops),
						Completed: int(n),
						Failed:    int(failed.Load()),
					})
				}
				progressMu.Unlock()

				outcomes <- indexedOutcome[T]{index: work.index, value: value, err: opErr}

				if opErr != nil && !continueOnError {
					execErr := &ExecutionError{OperationIndex: work.index, Cause: opErr, Message: opErr.Error()}
					abortOnce.Do(func() {
						abortErr.Store(execErr)
						cancelRun()
					})
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	values := make(map[int]T, len(ops))
	errs := make(map[int]error, len(ops))
	for outcome := range outcomes {
		if outcome.err != nil {
			errs[outcome.index] = outcome.err
		} else {
			values[outcome.index] = outcome.value
		}
	}

	duration := time.Since(start)

	if ctx.Err() != nil {
		observer.OnEvent(ctx, observability.Event{
			Type:      EventBatchComplete,
			Level:     observability.LevelInfo,
			Timestamp: time.Now(),
			Source:    "batch.Run",
			Data:      map[string]any{"cancelled": true},
		})
		return Result[T]{}, fmt.Errorf("batch: cancelled: %w", ctx.Err())
	}

	if first := abortErr.Load(); first != nil {
		observer.OnEvent(ctx, observability.Event{
			Type:      EventBatchComplete,
			Level:     observability.LevelInfo,
			Timestamp: time.Now(),
			Source:    "batch.Run",
			Data:      map[string]any{"aborted": true},
		})
		return Result[T]{}, &FailFastError{First: first}
	}

	successes := make([]T, 0, len(values))
	errors := make([]ExecutionError, 0, len(errs))
	for i := 0; i < len(ops); i++ {
		if v, ok := values[i]; ok {
			successes = append(successes, v)
		}
		if e, ok := errs[i]; ok {
			errors = append(errors, ExecutionError{OperationIndex: i, Cause: e, Message: e.Error()})
		}
	}

	observer.OnEvent(ctx, observability.Event{
		Type:      EventBatchComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "batch.Run",
		Data: map[string]any{
			"succeeded": len(successes),
			"failed":    len(errors),
		},
	})

	return Result[T]{
		Successes: successes,
		Errors:    errors,
		Submitted: len(ops),
		Succeeded: len(successes),
		Duration:  duration,
	}, nil
}
