package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/devtool-substrate/orchestrator/batch"
	"github.com/devtool-substrate/orchestrator/observability"
	"github.com/devtool-substrate/orchestrator/throttle"
	"github.com/devtool-substrate/orchestrator/tools"
)

// ToolCall names a registered tool and the opaque argument string to pass
// it.
type ToolCall struct {
	Name string
	Args string
}

const eventDispatchStart observability.EventType = "orchestrator.dispatch.start"
const eventDispatchComplete observability.EventType = "orchestrator.dispatch.complete"

// DispatchParallel runs each call in calls through the shared Throttle and
// returns one ToolResult per call, in input order. A call naming an
// unregistered tool yields an inline failure Result — it is never
// attempted and never appears as a batch error — so len(output) ==
// len(calls) always holds. DispatchParallel itself only fails on outer
// cancellation.
func (o *Orchestrator) DispatchParallel(ctx context.Context, calls []ToolCall) ([]tools.Result, error) {
	correlationID := newCorrelationID()

	o.observer.OnEvent(ctx, observability.Event{
		Type:      eventDispatchStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "orchestrator.DispatchParallel",
		Data:      map[string]any{"run_id": correlationID, "call_count": len(calls)},
	})

	ops := make([]batch.Operation[tools.Result], len(calls))
	for i, call := range calls {
		call := call
		ops[i] = func(ctx context.Context) (tools.Result, error) {
			handler, exists := o.tools.Get(call.Name)
			if !exists {
				return tools.Result{Ok: false, Error: fmt.Sprintf("tool not registered: %s", call.Name)}, nil
			}

			result, err := throttle.AcquireAndRun(ctx, o.throttle, func(ctx context.Context) (tools.Result, error) {
				return handler(ctx, call.Args)
			})
			if err != nil {
				return tools.Result{Ok: false, Error: err.Error()}, nil
			}
			return result, nil
		}
	}

	continueOnError := true
	opts := batch.Options{
		MaxParallelism:     len(ops),
		ContinueOnErrorNil: &continueOnError,
		Observer:           "noop",
	}

	result, err := batch.Run(ctx, batch.NewExecutor(), ops, opts, nil)
	if err != nil {
		o.observer.OnEvent(ctx, observability.Event{
			Type:      eventDispatchComplete,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    "orchestrator.DispatchParallel",
			Data:      map[string]any{"run_id": correlationID, "cancelled": true},
		})
		return nil, fmt.Errorf("orchestrator: dispatch cancelled: %w", err)
	}

	o.observer.OnEvent(ctx, observability.Event{
		Type:      eventDispatchComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "orchestrator.DispatchParallel",
		Data:      map[string]any{"run_id": correlationID, "call_count": len(calls)},
	})

	return result.Successes, nil
}
