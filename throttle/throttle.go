package throttle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/devtool-substrate/orchestrator/observability"
)

// Operation is a unit of asynchronous work submitted to a Throttle. It is
// opaque to the throttle beyond its success/failure outcome.
type Operation[T any] func(ctx context.Context) (T, error)

// semState is the swappable pair of semaphore and capacity that SetCapacity
// atomically replaces. See doc.go for why release targets the semState an
// operation acquired against rather than the current one.
type semState struct {
	sem      *semaphore.Weighted
	capacity int64
}

// Throttle bounds concurrent execution to a capacity and records throughput
// metrics. The zero value is not usable; construct with New.
type Throttle struct {
	name     string
	observer observability.Observer

	state atomic.Pointer[semState]
	// stateMu serializes SetCapacity calls against each other; reads of
	// state go through the atomic pointer without taking the lock.
	stateMu sync.Mutex

	counters counters
}

// New constructs a Throttle from cfg. Returns ErrInvalidCapacity if
// cfg.Capacity is not positive.
func New(cfg Config) (*Throttle, error) {
	if cfg.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("throttle: failed to resolve observer: %w", err)
	}

	th := &Throttle{
		name:     cfg.Name,
		observer: observer,
	}
	th.state.Store(&semState{
		sem:      semaphore.NewWeighted(int64(cfg.Capacity)),
		capacity: int64(cfg.Capacity),
	})

	return th, nil
}

// AcquireAndRun waits for a permit, invokes op, and releases the permit on
// every exit path. It updates executed/failed totals and the running mean
// duration regardless of outcome. A context cancelled while waiting for a
// permit returns an error wrapping ctx.Err() without having acquired or
// invoked op.
func AcquireAndRun[T any](ctx context.Context, th *Throttle, op Operation[T]) (T, error) {
	var zero T

	th.observer.OnEvent(ctx, observability.Event{
		Type:      EventAcquireStart,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "throttle.AcquireAndRun",
		Data:      map[string]any{"throttle": th.name},
	})

	acquireState := th.state.Load()
	if err := acquireState.sem.Acquire(ctx, 1); err != nil {
		return zero, fmt.Errorf("throttle: acquire cancelled: %w", err)
	}

	th.counters.inFlight.Add(1)
	start := time.Now()

	value, err := op(ctx)

	elapsed := time.Since(start)
	th.counters.inFlight.Add(-1)
	th.counters.recordCompletion(elapsed, err != nil)

	// Release against the semaphore this operation acquired from, which
	// may no longer be current after a resize (see doc.go).
	acquireState.sem.Release(1)

	th.observer.OnEvent(ctx, observability.Event{
		Type:      EventAcquireComplete,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "throttle.AcquireAndRun",
		Data: map[string]any{
			"throttle": th.name,
			"duration": elapsed,
			"error":    err != nil,
		},
	})

	if err != nil {
		return zero, err
	}
	return value, nil
}

// AcquireAndRunBatch runs every operation through AcquireAndRun concurrently
// — concurrency is bounded only by the throttle's capacity, not by the
// length of ops — and returns values in input order. If any operation
// fails, the first failure by original index is returned as the batch
// error only after every operation has resolved; already-running
// operations are never cancelled because of a sibling's failure.
func AcquireAndRunBatch[T any](ctx context.Context, th *Throttle, ops []Operation[T]) ([]T, error) {
	if len(ops) == 0 {
		return nil, nil
	}

	values := make([]T, len(ops))
	errs := make([]error, len(ops))

	var wg sync.WaitGroup
	wg.Add(len(ops))
	for i, op := range ops {
		go func(i int, op Operation[T]) {
			defer wg.Done()
			v, err := AcquireAndRun(ctx, th, op)
			values[i] = v
			errs[i] = err
		}(i, op)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return values, err
		}
	}
	return values, nil
}

// SetCapacity atomically replaces the throttle's capacity with n, swapping
// in a freshly sized semaphore. Operations already holding a permit from
// the previous semaphore complete normally; future acquisitions block
// against the new limit. Returns ErrInvalidCapacity if n is not positive.
func (th *Throttle) SetCapacity(ctx context.Context, n int) error {
	if n <= 0 {
		return ErrInvalidCapacity
	}

	th.stateMu.Lock()
	th.state.Store(&semState{
		sem:      semaphore.NewWeighted(int64(n)),
		capacity: int64(n),
	})
	th.stateMu.Unlock()

	th.observer.OnEvent(ctx, observability.Event{
		Type:      EventCapacityChanged,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "throttle.SetCapacity",
		Data:      map[string]any{"throttle": th.name, "capacity": n},
	})

	return nil
}

// Metrics returns a point-in-time snapshot of the throttle's state.
func (th *Throttle) Metrics() Metrics {
	state := th.state.Load()
	return Metrics{
		Capacity:      int(state.capacity),
		InFlight:      th.counters.inFlight.Load(),
		ExecutedTotal: th.counters.executedTotal.Load(),
		FailedTotal:   th.counters.failedTotal.Load(),
		MeanDuration:  th.counters.meanDuration(),
	}
}
