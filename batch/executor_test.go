package batch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devtool-substrate/orchestrator/batch"
)

func TestRun_EmptyInput(t *testing.T) {
	ctx := context.Background()
	opts := batch.DefaultOptions()

	result, err := batch.Run(ctx, batch.NewExecutor(), []batch.Operation[int]{}, opts, nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(result.Successes) != 0 || len(result.Errors) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if result.Duration != 0 {
		t.Errorf("expected zero duration, got %v", result.Duration)
	}
}

// Scenario A — parallelism 2, all succeed.
func TestRun_ScenarioA_AllSucceed(t *testing.T) {
	ctx := context.Background()
	continueOnError := true
	opts := batch.Options{MaxParallelism: 2, ContinueOnErrorNil: &continueOnError, Observer: "noop"}

	ops := make([]batch.Operation[int], 5)
	for i := range ops {
		i := i
		ops[i] = func(ctx context.Context) (int, error) {
			time.Sleep(50 * time.Millisecond)
			return i * 2, nil
		}
	}

	start := time.Now()
	result, err := batch.Run(ctx, batch.NewExecutor(), ops, opts, nil)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	want := []int{0, 2, 4, 6, 8}
	if len(result.Successes) != len(want) {
		t.Fatalf("expected %d successes, got %d", len(want), len(result.Successes))
	}
	for i, v := range want {
		if result.Successes[i] != v {
			t.Errorf("Successes[%d] = %d, want %d", i, result.Successes[i], v)
		}
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %d", len(result.Errors))
	}
	if elapsed < 100*time.Millisecond {
		t.Errorf("elapsed %v, want >= 100ms (5 ops at parallelism 2 need ceil(5/2)=3 rounds of 50ms)", elapsed)
	}
	if elapsed >= 500*time.Millisecond {
		t.Errorf("elapsed %v, want < 500ms", elapsed)
	}
}

// Scenario B — mixed outcomes, continue-on-error.
func TestRun_ScenarioB_MixedOutcomesContinueOnError(t *testing.T) {
	ctx := context.Background()
	opts := batch.DefaultOptions()
	opts.MaxParallelism = 5

	failing := errors.New("operation failed")
	ops := make([]batch.Operation[int], 5)
	for i := range ops {
		i := i
		ops[i] = func(ctx context.Context) (int, error) {
			if i%2 == 0 {
				return 0, failing
			}
			return i * 2, nil
		}
	}

	result, err := batch.Run(ctx, batch.NewExecutor(), ops, opts, nil)
	if err != nil {
		t.Fatalf("expected no error in continue-on-error mode, got: %v", err)
	}

	wantSuccesses := []int{2, 6}
	if len(result.Successes) != len(wantSuccesses) {
		t.Fatalf("expected %d successes, got %d: %v", len(wantSuccesses), len(result.Successes), result.Successes)
	}
	for i, v := range wantSuccesses {
		if result.Successes[i] != v {
			t.Errorf("Successes[%d] = %d, want %d", i, result.Successes[i], v)
		}
	}

	wantErrIndices := []int{0, 2, 4}
	if len(result.Errors) != len(wantErrIndices) {
		t.Fatalf("expected %d errors, got %d", len(wantErrIndices), len(result.Errors))
	}
	for i, idx := range wantErrIndices {
		if result.Errors[i].OperationIndex != idx {
			t.Errorf("Errors[%d].OperationIndex = %d, want %d", i, result.Errors[i].OperationIndex, idx)
		}
	}

	if result.SuccessRate() != 0.4 {
		t.Errorf("SuccessRate() = %v, want 0.4", result.SuccessRate())
	}
}

// Scenario C — fail-fast.
func TestRun_ScenarioC_FailFast(t *testing.T) {
	ctx := context.Background()
	continueOnError := false
	opts := batch.Options{MaxParallelism: 5, ContinueOnErrorNil: &continueOnError, Observer: "noop"}

	failing := errors.New("operation failed")
	ops := make([]batch.Operation[int], 5)
	for i := range ops {
		i := i
		ops[i] = func(ctx context.Context) (int, error) {
			if i%2 == 0 {
				return 0, failing
			}
			return i * 2, nil
		}
	}

	result, err := batch.Run(ctx, batch.NewExecutor(), ops, opts, nil)
	if err == nil {
		t.Fatal("expected an error in fail-fast mode, got nil")
	}
	var ffErr *batch.FailFastError
	if !errors.As(err, &ffErr) {
		t.Fatalf("expected *batch.FailFastError, got %T", err)
	}
	if !errors.Is(err, failing) {
		t.Errorf("expected wrapped cause to match failing, got %v", err)
	}
	if len(result.Successes) != 0 || len(result.Errors) != 0 {
		t.Errorf("expected zero-value Result on fail-fast abort, got %+v", result)
	}
}

// Scenario F — cancellation.
func TestRun_ScenarioF_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	opts := batch.DefaultOptions()
	opts.MaxParallelism = 10

	ops := make([]batch.Operation[int], 10)
	for i := range ops {
		ops[i] = func(ctx context.Context) (int, error) {
			select {
			case <-time.After(2 * time.Second):
				return 0, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	result, err := batch.Run(ctx, batch.NewExecutor(), ops, opts, nil)
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected a cancellation error, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected error wrapping context.Canceled, got %v", err)
	}
	if len(result.Successes) != 0 || len(result.Errors) != 0 {
		t.Errorf("expected zero-value Result on cancellation, got %+v", result)
	}
	if elapsed >= time.Second {
		t.Errorf("expected prompt cancellation, took %v", elapsed)
	}
}

func TestRun_PerOpTimeout_AllFail(t *testing.T) {
	ctx := context.Background()
	opts := batch.DefaultOptions()
	opts.PerOpTimeout = 10 // milliseconds

	ops := make([]batch.Operation[int], 3)
	for i := range ops {
		ops[i] = func(ctx context.Context) (int, error) {
			select {
			case <-time.After(time.Second):
				return 1, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}
	}

	result, err := batch.Run(ctx, batch.NewExecutor(), ops, opts, nil)
	if err != nil {
		t.Fatalf("expected no top-level error (continue_on_error default), got: %v", err)
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 timeout errors, got %d", len(result.Errors))
	}
	for _, e := range result.Errors {
		if !errors.Is(e.Cause, context.DeadlineExceeded) {
			t.Errorf("expected DeadlineExceeded cause, got %v", e.Cause)
		}
	}
}

func TestRun_ProgressReachesTerminalUpdate(t *testing.T) {
	ctx := context.Background()
	opts := batch.DefaultOptions()
	opts.MaxParallelism = 3

	ops := make([]batch.Operation[int], 4)
	for i := range ops {
		ops[i] = func(ctx context.Context) (int, error) { return 1, nil }
	}

	var last batch.Progress
	progress := func(p batch.Progress) {
		if p.Completed < last.Completed {
			t.Errorf("Completed regressed: %d -> %d", last.Completed, p.Completed)
		}
		last = p
	}

	_, err := batch.Run(ctx, batch.NewExecutor(), ops, opts, progress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last.Completed != 4 || last.Total != 4 {
		t.Errorf("expected terminal progress {4,4}, got %+v", last)
	}
}
