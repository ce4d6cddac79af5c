package batch

import "runtime"

// Options configures a single BatchExecutor.Run call. Unlike Throttle's or
// the engine's Config, Options is consumed per-call rather than at
// construction time, since max_parallelism and error handling are expected
// to vary per batch.
type Options struct {
	// MaxParallelism bounds how many operations run concurrently. Zero or
	// negative means "available parallelism of host".
	MaxParallelism int `json:"max_parallelism"`

	// ContinueOnErrorNil controls whether a failing operation aborts the
	// batch. Use ContinueOnError() to read it. When nil, defaults to true.
	ContinueOnErrorNil *bool `json:"continue_on_error"`

	// PerOpTimeout, when positive, bounds each individual operation with a
	// cancellation derived from the outer one.
	PerOpTimeout int64 `json:"per_op_timeout_ms"`

	// Observer selects a registered observability.Observer by name.
	Observer string `json:"observer"`
}

// ContinueOnError reports whether a failing operation should be recorded
// and execution continued, rather than aborting the batch.
func (o *Options) ContinueOnError() bool {
	if o.ContinueOnErrorNil == nil {
		return true
	}
	return *o.ContinueOnErrorNil
}

// DefaultOptions returns continue-on-error batch options sized to the
// host's available parallelism, with no per-operation timeout.
func DefaultOptions() Options {
	continueOnError := true
	return Options{
		MaxParallelism:     runtime.GOMAXPROCS(0),
		ContinueOnErrorNil: &continueOnError,
		PerOpTimeout:       0,
		Observer:           "noop",
	}
}

func (o *Options) Merge(source *Options) {
	if source.MaxParallelism > 0 {
		o.MaxParallelism = source.MaxParallelism
	}
	if source.ContinueOnErrorNil != nil {
		o.ContinueOnErrorNil = source.ContinueOnErrorNil
	}
	if source.PerOpTimeout > 0 {
		o.PerOpTimeout = source.PerOpTimeout
	}
	if source.Observer != "" {
		o.Observer = source.Observer
	}
}

// effectiveParallelism resolves MaxParallelism against the number of
// operations being run, per §4.2's min(max_parallelism, len(ops)) rule.
func effectiveParallelism(maxParallelism, opCount int) int {
	if maxParallelism <= 0 {
		maxParallelism = runtime.GOMAXPROCS(0)
	}
	if opCount < maxParallelism {
		return opCount
	}
	return maxParallelism
}
