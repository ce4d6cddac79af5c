// Package batch executes an ordered, finite sequence of independent
// operations with bounded parallelism, returning results in original input
// order regardless of completion order.
//
// Run fans operations out across a worker pool sized by Options, collects
// each outcome keyed by its original index, and reassembles two strictly
// ordered lists: successes and errors. continue_on_error=true (the
// default) aggregates every failure into Result.Errors; continue_on_error
// =false aborts the batch on the first failure and discards
// already-collected results, returning a FailFastError instead.
//
// Outer context cancellation always takes precedence over a fail-fast
// abort: a cancelled batch never returns a partial Result.
package batch
