// Package orchestrator is the facade wiring Throttle, BatchExecutor, and
// WorkflowEngine behind a tool registry. See DispatchParallel and
// RunWorkflow for the two composite entry points.
package orchestrator
