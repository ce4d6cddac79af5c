// Package workflow schedules a DAG of named steps in topological waves.
//
// Each wave computes the set of steps whose predecessors have all
// completed successfully. Steps declared parallel-capable run
// concurrently when at least one other step is also ready in that wave;
// every other ready step runs sequentially in declaration order. A
// mutable Context threads data between steps for the lifetime of a single
// Engine.Run call.
//
// A step reporting failure halts the workflow: no step not yet scheduled
// runs, and Run returns a Result with Success=false and the
// already-collected StepExecutionResults. Siblings within a failed
// parallel wave are always awaited before the workflow terminates.
package workflow
