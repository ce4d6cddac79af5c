// Package orchestrator composes Throttle, BatchExecutor, and WorkflowEngine
// behind a tool registry to service two request shapes: parallel tool
// dispatch and workflow execution. The Orchestrator owns a single Throttle
// instance; both entry points acquire from it, so its capacity is the one
// knob for global concurrency.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/devtool-substrate/orchestrator/observability"
	"github.com/devtool-substrate/orchestrator/throttle"
	"github.com/devtool-substrate/orchestrator/tools"
	"github.com/devtool-substrate/orchestrator/workflow"
	"github.com/google/uuid"
)

// Option configures an Orchestrator after config-driven initialization.
// Applied by New after construction — overrides replace config-created
// defaults.
type Option func(*Orchestrator)

// WithToolRegistry overrides the config-created tool registry.
func WithToolRegistry(r *tools.Registry) Option {
	return func(o *Orchestrator) { o.tools = r }
}

// WithThrottle overrides the config-created Throttle.
func WithThrottle(th *throttle.Throttle) Option {
	return func(o *Orchestrator) { o.throttle = th }
}

// WithEngine overrides the config-created WorkflowEngine.
func WithEngine(e *workflow.Engine) Option {
	return func(o *Orchestrator) { o.engine = e }
}

// WithObserver overrides the observer selected by Config.Observer.
func WithObserver(ob observability.Observer) Option {
	return func(o *Orchestrator) { o.observer = ob }
}

// Orchestrator is the facade over the concurrency substrate: a shared
// Throttle, a per-call BatchExecutor, a WorkflowEngine, and a tool
// registry.
type Orchestrator struct {
	name     string
	throttle *throttle.Throttle
	engine   *workflow.Engine
	tools    *tools.Registry
	observer observability.Observer
}

// New creates an Orchestrator from configuration. Throttle, WorkflowEngine,
// and the tool registry are initialized from cfg; functional options
// applied afterward can override any of them for testing.
func New(cfg Config, opts ...Option) (*Orchestrator, error) {
	th, err := throttle.New(throttle.Config{
		Name:     cfg.Name,
		Capacity: cfg.ThrottleCapacity,
		Observer: cfg.Observer,
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: failed to create throttle: %w", err)
	}

	engine, err := workflow.NewEngine(workflow.Config{Observer: cfg.Observer})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: failed to create workflow engine: %w", err)
	}

	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: failed to resolve observer: %w", err)
	}

	o := &Orchestrator{
		name:     cfg.Name,
		throttle: th,
		engine:   engine,
		tools:    tools.NewRegistry(),
		observer: observer,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// RegisterTool inserts or replaces handler under name.
func (o *Orchestrator) RegisterTool(name string, handler tools.Handler) error {
	return o.tools.Register(name, handler)
}

// UnregisterTool removes name's handler, reporting whether it was present.
func (o *Orchestrator) UnregisterTool(name string) bool {
	return o.tools.Unregister(name)
}

// RegisteredTools returns every currently registered tool name.
func (o *Orchestrator) RegisteredTools() []string {
	return o.tools.Names()
}

// Metrics returns a snapshot of the orchestrator's shared Throttle.
func (o *Orchestrator) Metrics() throttle.Metrics {
	return o.throttle.Metrics()
}

// SetCapacity live-resizes the shared Throttle; see throttle.Throttle.SetCapacity.
func (o *Orchestrator) SetCapacity(ctx context.Context, n int) error {
	return o.throttle.SetCapacity(ctx, n)
}

// newCorrelationID mints a run ID used to correlate a dispatch or workflow
// run's observability events.
func newCorrelationID() string {
	return uuid.NewString()
}
