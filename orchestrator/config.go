package orchestrator

import "runtime"

// Config configures an Orchestrator at construction time.
type Config struct {
	// Name identifies this orchestrator instance in observability events.
	Name string `json:"name"`

	// ThrottleCapacity is the single global concurrency knob: both
	// dispatch_parallel and workflow step invocations acquire from the
	// same underlying Throttle sized to this capacity.
	ThrottleCapacity int `json:"throttle_capacity"`

	// Observer selects a registered observability.Observer by name.
	Observer string `json:"observer"`
}

// DefaultConfig returns a Config sized to the host's available
// parallelism, with observability disabled.
func DefaultConfig() Config {
	return Config{
		Name:             "default",
		ThrottleCapacity: runtime.GOMAXPROCS(0),
		Observer:         "noop",
	}
}

func (c *Config) Merge(source *Config) {
	if source.Name != "" {
		c.Name = source.Name
	}
	if source.ThrottleCapacity > 0 {
		c.ThrottleCapacity = source.ThrottleCapacity
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}
