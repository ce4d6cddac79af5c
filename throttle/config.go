package throttle

import "runtime"

// Config configures a Throttle at construction time. Following the
// configuration lifecycle used throughout this module, Config exists only
// during initialization and is never consulted again once New returns.
type Config struct {
	// Name identifies the throttle instance in observability events.
	Name string `json:"name"`

	// Capacity is the maximum number of operations that may run
	// concurrently. Must be positive.
	Capacity int `json:"capacity"`

	// Observer selects a registered observability.Observer by name
	// ("noop", "slog", or one registered via observability.RegisterObserver).
	Observer string `json:"observer"`
}

// DefaultConfig returns a Config sized to the host's available parallelism,
// with observability disabled (the "noop" observer).
func DefaultConfig() Config {
	return Config{
		Name:     "default",
		Capacity: runtime.GOMAXPROCS(0),
		Observer: "noop",
	}
}

func (c *Config) Merge(source *Config) {
	if source.Name != "" {
		c.Name = source.Name
	}
	if source.Capacity > 0 {
		c.Capacity = source.Capacity
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}
