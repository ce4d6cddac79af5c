package throttle

import (
	"sync/atomic"
	"time"
)

// Metrics is a point-in-time snapshot of a Throttle's state.
type Metrics struct {
	Capacity      int
	InFlight      int64
	ExecutedTotal int64
	FailedTotal   int64
	MeanDuration  time.Duration
}

// counters holds the atomically-updated running totals backing Metrics.
// Duration is tracked as a cumulative sum plus count rather than a full
// history, which is enough to compute a running mean (§3 of the spec
// explicitly allows this simplification).
type counters struct {
	inFlight      atomic.Int64
	executedTotal atomic.Int64
	failedTotal   atomic.Int64
	durationSumNS atomic.Int64
	durationCount atomic.Int64
}

func (c *counters) recordCompletion(d time.Duration, failed bool) {
	c.executedTotal.Add(1)
	if failed {
		c.failedTotal.Add(1)
	}
	c.durationSumNS.Add(d.Nanoseconds())
	c.durationCount.Add(1)
}

func (c *counters) meanDuration() time.Duration {
	count := c.durationCount.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(c.durationSumNS.Load() / count)
}
