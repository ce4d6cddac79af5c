package throttle

import "github.com/devtool-substrate/orchestrator/observability"

const (
	// EventAcquireStart fires before an operation blocks waiting for a permit.
	EventAcquireStart observability.EventType = "throttle.acquire.start"

	// EventAcquireComplete fires once an operation has released its permit,
	// successfully or not.
	EventAcquireComplete observability.EventType = "throttle.acquire.complete"

	// EventCapacityChanged fires after SetCapacity swaps in a new semaphore.
	EventCapacityChanged observability.EventType = "throttle.capacity.changed"
)
