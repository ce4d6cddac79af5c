package throttle

import "errors"

// Sentinel errors for the throttle.
var (
	// ErrInvalidCapacity is returned by New and SetCapacity when capacity is not positive.
	ErrInvalidCapacity = errors.New("throttle: capacity must be greater than zero")
)
