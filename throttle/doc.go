// Package throttle bounds the number of operations executing concurrently
// and reports on how they ran.
//
// A Throttle wraps a weighted semaphore (golang.org/x/sync/semaphore) sized
// to its capacity. Callers submit operations through AcquireAndRun, which
// blocks until a permit is available, runs the operation, and releases the
// permit on every exit path including cancellation. Capacity can be resized
// at any time via SetCapacity without disturbing operations already holding
// a permit.
//
// Example:
//
//	th, err := throttle.New(throttle.Config{Capacity: 4, Observer: "slog"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	value, err := throttle.AcquireAndRun(ctx, th, func(ctx context.Context) (int, error) {
//	    return doWork(ctx)
//	})
//
// # Capacity Resize
//
// SetCapacity swaps the underlying semaphore for a freshly sized one rather
// than mutating the existing semaphore's bound — x/sync's Weighted exposes
// no resize primitive. Operations that acquired a permit on the old
// semaphore release it back to that old semaphore (releasing it to the new
// one would exceed what the new semaphore handed out, which Weighted
// rejects with a panic), so a resize racing with in-flight operations can
// briefly let the observed concurrency exceed the new capacity by the
// number of old holders. in_flight is tracked
// independently via an atomic counter, not derived from the semaphore, so
// the invariant `0 <= in_flight <= capacity` is always restored once the
// drifting operations complete.
package throttle
