package catalog

import "time"

// Clock supplies wall time for the staleness policy.
//
// The catalog file's modification time is compared against Now, so tests can
// age a catalog without touching the filesystem clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}
