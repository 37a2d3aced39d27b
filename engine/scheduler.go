package engine

import "time"

// Handle identifies a scheduled timer or frame callback
// The zero Handle is never issued and cancelling it is a no-op
type Handle uint64

// Scheduler is the single cooperative event loop every component runs on
// All callbacks run serialized on the loop; Post is the only method safe to call from other goroutines
type Scheduler interface {
	Clock

	// After runs fn once, delay from now
	After(delay time.Duration, fn func()) Handle

	// Every runs fn repeatedly with the given period, first firing one period from now
	Every(interval time.Duration, fn func()) Handle

	// OnFrame runs fn on every display frame until cancelled
	OnFrame(fn func(now time.Time)) Handle

	// Cancel stops a timer or frame callback; a cancelled handle never fires again,
	// even when cancelled from inside another callback of the same dispatch pass
	Cancel(h Handle)

	// Post queues fn to run on the loop as soon as possible
	Post(fn func())
}

// CancelAll cancels every handle and zeroes the slice entries
func CancelAll(s Scheduler, handles ...*Handle) {
	for _, h := range handles {
		if h == nil || *h == 0 {
			continue
		}
		s.Cancel(*h)
		*h = 0
	}
}
