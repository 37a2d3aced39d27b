package engine

import (
	"sync"
	"time"
)

// Manual is a Scheduler driven by explicit Advance and Frame calls
// Time only moves when the caller says so, which makes every timing rule reproducible in tests
type Manual struct {
	d *dispatcher

	mu  sync.RWMutex
	now time.Time
}

// NewManual creates a manual scheduler whose clock starts at start
func NewManual(start time.Time) *Manual {
	return &Manual{
		d:   newDispatcher(false),
		now: start,
	}
}

// Now returns the virtual time
func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

func (m *Manual) setNow(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// After runs fn once when the clock has advanced by delay
func (m *Manual) After(delay time.Duration, fn func()) Handle {
	return m.d.schedule(m.Now(), delay, 0, fn)
}

// Every runs fn each time the clock crosses another interval
func (m *Manual) Every(interval time.Duration, fn func()) Handle {
	return m.d.schedule(m.Now(), clampInterval(interval), clampInterval(interval), fn)
}

// OnFrame registers fn for every Frame call
func (m *Manual) OnFrame(fn func(now time.Time)) Handle {
	return m.d.onFrame(fn)
}

// Cancel stops a timer or frame callback
func (m *Manual) Cancel(h Handle) {
	m.d.cancel(h)
}

// Post queues fn; it runs on the next Flush, Advance or Frame
func (m *Manual) Post(fn func()) {
	m.d.post(fn)
}

// Flush runs posted work and returns how many functions ran
func (m *Manual) Flush() int {
	return m.d.runPosted()
}

// Advance moves the clock forward by d, firing due timers at their exact deadlines
func (m *Manual) Advance(d time.Duration) {
	target := m.Now().Add(d)
	m.Flush()
	for {
		due, ok := m.d.nextDue()
		if !ok || due.After(target) {
			break
		}
		m.setNow(due)
		m.d.runDue(due)
		m.Flush()
	}
	m.setNow(target)
	m.Flush()
}

// Frame runs every frame callback once at the current virtual time
func (m *Manual) Frame() {
	m.Flush()
	m.d.runFrames(m.Now())
	m.Flush()
}

// Step simulates n display frames, advancing the clock by interval before each one
func (m *Manual) Step(n int, interval time.Duration) {
	for i := 0; i < n; i++ {
		m.Advance(interval)
		m.Frame()
	}
}

// Active counts live timers and frame callbacks
func (m *Manual) Active() int {
	return m.d.active()
}

func clampInterval(d time.Duration) time.Duration {
	if d < time.Millisecond {
		return time.Millisecond
	}
	return d
}
