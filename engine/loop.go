package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ramedia/lovescroll/core"
)

// Loop is the real-time Scheduler: one goroutine runs posted work, due timers and frame callbacks
// Timers are checked on frame boundaries, so their resolution is the frame interval
type Loop struct {
	d     *dispatcher
	clock *TimeProvider

	frameInterval time.Duration
	frameCount    atomic.Uint64

	wake     chan struct{}
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewLoop creates a loop that renders a frame every frameInterval
func NewLoop(frameInterval time.Duration) *Loop {
	return &Loop{
		d:             newDispatcher(true),
		clock:         NewTimeProvider(),
		frameInterval: clampInterval(frameInterval),
		wake:          make(chan struct{}, 1),
		stopChan:      make(chan struct{}),
	}
}

// Now returns the wall clock
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// After runs fn once after delay
func (l *Loop) After(delay time.Duration, fn func()) Handle {
	return l.d.schedule(l.Now(), delay, 0, fn)
}

// Every runs fn every interval
func (l *Loop) Every(interval time.Duration, fn func()) Handle {
	return l.d.schedule(l.Now(), clampInterval(interval), clampInterval(interval), fn)
}

// OnFrame runs fn on every frame
func (l *Loop) OnFrame(fn func(now time.Time)) Handle {
	return l.d.onFrame(fn)
}

// Cancel stops a timer or frame callback
func (l *Loop) Cancel(h Handle) {
	l.d.cancel(h)
}

// Post queues fn for the loop goroutine, safe from any goroutine
func (l *Loop) Post(fn func()) {
	l.d.post(fn)
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Frames returns the number of frames dispatched so far
func (l *Loop) Frames() uint64 {
	return l.frameCount.Load()
}

// Start begins the loop goroutine
func (l *Loop) Start() {
	if l.running.CompareAndSwap(false, true) {
		l.wg.Add(1)
		// Use core.Go for safe execution with centralized crash handling
		core.Go(l.run)
	}
}

// Stop halts the loop and waits for the goroutine to exit
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		if l.running.CompareAndSwap(true, false) {
			close(l.stopChan)
			l.wg.Wait()
		}
	})
}

func (l *Loop) run() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return

		case <-l.wake:
			l.d.runPosted()

		case <-ticker.C:
			now := l.Now()
			l.d.runPosted()
			l.d.runDue(now)
			l.d.runPosted()
			l.d.runFrames(now)
			l.frameCount.Add(1)
		}
	}
}
