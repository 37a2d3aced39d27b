package engine

import (
	"sync/atomic"
	"testing"
	"time"
)

var epoch = time.Date(2025, 2, 14, 20, 0, 0, 0, time.UTC)

// ===== MANUAL: TIMERS =====

func TestManualAfterFiresAtDeadline(t *testing.T) {
	m := NewManual(epoch)
	var firedAt time.Time
	m.After(250*time.Millisecond, func() { firedAt = m.Now() })

	m.Advance(249 * time.Millisecond)
	if !firedAt.IsZero() {
		t.Fatal("Expected timer not to fire before its deadline")
	}
	m.Advance(time.Second)
	if want := epoch.Add(250 * time.Millisecond); !firedAt.Equal(want) {
		t.Errorf("Expected fire at %v, got %v", want, firedAt)
	}
	if !m.Now().Equal(epoch.Add(1249 * time.Millisecond)) {
		t.Errorf("Expected clock at target, got %v", m.Now())
	}
	if m.Active() != 0 {
		t.Errorf("Expected one-shot timer to be released, got %d active", m.Active())
	}
}

func TestManualEveryCountsPeriods(t *testing.T) {
	m := NewManual(epoch)
	count := 0
	h := m.Every(100*time.Millisecond, func() { count++ })

	m.Advance(1050 * time.Millisecond)
	if count != 10 {
		t.Errorf("Expected 10 ticks, got %d", count)
	}

	m.Cancel(h)
	m.Advance(time.Second)
	if count != 10 {
		t.Errorf("Expected no ticks after cancel, got %d", count)
	}
}

func TestManualDeadlineOrder(t *testing.T) {
	m := NewManual(epoch)
	var order []string
	m.After(30*time.Millisecond, func() { order = append(order, "c") })
	m.After(10*time.Millisecond, func() { order = append(order, "a") })
	m.After(20*time.Millisecond, func() { order = append(order, "b1") })
	m.After(20*time.Millisecond, func() { order = append(order, "b2") })

	m.Advance(time.Second)
	want := []string{"a", "b1", "b2", "c"}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, order)
			break
		}
	}
}

func TestManualCancelInsideSamePass(t *testing.T) {
	m := NewManual(epoch)
	var second Handle
	fired := false
	m.After(10*time.Millisecond, func() { m.Cancel(second) })
	second = m.After(10*time.Millisecond, func() { fired = true })

	m.Advance(10 * time.Millisecond)
	if fired {
		t.Error("Expected timer cancelled in the same pass not to fire")
	}
}

func TestManualTimerScheduledFromCallback(t *testing.T) {
	m := NewManual(epoch)
	var chain []time.Duration
	m.After(100*time.Millisecond, func() {
		chain = append(chain, m.Now().Sub(epoch))
		m.After(100*time.Millisecond, func() {
			chain = append(chain, m.Now().Sub(epoch))
		})
	})

	m.Advance(time.Second)
	if len(chain) != 2 || chain[1] != 200*time.Millisecond {
		t.Errorf("Expected chained timer at 200ms, got %v", chain)
	}
}

func TestCancelAllZeroesHandles(t *testing.T) {
	m := NewManual(epoch)
	a := m.After(time.Second, func() {})
	b := m.Every(time.Second, func() {})
	var zero Handle

	CancelAll(m, &a, &b, &zero, nil)
	if a != 0 || b != 0 {
		t.Errorf("Expected handles zeroed, got %d %d", a, b)
	}
	if m.Active() != 0 {
		t.Errorf("Expected nothing active, got %d", m.Active())
	}
}

// ===== MANUAL: FRAMES AND POSTS =====

func TestManualFrames(t *testing.T) {
	m := NewManual(epoch)
	frames := 0
	var last time.Time
	h := m.OnFrame(func(now time.Time) {
		frames++
		last = now
	})

	m.Step(3, 16*time.Millisecond)
	if frames != 3 {
		t.Errorf("Expected 3 frames, got %d", frames)
	}
	if want := epoch.Add(48 * time.Millisecond); !last.Equal(want) {
		t.Errorf("Expected last frame at %v, got %v", want, last)
	}

	m.Advance(time.Second)
	if frames != 3 {
		t.Error("Expected Advance alone not to render frames")
	}

	m.Cancel(h)
	m.Frame()
	if frames != 3 {
		t.Error("Expected cancelled frame callback to stay silent")
	}
}

func TestManualFrameCancelledMidPass(t *testing.T) {
	m := NewManual(epoch)
	var later Handle
	ran := false
	m.OnFrame(func(time.Time) { m.Cancel(later) })
	later = m.OnFrame(func(time.Time) { ran = true })

	m.Frame()
	if ran {
		t.Error("Expected callback cancelled earlier in the pass to be skipped")
	}
}

func TestManualPost(t *testing.T) {
	m := NewManual(epoch)
	var order []int
	m.Post(func() {
		order = append(order, 1)
		m.Post(func() { order = append(order, 2) })
	})

	if n := m.Flush(); n != 2 {
		t.Errorf("Expected 2 posted functions, got %d", n)
	}
	if len(order) != 2 || order[1] != 2 {
		t.Errorf("Expected nested post to run in the same flush, got %v", order)
	}

	ran := false
	m.Post(func() { ran = true })
	m.Advance(0)
	if !ran {
		t.Error("Expected Advance to flush posted work")
	}
}

// ===== LOOP =====

func TestLoopRunsPostedWork(t *testing.T) {
	l := NewLoop(2 * time.Millisecond)
	l.Start()
	defer l.Stop()

	done := make(chan struct{})
	l.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expected posted work to run")
	}
}

func TestLoopTimersAndFrames(t *testing.T) {
	l := NewLoop(2 * time.Millisecond)

	var frames atomic.Int32
	fired := make(chan time.Duration, 1)
	start := l.Now()
	l.Post(func() {
		l.OnFrame(func(time.Time) { frames.Add(1) })
		l.After(20*time.Millisecond, func() { fired <- l.Now().Sub(start) })
	})
	l.Start()
	defer l.Stop()

	select {
	case d := <-fired:
		if d < 20*time.Millisecond {
			t.Errorf("Expected timer after 20ms, fired at %v", d)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected timer to fire")
	}
	if frames.Load() == 0 || l.Frames() == 0 {
		t.Error("Expected frames to be dispatched")
	}
}

func TestLoopStopIsIdempotent(t *testing.T) {
	l := NewLoop(time.Millisecond)
	l.Start()
	l.Start()
	l.Stop()
	l.Stop()

	before := l.Frames()
	time.Sleep(10 * time.Millisecond)
	if l.Frames() != before {
		t.Error("Expected no frames after Stop")
	}
}

func TestTimeProviderMonotonic(t *testing.T) {
	provider := NewTimeProvider()
	t1 := provider.Now()
	time.Sleep(5 * time.Millisecond)
	if d := provider.Now().Sub(t1); d < 5*time.Millisecond {
		t.Errorf("Expected at least 5ms difference, got %v", d)
	}
}
