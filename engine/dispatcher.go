package engine

import (
	"container/heap"
	"sync"
	"time"

	"github.com/ramedia/lovescroll/constants"
)

type timer struct {
	id       Handle
	due      time.Time
	interval time.Duration
	seq      uint64
	index    int
	fn       func()
}

// timerHeap orders timers by due time, registration order breaking ties
type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

type frameEntry struct {
	id Handle
	fn func(now time.Time)
}

// dispatcher holds timers, frame callbacks and posted work shared by Manual and Loop
// The mutex is never held while a callback runs
type dispatcher struct {
	mu     sync.Mutex
	nextID Handle
	seq    uint64

	timers timerHeap
	live   map[Handle]*timer

	frames     []*frameEntry
	liveFrames map[Handle]*frameEntry

	posted []func()

	// reanchor resets repeating timers that fall more than constants.MaxTimerLag periods behind
	reanchor bool
}

func newDispatcher(reanchor bool) *dispatcher {
	return &dispatcher{
		live:       make(map[Handle]*timer),
		liveFrames: make(map[Handle]*frameEntry),
		reanchor:   reanchor,
	}
}

func (d *dispatcher) schedule(now time.Time, delay, interval time.Duration, fn func()) Handle {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	d.seq++
	t := &timer{
		id:       d.nextID,
		due:      now.Add(delay),
		interval: interval,
		seq:      d.seq,
		fn:       fn,
	}
	heap.Push(&d.timers, t)
	d.live[t.id] = t
	return t.id
}

func (d *dispatcher) onFrame(fn func(now time.Time)) Handle {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	e := &frameEntry{id: d.nextID, fn: fn}
	d.frames = append(d.frames, e)
	d.liveFrames[e.id] = e
	return e.id
}

func (d *dispatcher) cancel(h Handle) {
	if h == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.live[h]; ok {
		delete(d.live, h)
		if t.index >= 0 {
			heap.Remove(&d.timers, t.index)
		}
		return
	}

	if _, ok := d.liveFrames[h]; ok {
		delete(d.liveFrames, h)
		for i, e := range d.frames {
			if e.id == h {
				d.frames = append(d.frames[:i], d.frames[i+1:]...)
				break
			}
		}
	}
}

func (d *dispatcher) post(fn func()) {
	d.mu.Lock()
	d.posted = append(d.posted, fn)
	d.mu.Unlock()
}

// runPosted drains posted work, including work posted while draining
func (d *dispatcher) runPosted() int {
	ran := 0
	for {
		d.mu.Lock()
		if len(d.posted) == 0 {
			d.mu.Unlock()
			return ran
		}
		batch := d.posted
		d.posted = nil
		d.mu.Unlock()

		for _, fn := range batch {
			fn()
			ran++
		}
	}
}

// nextDue reports the earliest pending timer deadline
func (d *dispatcher) nextDue() (time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.timers) == 0 {
		return time.Time{}, false
	}
	return d.timers[0].due, true
}

// runDue fires every timer due at or before now in deadline order
func (d *dispatcher) runDue(now time.Time) int {
	ran := 0
	for {
		d.mu.Lock()
		if len(d.timers) == 0 || d.timers[0].due.After(now) {
			d.mu.Unlock()
			return ran
		}

		t := heap.Pop(&d.timers).(*timer)
		if t.interval > 0 {
			t.due = t.due.Add(t.interval)
			if d.reanchor && now.Sub(t.due) > t.interval*constants.MaxTimerLag {
				t.due = now.Add(t.interval)
			}
			d.seq++
			t.seq = d.seq
			heap.Push(&d.timers, t)
		} else {
			delete(d.live, t.id)
		}
		fn := t.fn
		d.mu.Unlock()

		fn()
		ran++
	}
}

// runFrames calls each frame callback registered before the pass started,
// skipping callbacks cancelled earlier in the same pass
func (d *dispatcher) runFrames(now time.Time) {
	d.mu.Lock()
	snapshot := make([]*frameEntry, len(d.frames))
	copy(snapshot, d.frames)
	d.mu.Unlock()

	for _, e := range snapshot {
		d.mu.Lock()
		_, alive := d.liveFrames[e.id]
		d.mu.Unlock()
		if alive {
			e.fn(now)
		}
	}
}

// active counts live timers and frame callbacks
func (d *dispatcher) active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live) + len(d.liveFrames)
}
