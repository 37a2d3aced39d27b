// Package story sequences the memory reveals that lead up to the gate game
package story

import (
	"log"
	"time"

	"github.com/ramedia/lovescroll/constants"
	"github.com/ramedia/lovescroll/engine"
	"github.com/ramedia/lovescroll/model"
	"github.com/ramedia/lovescroll/reveal"
)

// Presenter renders sequencer output; every method is called on the scheduler loop
type Presenter interface {
	// Focus scrolls the memory at index into view
	Focus(index int)
	// Open shows the overlay for a revealed memory
	Open(unit model.StoryUnit)
}

// Options configures a Sequencer
type Options struct {
	Presenter     Presenter
	Haptics       reveal.Haptics
	OnAllComplete func()
}

// Sequencer owns the story units, their reveal handlers and the completion set
type Sequencer struct {
	sched engine.Scheduler
	opts  Options

	units    []model.StoryUnit
	handlers []reveal.Handler

	completed   map[int]struct{}
	focused     int
	open        int
	allComplete bool

	pending map[engine.Handle]struct{}
}

// New creates a sequencer for units in display order
func New(sched engine.Scheduler, units []model.StoryUnit, opts Options) *Sequencer {
	s := &Sequencer{
		sched:   sched,
		opts:    opts,
		units:   units,
		pending: make(map[engine.Handle]struct{}),
	}
	s.clear()
	return s
}

func (s *Sequencer) clear() {
	s.handlers = make([]reveal.Handler, len(s.units))
	for i, u := range s.units {
		s.handlers[i] = reveal.New(u.Variant, s.opts.Haptics)
	}
	s.completed = make(map[int]struct{}, len(s.units))
	s.focused = -1
	s.open = -1
	s.allComplete = false
}

// after schedules fn and tracks the handle until it fires so Reset can cancel it
func (s *Sequencer) after(d time.Duration, fn func()) {
	var h engine.Handle
	h = s.sched.After(d, func() {
		delete(s.pending, h)
		fn()
	})
	s.pending[h] = struct{}{}
}

// Start focuses the first memory after a short delay
func (s *Sequencer) Start() {
	if len(s.units) == 0 {
		return
	}
	s.after(constants.FirstFocusDelay, func() { s.focus(0) })
}

// Interact registers one gesture on a memory
// When the gesture reveals, the overlay opens after the variant's animation delay
func (s *Sequencer) Interact(index int) bool {
	if index < 0 || index >= len(s.handlers) {
		return false
	}
	h := s.handlers[index]
	if !h.Register() {
		return false
	}
	s.after(h.RevealDelay(), func() { s.OnReveal(index) })
	return true
}

// OnReveal marks a memory revealed and opens its overlay
// Calling it again for a revealed memory only reopens the overlay
func (s *Sequencer) OnReveal(index int) {
	if index < 0 || index >= len(s.units) {
		return
	}
	if _, ok := s.completed[index]; !ok {
		s.completed[index] = struct{}{}
		log.Printf("story: memory %d revealed (%d/%d)", index, len(s.completed), len(s.units))
	}
	s.open = index
	if s.opts.Presenter != nil {
		s.opts.Presenter.Open(s.units[index])
	}
}

// CloseOverlay dismisses the open overlay and moves focus on once it has settled
func (s *Sequencer) CloseOverlay() {
	if s.open < 0 {
		return
	}
	index := s.open
	s.open = -1

	s.after(constants.OverlayCloseSettle, func() {
		if index < len(s.units)-1 {
			s.focus(index + 1)
			return
		}
		s.after(constants.AllCompleteSettle, s.finish)
	})
}

func (s *Sequencer) finish() {
	if s.allComplete {
		return
	}
	if first := s.FirstLocked(); first >= 0 {
		s.focus(first)
		return
	}
	s.allComplete = true
	log.Printf("story: all %d memories revealed", len(s.units))
	if s.opts.OnAllComplete != nil {
		s.opts.OnAllComplete()
	}
}

func (s *Sequencer) focus(index int) {
	s.focused = index
	if s.opts.Presenter != nil {
		s.opts.Presenter.Focus(index)
	}
}

// Reset cancels pending transitions and clears completion
func (s *Sequencer) Reset() {
	for h := range s.pending {
		s.sched.Cancel(h)
	}
	clear(s.pending)
	s.clear()
}

// FirstLocked returns the lowest index not yet revealed, or -1
func (s *Sequencer) FirstLocked() int {
	for i := range s.units {
		if _, ok := s.completed[i]; !ok {
			return i
		}
	}
	return -1
}

// Units returns the story units
func (s *Sequencer) Units() []model.StoryUnit { return s.units }

// Handler returns the reveal handler for a memory
func (s *Sequencer) Handler(index int) reveal.Handler {
	if index < 0 || index >= len(s.handlers) {
		return nil
	}
	return s.handlers[index]
}

// Completed returns the number of revealed memories
func (s *Sequencer) Completed() int { return len(s.completed) }

// Total returns the number of memories
func (s *Sequencer) Total() int { return len(s.units) }

// IsCompleted reports whether a memory has been revealed
func (s *Sequencer) IsCompleted(index int) bool {
	_, ok := s.completed[index]
	return ok
}

// Focused returns the focused memory, or -1 before the first focus
func (s *Sequencer) Focused() int { return s.focused }

// OpenIndex returns the memory whose overlay is showing, or -1
func (s *Sequencer) OpenIndex() int { return s.open }

// AllComplete reports whether the all-complete signal has fired
func (s *Sequencer) AllComplete() bool { return s.allComplete }
