// Package playback runs one experience from opening scene to finale
package playback

import (
	"log"
	"math/rand/v2"

	"github.com/ramedia/lovescroll/catch"
	"github.com/ramedia/lovescroll/engine"
	"github.com/ramedia/lovescroll/finale"
	"github.com/ramedia/lovescroll/model"
	"github.com/ramedia/lovescroll/reveal"
	"github.com/ramedia/lovescroll/story"
)

// Phase is the experience flow position
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseStarted
	PhaseGateActive
	PhaseFinale
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseStarted:
		return "started"
	case PhaseGateActive:
		return "gate"
	case PhaseFinale:
		return "finale"
	}
	return "unknown"
}

// Recorder receives the one-way stop signal when the finale begins
type Recorder interface {
	StopRecording()
}

// Options wires the player to its front end
type Options struct {
	Presenter story.Presenter
	Haptics   reveal.Haptics
	Recorder  Recorder
	Rand      *rand.Rand

	OnGate      func()
	OnFinale    func()
	OnCelebrate func()
}

// Player composes the sequencer, the gate and the finale into one linear flow
type Player struct {
	sched engine.Scheduler
	exp   *model.Experience
	opts  Options

	phase       Phase
	gateEntered bool

	story  *story.Sequencer
	gate   *catch.Game
	finale *finale.Reveal
}

// New builds a player for an already loaded experience
func New(sched engine.Scheduler, exp *model.Experience, opts Options) *Player {
	p := &Player{
		sched: sched,
		exp:   exp,
		opts:  opts,
	}

	p.story = story.New(sched, exp.Units(), story.Options{
		Presenter:     opts.Presenter,
		Haptics:       opts.Haptics,
		OnAllComplete: p.enterGate,
	})

	gateOpts := catch.Options{
		Haptics: opts.Haptics,
		OnWin:   p.enterFinale,
	}
	if opts.Rand != nil {
		gateOpts.Rand = opts.Rand
	}
	p.gate = catch.New(sched, gateOpts)

	p.finale = finale.New(sched, exp.FinalLetter, finale.Options{
		FromName:    exp.FromName,
		OnCelebrate: opts.OnCelebrate,
		OnReplay:    p.Replay,
		Rand:        opts.Rand,
	})
	return p
}

// Start leaves the opening scene; with no memories the gate opens straight away
func (p *Player) Start() {
	if p.phase != PhaseNotStarted {
		return
	}
	p.phase = PhaseStarted
	log.Printf("playback: started %q with %d memories", p.exp.Slug, p.story.Total())
	if p.story.Total() == 0 {
		p.enterGate()
		return
	}
	p.story.Start()
}

func (p *Player) enterGate() {
	if p.gateEntered || p.phase != PhaseStarted {
		return
	}
	p.gateEntered = true
	p.phase = PhaseGateActive
	log.Printf("playback: gate active")
	if p.opts.OnGate != nil {
		p.opts.OnGate()
	}
}

// StartGate begins the mini-game once the gate is showing
func (p *Player) StartGate() {
	if p.phase != PhaseGateActive {
		return
	}
	p.gate.Start()
}

func (p *Player) enterFinale() {
	if p.phase != PhaseGateActive {
		return
	}
	p.phase = PhaseFinale
	log.Printf("playback: finale unlocked")
	p.finale.Unlock()
	if p.opts.Recorder != nil {
		p.opts.Recorder.StopRecording()
	}
	if p.opts.OnFinale != nil {
		p.opts.OnFinale()
	}
}

// Replay returns to the opening scene with every component reset
func (p *Player) Replay() {
	p.story.Reset()
	p.gate.Reset()
	p.finale.Reset()
	p.phase = PhaseNotStarted
	p.gateEntered = false
	log.Printf("playback: replay")
}

// Phase returns the flow position
func (p *Player) Phase() Phase { return p.phase }

// Experience returns the record being played
func (p *Player) Experience() *model.Experience { return p.exp }

// Story returns the memory sequencer
func (p *Player) Story() *story.Sequencer { return p.story }

// Gate returns the mini-game
func (p *Player) Gate() *catch.Game { return p.gate }

// Finale returns the letter reveal
func (p *Player) Finale() *finale.Reveal { return p.finale }
