// Package finale types out the final letter and runs the celebration
package finale

import (
	"log"
	"math/rand/v2"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/ramedia/lovescroll/constants"
	"github.com/ramedia/lovescroll/engine"
)

// Options configures a Reveal
type Options struct {
	FromName    string
	OnCelebrate func()
	OnReplay    func()
	Rand        *rand.Rand
}

// Reveal is the typewriter letter; all methods run on the scheduler loop
type Reveal struct {
	sched engine.Scheduler
	opts  Options
	rng   *rand.Rand

	letter []rune
	shown  int

	unlocked   bool
	typing     bool
	complete   bool
	celebrated bool
	fireworks  []Particle

	settleTimer    engine.Handle
	typeTimer      engine.Handle
	celebrateTimer engine.Handle
}

// New prepares a reveal of letter; the text is NFC-normalised so composed characters type as one step
func New(sched engine.Scheduler, letter string, opts Options) *Reveal {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Reveal{
		sched:  sched,
		opts:   opts,
		rng:    rng,
		letter: []rune(norm.NFC.String(letter)),
	}
}

// Unlock starts the reveal: a settle delay, then one character per tick
func (r *Reveal) Unlock() {
	if r.unlocked {
		return
	}
	r.unlocked = true
	r.settleTimer = r.sched.After(constants.LetterSettleDelay, func() {
		r.settleTimer = 0
		r.typing = true
		r.typeTimer = r.sched.Every(constants.TypewriterInterval, r.tick)
	})
}

func (r *Reveal) tick() {
	if r.shown < len(r.letter) {
		r.shown++
		return
	}
	engine.CancelAll(r.sched, &r.typeTimer)
	r.finish(constants.CelebrationDelay)
}

// Skip shows the whole letter at once; it does nothing before Unlock or after completion
func (r *Reveal) Skip() {
	if !r.unlocked || r.complete {
		return
	}
	engine.CancelAll(r.sched, &r.settleTimer, &r.typeTimer)
	r.shown = len(r.letter)
	r.finish(constants.SkipCelebrationDelay)
}

func (r *Reveal) finish(delay time.Duration) {
	r.typing = false
	r.complete = true
	log.Printf("finale: letter complete (%d characters)", len(r.letter))
	r.celebrateTimer = r.sched.After(delay, func() {
		r.celebrateTimer = 0
		r.celebrate()
	})
}

func (r *Reveal) celebrate() {
	if r.celebrated {
		return
	}
	r.celebrated = true
	r.fireworks = launch(r.rng, r.sched.Now())
	if r.opts.OnCelebrate != nil {
		r.opts.OnCelebrate()
	}
}

// Replay asks the owner to restart the whole experience
func (r *Reveal) Replay() {
	if r.opts.OnReplay != nil {
		r.opts.OnReplay()
	}
}

// Reset tears down timers and progress
func (r *Reveal) Reset() {
	engine.CancelAll(r.sched, &r.settleTimer, &r.typeTimer, &r.celebrateTimer)
	r.shown = 0
	r.unlocked = false
	r.typing = false
	r.complete = false
	r.celebrated = false
	r.fireworks = nil
}

// Text returns the characters revealed so far
func (r *Reveal) Text() string { return string(r.letter[:r.shown]) }

// Letter returns the full normalised letter
func (r *Reveal) Letter() string { return string(r.letter) }

// Unlocked reports whether Unlock has been called
func (r *Reveal) Unlocked() bool { return r.unlocked }

// Typing reports whether the typewriter is running
func (r *Reveal) Typing() bool { return r.typing }

// Complete reports whether the whole letter is shown
func (r *Reveal) Complete() bool { return r.complete }

// Celebrated reports whether the celebration has fired
func (r *Reveal) Celebrated() bool { return r.celebrated }

// Signature is the closing line, empty until the letter is complete
func (r *Reveal) Signature() string {
	if !r.complete {
		return ""
	}
	return "With all my love, " + r.opts.FromName + " ♥"
}

// Fireworks returns the celebration particles at now
func (r *Reveal) Fireworks(now time.Time) []Spark {
	sparks := make([]Spark, 0, len(r.fireworks))
	for _, p := range r.fireworks {
		if s, ok := p.At(now); ok {
			sparks = append(sparks, s)
		}
	}
	return sparks
}
