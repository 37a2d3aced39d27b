// Package catch implements the heart catching gate that unlocks the finale
package catch

import (
	"log"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/ramedia/lovescroll/constants"
	"github.com/ramedia/lovescroll/engine"
)

// Phase is the gate lifecycle
type Phase int

const (
	PhaseIntro Phase = iota
	PhasePlaying
	PhaseWon
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhasePlaying:
		return "playing"
	case PhaseWon:
		return "won"
	}
	return "unknown"
}

// Kind separates hearts from broken hearts
type Kind int

const (
	Positive Kind = iota
	Negative
)

// Flash is the short feedback shown after a tap
type Flash int

const (
	FlashNone Flash = iota
	FlashGood
	FlashBad
)

var (
	positiveGlyphs = []rune{'💖', '💗', '💕', '♥', '💓'}
	negativeGlyphs = []rune{'💔', '🖤'}
)

// Token is one falling heart; Lane and Y are percentages of the play field
type Token struct {
	ID    string
	Lane  float64
	Y     float64
	Speed float64
	Kind  Kind
	Size  float64
	Glyph rune
}

// Haptics delivers a short vibration-style pulse
type Haptics interface {
	Pulse(d time.Duration)
}

// Rand is the randomness the spawner draws from; *rand.Rand satisfies it
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Options configures a Game
type Options struct {
	Haptics Haptics
	Rand    Rand
	OnWin   func()
}

// Game is the gate mini-game; all methods must be called on the scheduler loop
type Game struct {
	sched engine.Scheduler
	opts  Options
	rng   Rand

	phase    Phase
	score    int
	combo    int
	tokens   []*Token
	consumed map[string]struct{}
	flash    Flash

	spawnTimer engine.Handle
	fallFrame  engine.Handle
	flashTimer engine.Handle
	bursts     map[engine.Handle]struct{}
}

// New creates a game in the intro phase
func New(sched engine.Scheduler, opts Options) *Game {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Game{
		sched:    sched,
		opts:     opts,
		rng:      rng,
		consumed: make(map[string]struct{}),
		bursts:   make(map[engine.Handle]struct{}),
	}
}

// Start enters the playing phase and begins spawning
func (g *Game) Start() {
	if g.phase != PhaseIntro {
		return
	}
	g.score = 0
	g.combo = 0
	g.tokens = nil
	clear(g.consumed)
	g.phase = PhasePlaying
	log.Printf("catch: game started")

	g.burst(constants.FirstSpawnDelay)
	g.burst(constants.SecondSpawnDelay)
	g.spawnTimer = g.sched.Every(constants.SpawnInterval, func() {
		g.spawnRandom()
		if g.rng.Float64() < constants.DoubleSpawnChance {
			g.burst(constants.DoubleSpawnDelay)
		}
	})
	g.fallFrame = g.sched.OnFrame(func(time.Time) { g.fall() })
}

// burst schedules a single delayed spawn
func (g *Game) burst(d time.Duration) {
	var h engine.Handle
	h = g.sched.After(d, func() {
		delete(g.bursts, h)
		g.spawnRandom()
	})
	g.bursts[h] = struct{}{}
}

func (g *Game) spawnRandom() {
	kind := Positive
	if g.rng.Float64() < constants.NegativeChance {
		kind = Negative
	}
	g.SpawnToken(kind)
}

// SpawnToken adds a token of the given kind at a random lane and speed
func (g *Game) SpawnToken(kind Kind) *Token {
	if g.phase != PhasePlaying {
		return nil
	}
	t := &Token{
		ID:    uuid.NewString(),
		Lane:  constants.LaneMin + g.rng.Float64()*constants.LaneSpan,
		Y:     constants.SpawnY,
		Speed: constants.SpeedMin + g.rng.Float64()*constants.SpeedSpan,
		Kind:  kind,
	}
	if kind == Negative {
		t.Size = constants.NegativeSize
		t.Glyph = negativeGlyphs[g.rng.IntN(len(negativeGlyphs))]
	} else {
		t.Size = constants.PositiveSizeMin + g.rng.Float64()*constants.PositiveSizeSpan
		t.Glyph = positiveGlyphs[g.rng.IntN(len(positiveGlyphs))]
	}
	g.tokens = append(g.tokens, t)
	return t
}

// fall moves every token down one step and drops those past the bottom; missed tokens cost nothing
func (g *Game) fall() {
	if g.phase != PhasePlaying {
		return
	}
	kept := g.tokens[:0]
	for _, t := range g.tokens {
		t.Y += t.Speed
		if t.Y < constants.BottomBoundary {
			kept = append(kept, t)
		}
	}
	clear(g.tokens[len(kept):])
	g.tokens = kept
}

// Tap catches a token; a token can be caught at most once
func (g *Game) Tap(id string) bool {
	if g.phase != PhasePlaying {
		return false
	}
	if _, ok := g.consumed[id]; ok {
		return false
	}
	i := slices.IndexFunc(g.tokens, func(t *Token) bool { return t.ID == id })
	if i < 0 {
		return false
	}
	g.consumed[id] = struct{}{}
	t := g.tokens[i]
	g.tokens = slices.Delete(g.tokens, i, i+1)

	if t.Kind == Positive {
		g.score = min(g.score+1, constants.WinningScore)
		g.combo++
		g.showFlash(FlashGood)
		g.pulse(constants.PositivePulse)
	} else {
		g.score = max(g.score-constants.NegativePenalty, 0)
		g.combo = 0
		g.showFlash(FlashBad)
		g.pulse(constants.NegativePulse)
	}

	g.checkWin()
	return true
}

// TokenAt returns the topmost token whose hit box covers the point, both in percent
func (g *Game) TokenAt(lane, y, radius float64) *Token {
	for i := len(g.tokens) - 1; i >= 0; i-- {
		t := g.tokens[i]
		if math.Abs(t.Lane-lane) <= radius && math.Abs(t.Y-y) <= radius {
			return t
		}
	}
	return nil
}

func (g *Game) checkWin() {
	if g.phase != PhasePlaying || g.score < constants.WinningScore {
		return
	}
	g.phase = PhaseWon
	g.stop()
	g.pulse(constants.WinPulse)
	log.Printf("catch: game won")
	if g.opts.OnWin != nil {
		g.opts.OnWin()
	}
}

// stop cancels spawning, bursts and falling together
func (g *Game) stop() {
	engine.CancelAll(g.sched, &g.spawnTimer, &g.fallFrame)
	for h := range g.bursts {
		g.sched.Cancel(h)
	}
	clear(g.bursts)
}

func (g *Game) showFlash(f Flash) {
	g.flash = f
	g.sched.Cancel(g.flashTimer)
	g.flashTimer = g.sched.After(constants.FlashDuration, func() {
		g.flash = FlashNone
		g.flashTimer = 0
	})
}

func (g *Game) pulse(d time.Duration) {
	if g.opts.Haptics != nil {
		g.opts.Haptics.Pulse(d)
	}
}

// Reset returns the game to the intro phase
func (g *Game) Reset() {
	g.stop()
	engine.CancelAll(g.sched, &g.flashTimer)
	g.phase = PhaseIntro
	g.score = 0
	g.combo = 0
	g.tokens = nil
	g.flash = FlashNone
	clear(g.consumed)
}

// Phase returns the current phase
func (g *Game) Phase() Phase { return g.phase }

// Score returns the score, always within 0..WinningScore
func (g *Game) Score() int { return g.score }

// Combo returns the run of consecutive hearts
func (g *Game) Combo() int { return g.combo }

// ShowCombo reports whether the combo indicator should be visible
func (g *Game) ShowCombo() bool { return g.combo >= constants.ComboDisplayThreshold }

// Flash returns the active tap feedback
func (g *Game) Flash() Flash { return g.flash }

// Tokens returns a copy of the tokens on the field
func (g *Game) Tokens() []Token {
	out := make([]Token, len(g.tokens))
	for i, t := range g.tokens {
		out[i] = *t
	}
	return out
}
