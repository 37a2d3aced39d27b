// Package reveal implements the per-memory reveal gestures
package reveal

import (
	"time"

	"github.com/ramedia/lovescroll/constants"
	"github.com/ramedia/lovescroll/model"
)

// Haptics delivers a short vibration-style pulse; implementations may do nothing
type Haptics interface {
	Pulse(d time.Duration)
}

// Handler is the capability shared by every reveal variant
type Handler interface {
	// Register records one gesture and returns true only on the call that reveals
	Register() bool
	Revealed() bool
	// Progress is 0..100; tap variants jump straight to 100
	Progress() int
	Variant() model.Variant
	// Hint is the prompt shown under a locked memory
	Hint() string
	// RevealDelay is how long the reveal animation plays before the memory opens
	RevealDelay() time.Duration
}

// New returns the handler for a variant
func New(v model.Variant, haptics Haptics) Handler {
	switch v {
	case model.VariantScratchAccumulate:
		return &ScratchCard{accumulator: accumulator{haptics: haptics}}
	case model.VariantBurstTap:
		return &HeartBurst{tap: tap{haptics: haptics}}
	case model.VariantDropReveal:
		return &PolaroidDrop{tap: tap{haptics: haptics}}
	case model.VariantSealBreak:
		return &Envelope{tap: tap{haptics: haptics}}
	default:
		return &GiftBox{tap: tap{haptics: haptics}}
	}
}

// tap reveals on the first gesture
type tap struct {
	haptics  Haptics
	revealed bool
}

func (t *tap) Register() bool {
	if t.revealed {
		return false
	}
	t.revealed = true
	pulse(t.haptics, constants.TapPulse)
	return true
}

func (t *tap) Revealed() bool { return t.revealed }

func (t *tap) Progress() int {
	if t.revealed {
		return constants.RevealThreshold
	}
	return 0
}

func (t *tap) Hint() string { return "Tap to reveal" }

func (t *tap) RevealDelay() time.Duration { return constants.TapRevealDelay }

// accumulator reveals once enough gestures have been collected
type accumulator struct {
	haptics  Haptics
	progress int
	revealed bool
}

func (a *accumulator) Register() bool {
	if a.revealed {
		return false
	}
	a.progress += constants.ScratchIncrement
	pulse(a.haptics, constants.ScratchPulse)
	if a.progress >= constants.RevealThreshold {
		a.revealed = true
		return true
	}
	return false
}

func (a *accumulator) Revealed() bool { return a.revealed }

func (a *accumulator) Progress() int {
	if a.progress > constants.RevealThreshold {
		return constants.RevealThreshold
	}
	return a.progress
}

func (a *accumulator) Hint() string { return "Tap to scratch" }

func (a *accumulator) RevealDelay() time.Duration { return constants.ScratchRevealDelay }

// GiftBox opens with a single tap
type GiftBox struct{ tap }

func (*GiftBox) Variant() model.Variant { return model.VariantGiftBox }

// ScratchCard needs repeated taps to wear off the coating
type ScratchCard struct{ accumulator }

func (*ScratchCard) Variant() model.Variant { return model.VariantScratchAccumulate }

// HeartBurst pops with a single tap
type HeartBurst struct{ tap }

func (*HeartBurst) Variant() model.Variant { return model.VariantBurstTap }

// PolaroidDrop develops with a single tap
type PolaroidDrop struct{ tap }

func (*PolaroidDrop) Variant() model.Variant { return model.VariantDropReveal }

// Envelope breaks its seal with a single tap
type Envelope struct{ tap }

func (*Envelope) Variant() model.Variant { return model.VariantSealBreak }

func pulse(h Haptics, d time.Duration) {
	if h != nil {
		h.Pulse(d)
	}
}
