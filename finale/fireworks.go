package finale

import (
	"math/rand/v2"
	"time"

	"github.com/ramedia/lovescroll/constants"
)

var sparkGlyphs = []rune{'✦', '♥', '✨', '💕', '⭐'}

// Particle flies from the centre of the screen to a target, then fades
// Positions are percentages of the screen
type Particle struct {
	Glyph    rune
	Start    time.Time
	Delay    time.Duration
	Duration time.Duration
	TargetX  float64
	TargetY  float64
}

// Spark is a particle sampled at one instant
type Spark struct {
	Glyph   rune
	X, Y    float64
	Opacity float64
}

func launch(rng *rand.Rand, now time.Time) []Particle {
	ps := make([]Particle, constants.CelebrationParticles)
	for i := range ps {
		ps[i] = Particle{
			Glyph:    sparkGlyphs[i%len(sparkGlyphs)],
			Start:    now,
			Delay:    time.Duration(rng.Float64() * float64(800*time.Millisecond)),
			Duration: 1500*time.Millisecond + time.Duration(rng.Float64()*float64(time.Second)),
			TargetX:  20 + rng.Float64()*60,
			TargetY:  10 + rng.Float64()*60,
		}
	}
	return ps
}

// At samples the particle; ok is false before it launches and after it fades out
func (p Particle) At(now time.Time) (Spark, bool) {
	elapsed := now.Sub(p.Start) - p.Delay
	if elapsed < 0 || elapsed >= p.Duration {
		return Spark{}, false
	}
	t := float64(elapsed) / float64(p.Duration)
	// ease out
	e := 1 - (1-t)*(1-t)

	opacity := 1.0
	if t > 0.5 {
		opacity = 1 - (t-0.5)*2
	}
	return Spark{
		Glyph:   p.Glyph,
		X:       50 + (p.TargetX-50)*e,
		Y:       50 + (p.TargetY-50)*e,
		Opacity: opacity,
	}, true
}
