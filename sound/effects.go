package sound

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a fixed-length tone
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s with an attack and a release inside duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.totalSamples - e.releaseSamples
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = max(float64(e.totalSamples-e.position)/float64(e.releaseSamples), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales linearly; a zero volume is silent rather than log2(0)
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func shaped(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	osc := NewOscillator(freq, d, wave, rate)
	return NewEnvelope(osc, d, d/10, d/2, rate)
}

// CreateTapSound is a short bright click standing in for a haptic pulse
func CreateTapSound(rate beep.SampleRate, d time.Duration) beep.Streamer {
	return shaped(1320, d, WaveSine, rate)
}

// CreateScratchSound is a burst of filtered noise
func CreateScratchSound(rate beep.SampleRate, d time.Duration) beep.Streamer {
	return newVolume(shaped(0, d, WaveNoise, rate), 0.4)
}

// CreateCatchSound is a rising two-note blip
func CreateCatchSound(rate beep.SampleRate, d time.Duration) beep.Streamer {
	return beep.Seq(
		shaped(880, d/2, WaveSquare, rate),
		shaped(1174.66, d/2, WaveSquare, rate),
	)
}

// CreateBrokenSound is a low saw buzz
func CreateBrokenSound(rate beep.SampleRate, d time.Duration) beep.Streamer {
	return shaped(110, d*2, WaveSaw, rate)
}

// CreateChimeSound is a bell with an octave overtone
func CreateChimeSound(rate beep.SampleRate, d time.Duration) beep.Streamer {
	return beep.Mix(
		newVolume(shaped(880, d, WaveSine, rate), 0.7),
		newVolume(shaped(1760, d*2/3, WaveSine, rate), 0.3),
	)
}

// CreateWinSound is an ascending arpeggio
func CreateWinSound(rate beep.SampleRate, d time.Duration) beep.Streamer {
	step := d / 3
	return beep.Seq(
		shaped(523.25, step, WaveSine, rate),
		shaped(659.25, step, WaveSine, rate),
		shaped(783.99, step*2, WaveSine, rate),
	)
}

// Effect builds the streamer for a cue at the configured volume
func Effect(kind Kind, d time.Duration, cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	var s beep.Streamer
	switch kind {
	case KindTap:
		s = CreateTapSound(rate, d)
	case KindScratch:
		s = CreateScratchSound(rate, d)
	case KindCatch:
		s = CreateCatchSound(rate, d)
	case KindBroken:
		s = CreateBrokenSound(rate, d)
	case KindWin:
		s = CreateWinSound(rate, d)
	case KindChime:
		s = CreateChimeSound(rate, d)
	default:
		return nil
	}
	return newVolume(s, cfg.EffectVolumes[kind]*cfg.MasterVolume)
}
