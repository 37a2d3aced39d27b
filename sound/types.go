package sound

// Kind identifies a sound cue
type Kind int

const (
	KindTap     Kind = iota // Gift, heart, polaroid and envelope reveals
	KindScratch             // One scratch-card stroke
	KindCatch               // Caught heart
	KindBroken              // Caught broken heart
	KindWin                 // Gate won
	KindChime               // Finale celebration
	kindCount
)

var kindNames = [...]string{
	KindTap:     "tap",
	KindScratch: "scratch",
	KindCatch:   "catch",
	KindBroken:  "broken",
	KindWin:     "win",
	KindChime:   "chime",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Config holds volumes and the output rate
type Config struct {
	Enabled       bool
	MasterVolume  float64
	EffectVolumes [kindCount]float64
	SampleRate    int
}

// DefaultConfig returns audible defaults
func DefaultConfig() *Config {
	cfg := &Config{
		Enabled:      true,
		MasterVolume: 0.5,
		SampleRate:   44100,
	}
	for i := range cfg.EffectVolumes {
		cfg.EffectVolumes[i] = 1.0
	}
	cfg.EffectVolumes[KindScratch] = 0.6
	cfg.EffectVolumes[KindBroken] = 0.8
	return cfg
}
