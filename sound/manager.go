// Package sound renders haptic pulses and celebration cues as short synthesized sounds
package sound

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/ramedia/lovescroll/constants"
)

// Manager mixes cues into the speaker; every method is safe before Initialize and from any goroutine
type Manager struct {
	mu          sync.Mutex
	cfg         *Config
	mixer       *beep.Mixer
	initialized bool
}

// NewManager creates a manager; nil cfg means DefaultConfig
func NewManager(cfg *Config) *Manager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Manager{
		cfg:   cfg,
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker; a disabled config leaves the manager silent
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized || !m.cfg.Enabled {
		return nil
	}

	rate := beep.SampleRate(m.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(m.mixer)
	m.initialized = true
	return nil
}

// Cleanup silences everything; beep has no speaker close so the mixer is just emptied
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Lock()
	m.mixer.Clear()
	speaker.Unlock()
	m.initialized = false
}

// Play queues a cue lasting roughly d
func (m *Manager) Play(kind Kind, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	s := Effect(kind, d, m.cfg)
	if s == nil {
		return
	}
	speaker.Lock()
	m.mixer.Add(s)
	speaker.Unlock()
}

// Pulse plays the audible stand-in for a vibration of length d
func (m *Manager) Pulse(d time.Duration) {
	if d >= constants.WinPulse {
		m.Play(KindWin, 3*d)
		return
	}
	m.Play(KindTap, d)
}

// Catch plays the caught-heart cue
func (m *Manager) Catch(broken bool) {
	if broken {
		m.Play(KindBroken, 150*time.Millisecond)
		return
	}
	m.Play(KindCatch, 120*time.Millisecond)
}

// Celebrate plays the finale chime
func (m *Manager) Celebrate() {
	m.Play(KindChime, 900*time.Millisecond)
}

// Pending returns the number of cues still playing
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return m.mixer.Len()
}
