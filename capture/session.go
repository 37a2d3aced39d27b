package capture

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/ramedia/lovescroll/constants"
	"github.com/ramedia/lovescroll/engine"
	"github.com/ramedia/lovescroll/playback"
)

// SceneSource supplies the experience view drawn into the upper half of each frame
type SceneSource interface {
	Snapshot() playback.Snapshot
}

// Session owns the resources of one recording: camera stream, surface, encoder and chunks
// At most one is alive per engine
type Session struct {
	sched  engine.Scheduler
	stream *MediaStream
	scene  SceneSource

	surface *Surface
	encoder Encoder
	mime    string
	chunks  [][]byte

	started   time.Time
	elapsed   int
	lastFrame time.Time
	interval  time.Duration

	frameLoop engine.Handle
	ticker    engine.Handle
	stopping  bool
}

func newSession(sched engine.Scheduler, stream *MediaStream, scene SceneSource) *Session {
	return &Session{sched: sched, stream: stream, scene: scene}
}

// start allocates the surface, starts the encoder and registers the compositing and duration loops
func (s *Session) start(p Platform, size image.Point, cfg EncoderConfig, timeslice time.Duration, sink Sink) error {
	s.surface = NewSurface(size.X, size.Y)
	s.mime = cfg.MIMEType
	s.chunks = nil
	s.elapsed = 0
	s.stopping = false

	// The encoder may read a frame as soon as it starts
	s.compose()

	enc, err := p.NewEncoder(s.surface, s.stream.Audio, cfg, sink)
	if err != nil {
		return fmt.Errorf("create %s encoder: %w: %w", cfg.MIMEType, ErrEncoderUnavailable, err)
	}
	if err := enc.Start(timeslice); err != nil {
		return fmt.Errorf("start %s encoder: %w: %w", cfg.MIMEType, ErrEncoderUnavailable, err)
	}
	s.encoder = enc
	s.started = s.sched.Now()

	// Compositing runs on display frames, throttled to the capture rate
	s.interval = time.Second / time.Duration(max(cfg.FPS, 1))
	s.lastFrame = s.started
	s.frameLoop = s.sched.OnFrame(func(now time.Time) {
		if now.Sub(s.lastFrame) < s.interval {
			return
		}
		s.lastFrame = now
		s.compose()
	})
	s.ticker = s.sched.Every(constants.DurationTick, func() {
		s.elapsed = int(s.sched.Now().Sub(s.started) / time.Second)
	})
	return nil
}

func (s *Session) compose() {
	var snap playback.Snapshot
	if s.scene != nil {
		snap = s.scene.Snapshot()
	}
	var cam image.Image
	if s.stream.Video != nil {
		if frame, ok := s.stream.Video.Frame(); ok {
			cam = frame
		}
	}
	s.surface.Paint(func(dst *image.RGBA) {
		Compose(dst, snap, cam)
	})
}

func (s *Session) append(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	s.chunks = append(s.chunks, chunk)
}

// halt stops compositing and the duration counter, then asks the encoder to finalize
func (s *Session) halt() {
	engine.CancelAll(s.sched, &s.frameLoop, &s.ticker)
	if s.encoder != nil && !s.stopping {
		s.stopping = true
		s.encoder.Stop()
	}
}

// assemble joins the chunks in arrival order and drops the encoder
func (s *Session) assemble() []byte {
	data := bytes.Join(s.chunks, nil)
	s.chunks = nil
	s.encoder = nil
	return data
}

// release halts everything and stops the camera tracks
func (s *Session) release() {
	s.halt()
	s.stream.Stop()
}
