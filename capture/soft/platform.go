// Package soft is a software capture platform: a synthetic camera and microphone
// and an encoder writing JPEG frames with WAV audio into a multipart stream
package soft

import (
	"image"
	"sync"
	"time"

	"github.com/gopxl/beep"

	"github.com/ramedia/lovescroll/capture"
	"github.com/ramedia/lovescroll/constants"
	"github.com/ramedia/lovescroll/engine"
)

// Options shape the simulated devices
type Options struct {
	// Deny makes every camera request fail with capture.ErrPermissionDenied
	Deny bool
	// NoCamera reports no camera in the probe and fails requests with capture.ErrNoDevice
	NoCamera bool
	// NoRecorder reports no recorder in the probe
	NoRecorder bool
	// NoMicrophone omits the audio track
	NoMicrophone bool

	// Latency is how long a camera request takes to resolve
	Latency time.Duration
	// FrameSize is the camera resolution; zero means the requested ideal
	FrameSize image.Point
	// MIMETypes overrides the supported containers
	MIMETypes []string
	// Tone is the microphone hum frequency in Hz
	Tone float64
}

// Platform implements capture.Platform in software
type Platform struct {
	sched engine.Scheduler
	opts  Options

	mu     sync.Mutex
	tracks []capture.Track
}

// New creates a software platform driven by sched
func New(sched engine.Scheduler, opts Options) *Platform {
	if len(opts.MIMETypes) == 0 {
		opts.MIMETypes = []string{capture.MIMEMotionJPEG}
	}
	if opts.Tone <= 0 {
		opts.Tone = 220
	}
	return &Platform{sched: sched, opts: opts}
}

// Probe reports the simulated devices
func (p *Platform) Probe() capture.Capabilities {
	return capture.Capabilities{
		Camera:    !p.opts.NoCamera,
		Recorder:  !p.opts.NoRecorder,
		MIMETypes: append([]string(nil), p.opts.MIMETypes...),
	}
}

// AcquireMedia resolves after the configured latency on the scheduler
func (p *Platform) AcquireMedia(c capture.Constraints, done func(*capture.MediaStream, error)) {
	p.sched.After(p.opts.Latency, func() {
		switch {
		case p.opts.NoCamera:
			done(nil, capture.ErrNoDevice)
		case p.opts.Deny:
			done(nil, capture.ErrPermissionDenied)
		default:
			done(p.open(c), nil)
		}
	})
}

func (p *Platform) open(c capture.Constraints) *capture.MediaStream {
	size := p.opts.FrameSize
	if size == (image.Point{}) {
		size = image.Pt(c.Width, c.Height)
	}
	if size.X <= 0 || size.Y <= 0 {
		size = image.Pt(constants.CameraIdealWidth, constants.CameraIdealHeight)
	}

	stream := &capture.MediaStream{Video: newCamera(p.sched, size)}
	if c.Audio && !p.opts.NoMicrophone {
		format := beep.Format{
			SampleRate:  beep.SampleRate(constants.AudioSampleRate),
			NumChannels: 2,
			Precision:   2,
		}
		stream.Audio = []capture.AudioTrack{newMicrophone(format, p.opts.Tone)}
	}

	p.mu.Lock()
	p.tracks = append(p.tracks, stream.Tracks()...)
	p.mu.Unlock()
	return stream
}

// LiveTracks counts tracks handed out and not yet stopped
func (p *Platform) LiveTracks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, t := range p.tracks {
		if t.Live() {
			n++
		}
	}
	return n
}

// NewEncoder creates a motion-JPEG encoder reading src on the scheduler
func (p *Platform) NewEncoder(src capture.FrameSource, audio []capture.AudioTrack, cfg capture.EncoderConfig, sink capture.Sink) (capture.Encoder, error) {
	return newEncoder(p.sched, src, audio, cfg, sink)
}
