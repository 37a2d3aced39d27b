package capture

import (
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/ramedia/lovescroll/constants"
	"github.com/ramedia/lovescroll/engine"
)

// Options configures an Engine; zero values take the package defaults
type Options struct {
	Scene       SceneSource
	Size        image.Point
	FPS         int
	Bitrate     int
	Timeslice   time.Duration
	Preferences []string
	Registry    *Registry

	// OnStateChange is called on the scheduler loop after every transition
	OnStateChange func(State)
}

// Engine is the reaction recording state machine
// All methods run on the scheduler loop; platform callbacks are marshalled onto it with Post
type Engine struct {
	sched    engine.Scheduler
	platform Platform
	caps     Capabilities
	opts     Options
	registry *Registry

	state   State
	message string
	err     error

	session   *Session
	artifact  *Artifact
	autoStart engine.Handle

	// generation invalidates platform callbacks issued before the last Cleanup
	generation uint64
}

// New probes the platform once; without a camera or recorder the engine is permanently Unsupported
func New(sched engine.Scheduler, p Platform, opts Options) *Engine {
	if opts.Size == (image.Point{}) {
		opts.Size = image.Pt(constants.SurfaceWidth, constants.SurfaceHeight)
	}
	if opts.FPS <= 0 {
		opts.FPS = constants.CaptureFPS
	}
	if opts.Bitrate <= 0 {
		opts.Bitrate = constants.VideoBitrate
	}
	if opts.Timeslice <= 0 {
		opts.Timeslice = constants.ChunkInterval
	}
	if len(opts.Preferences) == 0 {
		opts.Preferences = DefaultPreferences
	}
	registry := opts.Registry
	if registry == nil {
		registry = NewRegistry()
	}

	e := &Engine{
		sched:    sched,
		platform: p,
		caps:     p.Probe(),
		opts:     opts,
		registry: registry,
	}
	if !e.caps.Camera || !e.caps.Recorder {
		e.state = StateUnsupported
		e.err = ErrUnsupported
		log.Printf("capture: unsupported (camera=%v recorder=%v)", e.caps.Camera, e.caps.Recorder)
	}
	return e
}

func (e *Engine) setState(s State) {
	if e.state == s {
		return
	}
	log.Printf("capture: %s -> %s", e.state, s)
	e.state = s
	if e.opts.OnStateChange != nil {
		e.opts.OnStateChange(s)
	}
}

func (e *Engine) fail(err error, message string) {
	e.err = err
	e.message = message
	log.Printf("capture: %v", err)
	e.setState(StateError)
}

// RequestPermission asks for the camera from Idle, or from Error as an explicit retry
func (e *Engine) RequestPermission() {
	if e.state != StateIdle && e.state != StateError {
		return
	}
	e.err = nil
	e.message = ""
	e.setState(StateRequesting)

	gen := e.generation
	e.platform.AcquireMedia(Constraints{
		Width:  constants.CameraIdealWidth,
		Height: constants.CameraIdealHeight,
		Facing: constants.CameraFacing,
		Audio:  true,
	}, func(stream *MediaStream, err error) {
		e.sched.Post(func() { e.acquired(gen, stream, err) })
	})
}

func (e *Engine) acquired(gen uint64, stream *MediaStream, err error) {
	if gen != e.generation || e.state != StateRequesting {
		if stream != nil {
			stream.Stop()
		}
		return
	}
	if err != nil {
		msg := constants.PermissionDeniedMessage
		if errors.Is(err, ErrNoDevice) {
			msg = "No camera found. Your reaction will not be recorded."
		}
		e.fail(err, msg)
		return
	}

	e.dropSession()
	e.session = newSession(e.sched, stream, e.opts.Scene)
	e.setState(StateReady)
	e.autoStart = e.sched.After(constants.AutoStartDelay, func() {
		e.autoStart = 0
		e.StartRecording()
	})
}

// StartRecording begins compositing and encoding; it only acts in Ready
func (e *Engine) StartRecording() {
	if e.state != StateReady || e.session == nil {
		return
	}
	engine.CancelAll(e.sched, &e.autoStart)

	mime, err := SelectMIMEType(e.caps, e.opts.Preferences)
	if err != nil {
		e.dropSession()
		e.fail(err, "Recording is not supported on this device.")
		return
	}

	gen := e.generation
	sess := e.session
	sink := Sink{
		OnData: func(chunk []byte) {
			e.sched.Post(func() {
				if gen == e.generation && e.session == sess {
					sess.append(chunk)
				}
			})
		},
		OnStop: func() {
			e.sched.Post(func() { e.finalize(gen, sess) })
		},
	}

	cfg := EncoderConfig{MIMEType: mime, FPS: e.opts.FPS, Bitrate: e.opts.Bitrate}
	if err := sess.start(e.platform, e.opts.Size, cfg, e.opts.Timeslice, sink); err != nil {
		e.dropSession()
		e.fail(err, "Recording is not supported on this device.")
		return
	}
	e.setState(StateRecording)
}

// StopRecording halts compositing and the duration counter and asks the encoder to finalize
// Outside Recording it does nothing
func (e *Engine) StopRecording() {
	if e.state != StateRecording || e.session == nil {
		return
	}
	e.session.halt()
}

func (e *Engine) finalize(gen uint64, sess *Session) {
	if gen != e.generation || sess != e.session || e.state != StateRecording {
		sess.assemble()
		return
	}
	e.setState(StateProcessing)
	data := sess.assemble()
	e.artifact = e.registry.Create(data, sess.mime, e.sched.Now())
	log.Printf("capture: artifact %s (%d bytes, %s)", e.artifact.Handle, e.artifact.Size, e.artifact.MIMEType)
	e.setState(StateComplete)
}

// dropSession stops the camera and microphone tracks and detaches the session
func (e *Engine) dropSession() {
	if e.session != nil {
		e.session.release()
		e.session = nil
	}
}

// Cleanup releases the camera, timers and artifact from any state; it is safe to call repeatedly
func (e *Engine) Cleanup() {
	e.generation++
	engine.CancelAll(e.sched, &e.autoStart)
	e.dropSession()
	if e.artifact != nil {
		e.registry.Revoke(e.artifact.Handle)
		e.artifact = nil
	}
	if e.state != StateUnsupported {
		e.err = nil
		e.message = ""
		e.setState(StateIdle)
	}
}

// State returns the lifecycle position
func (e *Engine) State() State { return e.state }

// Capabilities returns the probe result
func (e *Engine) Capabilities() Capabilities { return e.caps }

// Supported reports whether recording UI should be offered at all
func (e *Engine) Supported() bool { return e.state != StateUnsupported }

// Message is the user-facing error text, empty unless in Error
func (e *Engine) Message() string { return e.message }

// Err is the last failure cause
func (e *Engine) Err() error { return e.err }

// Elapsed returns whole seconds recorded; it freezes when recording stops
func (e *Engine) Elapsed() int {
	if e.session == nil {
		return 0
	}
	return e.session.elapsed
}

// Artifact returns the finished recording once Complete
func (e *Engine) Artifact() *Artifact { return e.artifact }

// Registry returns the artifact registry
func (e *Engine) Registry() *Registry { return e.registry }

// Stream returns the live camera stream for previews, or nil
func (e *Engine) Stream() *MediaStream {
	if e.session == nil {
		return nil
	}
	return e.session.stream
}

// Surface returns the compositing surface while a recording exists
func (e *Engine) Surface() *Surface {
	if e.session == nil {
		return nil
	}
	return e.session.surface
}

// FormatDuration renders seconds as m:ss
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
