// Package capture records the viewer's reaction: it composites the experience
// with a mirrored camera feed into one portrait frame and encodes it locally
package capture

import (
	"errors"
	"image"
	"slices"
	"time"

	"github.com/gopxl/beep"
)

var (
	// ErrPermissionDenied is returned by a platform when the user refuses camera access
	ErrPermissionDenied = errors.New("camera permission denied")
	// ErrNoDevice is returned when no camera is attached
	ErrNoDevice = errors.New("no camera device")
	// ErrEncoderUnavailable means no preferred container is supported or the encoder failed to start
	ErrEncoderUnavailable = errors.New("no supported recording encoder")
	// ErrUnsupported marks a platform lacking camera or recorder capability
	ErrUnsupported = errors.New("recording not supported on this platform")
	// ErrNoArtifact is returned when a handle has been revoked or never existed
	ErrNoArtifact = errors.New("artifact not found")
)

// Capabilities is the result of the one-time platform probe
type Capabilities struct {
	Camera    bool
	Recorder  bool
	MIMETypes []string
}

// IsTypeSupported reports whether the recorder can produce mime
func (c Capabilities) IsTypeSupported(mime string) bool {
	return c.Recorder && slices.Contains(c.MIMETypes, mime)
}

// Constraints describe the requested camera stream
type Constraints struct {
	Width  int
	Height int
	Facing string
	Audio  bool
}

// Track is one live media track
type Track interface {
	Kind() string
	Live() bool
	Stop()
}

// VideoTrack yields camera frames; ok is false until the first frame or after Stop
type VideoTrack interface {
	Track
	Frame() (img image.Image, ok bool)
}

// AudioTrack exposes a live microphone as a beep stream
type AudioTrack interface {
	Track
	Streamer() beep.Streamer
	Format() beep.Format
}

// MediaStream is an acquired camera with its microphone tracks
type MediaStream struct {
	Video VideoTrack
	Audio []AudioTrack
}

// Tracks returns every track in the stream
func (m *MediaStream) Tracks() []Track {
	var tracks []Track
	if m.Video != nil {
		tracks = append(tracks, m.Video)
	}
	for _, a := range m.Audio {
		tracks = append(tracks, a)
	}
	return tracks
}

// Stop ends every track
func (m *MediaStream) Stop() {
	for _, t := range m.Tracks() {
		t.Stop()
	}
}

// Live reports whether any track is still running
func (m *MediaStream) Live() bool {
	return slices.ContainsFunc(m.Tracks(), Track.Live)
}

// FrameSource is read by an encoder for each video frame
type FrameSource interface {
	Bounds() image.Rectangle
	Frame() image.Image
}

// EncoderConfig is the recording format
type EncoderConfig struct {
	MIMEType string
	FPS      int
	Bitrate  int
}

// Sink receives encoder output; callbacks may arrive on any goroutine
type Sink struct {
	OnData func(chunk []byte)
	OnStop func()
}

// Encoder turns frames and audio into container chunks
type Encoder interface {
	MIMEType() string
	// Start begins encoding and delivers a chunk every timeslice
	Start(timeslice time.Duration) error
	// Stop flushes the final chunk, then calls Sink.OnStop exactly once
	Stop()
}

// Platform is the camera and recorder backend
type Platform interface {
	// Probe reports device and codec support; it is called once per engine
	Probe() Capabilities
	// AcquireMedia requests a camera stream; done may run on any goroutine
	AcquireMedia(c Constraints, done func(*MediaStream, error))
	NewEncoder(src FrameSource, audio []AudioTrack, cfg EncoderConfig, sink Sink) (Encoder, error)
}
