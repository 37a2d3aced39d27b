package soft

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"log"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/ramedia/lovescroll/capture"
	"github.com/ramedia/lovescroll/engine"
)

// Boundary separates parts in a motion-JPEG recording
const Boundary = "lovescroll-frame"

// Manifest is the first part of every recording
type Manifest struct {
	MIMEType   string `json:"mime_type"`
	FPS        int    `json:"fps"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Bitrate    int    `json:"bitrate"`
	Quality    int    `json:"quality"`
	SampleRate int    `json:"sample_rate,omitempty"`
}

const (
	headerFrame  = "X-Frame"
	headerOffset = "X-Offset-Ms"
)

type encoder struct {
	sched engine.Scheduler
	src   capture.FrameSource
	cfg   capture.EncoderConfig
	sink  capture.Sink

	audio  beep.Streamer
	format beep.Format

	buf     bytes.Buffer
	mw      *multipart.Writer
	quality int

	frames     int
	started    time.Time
	audioUntil time.Time

	frameTimer engine.Handle
	sliceTimer engine.Handle
	running    bool
	stopped    bool
}

func newEncoder(sched engine.Scheduler, src capture.FrameSource, audio []capture.AudioTrack, cfg capture.EncoderConfig, sink capture.Sink) (*encoder, error) {
	if cfg.MIMEType != capture.MIMEMotionJPEG {
		return nil, fmt.Errorf("software encoder cannot produce %q", cfg.MIMEType)
	}
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", cfg.FPS)
	}

	e := &encoder{
		sched: sched,
		src:   src,
		cfg:   cfg,
		sink:  sink,
	}
	e.mw = multipart.NewWriter(&e.buf)
	if err := e.mw.SetBoundary(Boundary); err != nil {
		return nil, err
	}

	if len(audio) > 0 {
		streams := make([]beep.Streamer, len(audio))
		for i, a := range audio {
			streams[i] = a.Streamer()
		}
		e.audio = beep.Mix(streams...)
		e.format = audio[0].Format()
	}

	b := src.Bounds()
	e.quality = qualityFor(cfg.Bitrate, cfg.FPS, b.Dx()*b.Dy())
	return e, nil
}

// qualityFor maps the bitrate budget per pixel to a JPEG quality
func qualityFor(bitrate, fps, pixels int) int {
	if bitrate <= 0 || pixels <= 0 {
		return jpeg.DefaultQuality
	}
	bpp := float64(bitrate) / float64(fps*pixels)
	return min(max(int(bpp*400), 30), 90)
}

func (e *encoder) MIMEType() string { return e.cfg.MIMEType }

func (e *encoder) Start(timeslice time.Duration) error {
	if e.running || e.stopped {
		return errors.New("encoder already started")
	}
	e.running = true
	e.started = e.sched.Now()
	e.audioUntil = e.started

	b := e.src.Bounds()
	m := Manifest{
		MIMEType: e.cfg.MIMEType,
		FPS:      e.cfg.FPS,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Bitrate:  e.cfg.Bitrate,
		Quality:  e.quality,
	}
	if e.audio != nil {
		m.SampleRate = int(e.format.SampleRate)
	}
	part, err := e.mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"application/json"}})
	if err != nil {
		return err
	}
	if err := json.NewEncoder(part).Encode(m); err != nil {
		return err
	}

	e.writeFrame()
	e.frameTimer = e.sched.Every(time.Second/time.Duration(e.cfg.FPS), e.writeFrame)
	e.sliceTimer = e.sched.Every(timeslice, e.flush)
	return nil
}

func (e *encoder) Stop() {
	if e.stopped {
		return
	}
	e.stopped = true
	engine.CancelAll(e.sched, &e.frameTimer, &e.sliceTimer)

	if e.running {
		e.writeAudio(e.sched.Now())
		if err := e.mw.Close(); err != nil {
			log.Printf("soft encoder: close: %v", err)
		}
		e.emit()
	}
	if e.sink.OnStop != nil {
		e.sink.OnStop()
	}
}

func (e *encoder) offset(now time.Time) string {
	return strconv.FormatInt(now.Sub(e.started).Milliseconds(), 10)
}

func (e *encoder) writeFrame() {
	now := e.sched.Now()
	part, err := e.mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"image/jpeg"},
		headerFrame:    {strconv.Itoa(e.frames)},
		headerOffset:   {e.offset(now)},
	})
	if err != nil {
		log.Printf("soft encoder: frame part: %v", err)
		return
	}
	if err := jpeg.Encode(part, e.src.Frame(), &jpeg.Options{Quality: e.quality}); err != nil {
		log.Printf("soft encoder: frame %d: %v", e.frames, err)
		return
	}
	e.frames++
}

// writeAudio appends the microphone samples captured since the previous segment
func (e *encoder) writeAudio(now time.Time) {
	if e.audio == nil {
		return
	}
	n := e.format.SampleRate.N(now.Sub(e.audioUntil))
	if n <= 0 {
		return
	}
	from := e.audioUntil
	e.audioUntil = now

	var ws writeSeeker
	if err := wav.Encode(&ws, beep.Take(n, e.audio), e.format); err != nil {
		log.Printf("soft encoder: audio segment: %v", err)
		return
	}
	part, err := e.mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"audio/wav"},
		headerOffset:   {e.offset(from)},
	})
	if err != nil {
		log.Printf("soft encoder: audio part: %v", err)
		return
	}
	if _, err := part.Write(ws.buf); err != nil {
		log.Printf("soft encoder: audio write: %v", err)
	}
}

func (e *encoder) flush() {
	e.writeAudio(e.sched.Now())
	e.emit()
}

func (e *encoder) emit() {
	if e.buf.Len() == 0 || e.sink.OnData == nil {
		e.buf.Reset()
		return
	}
	chunk := bytes.Clone(e.buf.Bytes())
	e.buf.Reset()
	e.sink.OnData(chunk)
}

// writeSeeker is an in-memory io.WriteSeeker for the WAV header rewrite
type writeSeeker struct {
	buf []byte
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	if end := w.pos + len(p); end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[w.pos:], p)
	w.pos += len(p)
	return len(p), nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.buf)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("negative position")
	}
	w.pos = int(abs)
	return abs, nil
}
