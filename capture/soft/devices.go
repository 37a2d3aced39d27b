package soft

import (
	"image"
	"image/color"
	"math"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/ramedia/lovescroll/engine"
)

// camera paints an animated test pattern: a gradient with a drifting face-like disc
type camera struct {
	clock engine.Clock
	img   *image.RGBA
	start time.Time
	live  atomic.Bool
}

func newCamera(clock engine.Clock, size image.Point) *camera {
	c := &camera{
		clock: clock,
		img:   image.NewRGBA(image.Rect(0, 0, size.X, size.Y)),
		start: clock.Now(),
	}
	c.live.Store(true)
	return c
}

func (c *camera) Kind() string { return "video" }
func (c *camera) Live() bool   { return c.live.Load() }
func (c *camera) Stop()        { c.live.Store(false) }

// Frame renders the pattern for the current clock time
func (c *camera) Frame() (image.Image, bool) {
	if !c.live.Load() {
		return nil, false
	}
	t := c.clock.Now().Sub(c.start).Seconds()
	b := c.img.Bounds()
	w, h := b.Dx(), b.Dy()

	cx := float64(w)/2 + float64(w)/6*math.Sin(t*0.8)
	cy := float64(h)/2 + float64(h)/10*math.Cos(t*1.1)
	r := float64(min(w, h)) / 4

	for y := 0; y < h; y++ {
		row := c.img.Pix[y*c.img.Stride:]
		shade := uint8(40 + 80*y/h)
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+4]
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= r*r {
				px[0], px[1], px[2] = 0xe8, 0xb8, 0x98
			} else {
				px[0], px[1], px[2] = shade/2, shade/2, shade
			}
			px[3] = 0xff
		}
	}
	// Left eye only, so a mirrored frame is distinguishable from the source
	eye := image.Rect(int(cx-r/2), int(cy-r/3), int(cx-r/2)+int(r/6)+1, int(cy-r/3)+int(r/6)+1)
	for y := eye.Min.Y; y < eye.Max.Y; y++ {
		for x := eye.Min.X; x < eye.Max.X; x++ {
			if (image.Point{x, y}).In(b) {
				c.img.SetRGBA(x, y, color.RGBA{0x20, 0x20, 0x20, 0xff})
			}
		}
	}
	return c.img, true
}

// microphone hums a quiet tone; once stopped its stream ends
type microphone struct {
	format beep.Format
	tone   beep.Streamer
	live   atomic.Bool
}

func newMicrophone(format beep.Format, freq float64) *microphone {
	m := &microphone{format: format}
	sine, err := generators.SineTone(format.SampleRate, freq)
	if err != nil {
		m.tone = beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
			clear(samples)
			return len(samples), true
		})
	} else {
		m.tone = sine
	}
	m.live.Store(true)
	return m
}

func (m *microphone) Kind() string        { return "audio" }
func (m *microphone) Live() bool          { return m.live.Load() }
func (m *microphone) Stop()               { m.live.Store(false) }
func (m *microphone) Format() beep.Format { return m.format }

// Streamer returns the live signal at a tenth of full scale
func (m *microphone) Streamer() beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if !m.live.Load() {
			return 0, false
		}
		n, ok := m.tone.Stream(samples)
		for i := range samples[:n] {
			samples[i][0] *= 0.1
			samples[i][1] *= 0.1
		}
		return n, ok
	})
}
