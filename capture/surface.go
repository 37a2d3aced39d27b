package capture

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/ramedia/lovescroll/constants"
	"github.com/ramedia/lovescroll/playback"
)

var (
	colorBackground = color.RGBA{0x0a, 0x0a, 0x0a, 0xff}
	colorExperience = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorRoseStrong = color.NRGBA{244, 63, 94, 204}
	colorRoseDim    = color.NRGBA{244, 63, 94, 77}
	colorRoseFaint  = color.NRGBA{244, 63, 94, 38}
	colorBar        = color.NRGBA{0, 0, 0, 128}
	colorLabel      = color.NRGBA{255, 255, 255, 77}
	colorText       = color.NRGBA{255, 255, 255, 204}
)

// Surface is the portrait frame buffer shared by the compositor and the encoder
type Surface struct {
	mu  sync.RWMutex
	img *image.RGBA
}

// NewSurface allocates a width x height surface
func NewSurface(width, height int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Bounds returns the surface rectangle
func (s *Surface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// Frame returns a copy of the current frame
func (s *Surface) Frame() image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// Paint runs fn with exclusive access to the pixels
func (s *Surface) Paint(fn func(dst *image.RGBA)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.img)
}

// Compose draws one frame: experience on top, mirrored camera below, then the overlays
func Compose(dst *image.RGBA, snap playback.Snapshot, cam image.Image) {
	b := dst.Bounds()
	half := b.Min.Y + b.Dy()/2
	top := image.Rect(b.Min.X, b.Min.Y, b.Max.X, half)
	bottom := image.Rect(b.Min.X, half, b.Max.X, b.Max.Y)

	fill(dst, b, colorBackground, draw.Src)

	fill(dst, top, colorExperience, draw.Src)
	fill(dst, image.Rect(b.Min.X, half-40, b.Max.X, half-38), colorRoseFaint, draw.Over)
	drawExperience(dst, top, snap)

	if cam != nil {
		drawMirrored(dst, bottom, cam)
	}

	bar := image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+constants.LabelBarHeight)
	fill(dst, bar, colorBar, draw.Over)
	banner := fmt.Sprintf("%s & %s · LoveScroll", snap.FromName, snap.ToName)
	text(dst, banner, b.Min.X+b.Dx()/2, b.Min.Y+24, colorRoseStrong, true)

	fill(dst, image.Rect(b.Min.X, half-1, b.Max.X, half+1), colorRoseDim, draw.Over)

	text(dst, "Their Experience", b.Min.X+12, half-8, colorLabel, false)
	text(dst, "Their Reaction", b.Min.X+12, half+16, colorLabel, false)
}

// CropToAspect returns the centred sub-rectangle of src matching the aspect of dst
func CropToAspect(src, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw == 0 || sh == 0 || dst.Dx() == 0 || dst.Dy() == 0 {
		return src
	}
	target := float64(dst.Dx()) / float64(dst.Dy())
	actual := float64(sw) / float64(sh)

	if actual > target {
		w := int(float64(sh) * target)
		x := src.Min.X + (sw-w)/2
		return image.Rect(x, src.Min.Y, x+w, src.Max.Y)
	}
	h := int(float64(sw) / target)
	y := src.Min.Y + (sh-h)/2
	return image.Rect(src.Min.X, y, src.Max.X, y+h)
}

// drawMirrored scales the cropped camera frame into r, flipped horizontally
func drawMirrored(dst *image.RGBA, r image.Rectangle, cam image.Image) {
	sr := CropToAspect(cam.Bounds(), r)
	if sr.Empty() {
		return
	}
	kx := float64(r.Dx()) / float64(sr.Dx())
	ky := float64(r.Dy()) / float64(sr.Dy())

	m := f64.Aff3{
		-kx, 0, float64(r.Max.X) + float64(sr.Min.X)*kx,
		0, ky, float64(r.Min.Y) - float64(sr.Min.Y)*ky,
	}
	draw.ApproxBiLinear.Transform(dst, m, cam, sr, draw.Src, nil)
}

func drawExperience(dst *image.RGBA, r image.Rectangle, snap playback.Snapshot) {
	x := r.Min.X + 24
	y := r.Min.Y + constants.LabelBarHeight + 40

	var lines []string
	switch snap.Phase {
	case playback.PhaseNotStarted:
		lines = []string{"A story for " + snap.ToName, "from " + snap.FromName}
	case playback.PhaseStarted:
		lines = []string{fmt.Sprintf("Memory %d of %d", min(snap.Completed+1, snap.Total), snap.Total)}
		if snap.Caption != "" {
			lines = append(lines, snap.Caption)
		}
	case playback.PhaseGateActive:
		lines = []string{"Catch the hearts", fmt.Sprintf("Score %d / %d", snap.Score, constants.WinningScore)}
		if snap.Combo >= constants.ComboDisplayThreshold {
			lines = append(lines, fmt.Sprintf("%dx combo", snap.Combo))
		}
	case playback.PhaseFinale:
		lines = []string{"A letter from " + snap.FromName}
		lines = append(lines, wrap(snap.Letter, (r.Dx()-48)/basicfont.Face7x13.Advance)...)
	}

	for _, l := range lines {
		if y > r.Max.Y-48 {
			break
		}
		text(dst, l, x, y, colorText, false)
		y += 20
	}

	if snap.ShowProgress && snap.Total > 0 {
		drawProgress(dst, r, snap.Completed, snap.Total)
	}
}

// drawProgress renders one dot per memory along the bottom of the experience region
func drawProgress(dst *image.RGBA, r image.Rectangle, done, total int) {
	const size, gap = 8, 6
	width := total*size + (total-1)*gap
	x := r.Min.X + (r.Dx()-width)/2
	y := r.Max.Y - 60
	for i := 0; i < total; i++ {
		c := colorRoseDim
		if i < done {
			c = colorRoseStrong
		}
		fill(dst, image.Rect(x, y, x+size, y+size), c, draw.Over)
		x += size + gap
	}
}

func fill(dst draw.Image, r image.Rectangle, c color.Color, op draw.Op) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, op)
}

// text draws s with its baseline at y; centred text is centred on x
func text(dst draw.Image, s string, x, y int, c color.Color, centred bool) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
	}
	if centred {
		x -= d.MeasureString(s).Round() / 2
	}
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}

// wrap splits s into lines of at most width runes, breaking on spaces where possible
func wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		runes := []rune(para)
		for len(runes) > width {
			cut := width
			for i := width; i > 0; i-- {
				if runes[i] == ' ' {
					cut = i
					break
				}
			}
			lines = append(lines, string(runes[:cut]))
			runes = runes[cut:]
			for len(runes) > 0 && runes[0] == ' ' {
				runes = runes[1:]
			}
		}
		lines = append(lines, string(runes))
	}
	return lines
}
