package capture

import (
	"image"
	"image/color"
	"testing"

	"github.com/ramedia/lovescroll/constants"
	"github.com/ramedia/lovescroll/playback"
)

func TestCropToAspect(t *testing.T) {
	tests := []struct {
		name string
		src  image.Rectangle
		dst  image.Rectangle
		want image.Rectangle
	}{
		{"wider source crops sides", image.Rect(0, 0, 640, 480), image.Rect(0, 0, 720, 640), image.Rect(50, 0, 590, 480)},
		{"taller source crops top and bottom", image.Rect(0, 0, 480, 640), image.Rect(0, 0, 720, 640), image.Rect(0, 107, 480, 533)},
		{"same aspect untouched", image.Rect(0, 0, 360, 320), image.Rect(0, 0, 720, 640), image.Rect(0, 0, 360, 320)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CropToAspect(tt.src, tt.dst); got != tt.want {
				t.Errorf("CropToAspect() = %v, want %v", got, tt.want)
			}
		})
	}
}

// splitCamera is red on its left half and blue on its right
func splitCamera(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{0xff, 0, 0, 0xff}
			if x >= w/2 {
				c = color.RGBA{0, 0, 0xff, 0xff}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestComposeMirrorsCamera(t *testing.T) {
	s := NewSurface(constants.SurfaceWidth, constants.SurfaceHeight)
	snap := playback.Snapshot{FromName: "Alex", ToName: "Sam"}

	s.Paint(func(dst *image.RGBA) {
		Compose(dst, snap, splitCamera(640, 480))
	})
	frame := s.Frame().(*image.RGBA)

	left := frame.RGBAAt(100, 1000)
	right := frame.RGBAAt(620, 1000)
	if left.B < 0xc0 || left.R > 0x40 {
		t.Errorf("Left of reaction should show the camera's right side (blue), got %v", left)
	}
	if right.R < 0xc0 || right.B > 0x40 {
		t.Errorf("Right of reaction should show the camera's left side (red), got %v", right)
	}
}

func TestComposeLayout(t *testing.T) {
	s := NewSurface(constants.SurfaceWidth, constants.SurfaceHeight)
	s.Paint(func(dst *image.RGBA) {
		Compose(dst, playback.Snapshot{FromName: "A", ToName: "B"}, nil)
	})
	frame := s.Frame().(*image.RGBA)

	if got := frame.RGBAAt(700, 300); got != colorExperience {
		t.Errorf("Experience region should be %v, got %v", colorExperience, got)
	}
	if got := frame.RGBAAt(700, 1000); got != colorBackground {
		t.Errorf("Empty reaction region should be background, got %v", got)
	}
	bar := frame.RGBAAt(2, 2)
	if bar.R >= colorExperience.R {
		t.Errorf("Label bar should darken the frame, got %v", bar)
	}
	divider := frame.RGBAAt(700, constants.SurfaceHeight/2)
	if divider.R <= divider.B {
		t.Errorf("Divider should be rose tinted, got %v", divider)
	}
}

func TestFrameIsACopy(t *testing.T) {
	s := NewSurface(4, 4)
	f := s.Frame().(*image.RGBA)
	f.SetRGBA(0, 0, color.RGBA{1, 2, 3, 4})
	if got := s.Frame().(*image.RGBA).RGBAAt(0, 0); got == (color.RGBA{1, 2, 3, 4}) {
		t.Error("Frame must not alias the surface")
	}
}

func TestWrap(t *testing.T) {
	got := wrap("hello there world\nsecond", 11)
	want := []string{"hello there", "world", "second"}
	if len(got) != len(want) {
		t.Fatalf("wrap() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
