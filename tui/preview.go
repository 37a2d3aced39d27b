package tui

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/ramedia/lovescroll/capture"
	"github.com/ramedia/lovescroll/constants"
)

// drawPreview shows the mirrored camera in the top-right corner using half blocks
func (a *App) drawPreview() {
	if a.capture == nil || a.skipped {
		return
	}
	switch a.capture.State() {
	case capture.StateReady, capture.StateRecording:
	default:
		return
	}
	stream := a.capture.Stream()
	if stream == nil || stream.Video == nil {
		return
	}
	img, ok := stream.Video.Frame()
	if !ok {
		return
	}

	w, h := a.canvas.Size()
	_, textW := a.columnWidth()
	if w-textW < 2*(constants.PreviewWidth+2) || h < constants.PreviewHeight+constants.HeaderRows+4 {
		return
	}
	x0, y0 := w-constants.PreviewWidth-1, 1
	for cy := 0; cy < constants.PreviewHeight; cy++ {
		for cx := 0; cx < constants.PreviewWidth; cx++ {
			top := sample(img, cx, 2*cy)
			bottom := sample(img, cx, 2*cy+1)
			a.canvas.SetContent(x0+cx, y0+cy, '▀', nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}
}

// sample reads the mirrored pixel for a preview cell position
func sample(img image.Image, px, py int) tcell.Color {
	b := img.Bounds()
	if b.Empty() {
		return tcell.ColorBlack
	}
	x := b.Max.X - 1 - px*b.Dx()/constants.PreviewWidth
	y := b.Min.Y + py*b.Dy()/(2*constants.PreviewHeight)
	return toColor(img.At(x, y))
}

func toColor(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
