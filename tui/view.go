package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ramedia/lovescroll/capture"
	"github.com/ramedia/lovescroll/catch"
	"github.com/ramedia/lovescroll/constants"
	"github.com/ramedia/lovescroll/playback"
)

// fieldRect is the gate play field in cells, border included
type fieldRect struct {
	x, y, w, h int
}

func (f fieldRect) inner() (x, y, w, h int) {
	return f.x + 1, f.y + 1, f.w - 2, f.h - 2
}

// cell maps lane and depth percentages to a screen cell
func (f fieldRect) cell(lane, depth float64) (int, int) {
	ix, iy, iw, ih := f.inner()
	return ix + int(lane/100*float64(iw)), iy + int(depth/100*float64(ih))
}

// toPercent maps a screen cell back to lane and depth percentages
func (f fieldRect) toPercent(x, y int) (lane, depth float64, ok bool) {
	ix, iy, iw, ih := f.inner()
	if iw <= 0 || ih <= 0 || x < ix || x >= ix+iw || y < iy || y >= iy+ih {
		return 0, 0, false
	}
	lane = (float64(x-ix) + 0.5) / float64(iw) * 100
	depth = (float64(y-iy) + 0.5) / float64(ih) * 100
	return lane, depth, true
}

// Draw renders one frame
func (a *App) Draw(now time.Time) {
	a.canvas.Clear()
	clear(a.memoryRows)
	a.field = fieldRect{}

	switch a.player.Phase() {
	case playback.PhaseNotStarted:
		a.drawOpening()
	case playback.PhaseStarted:
		a.drawStory()
		if a.overlay != nil {
			a.drawOverlay()
		}
	case playback.PhaseGateActive:
		a.drawGate()
	case playback.PhaseFinale:
		a.drawFinale(now)
	}

	a.drawHeader()
	a.drawPreview()
	a.drawPrompt()
	a.drawNotice()
	a.canvas.Show()
}

func (a *App) drawHeader() {
	snap := a.player.Snapshot()
	x := drawText(a.canvas, 1, 0, "LoveScroll", styleTitle)
	drawText(a.canvas, x+2, 0, snap.FromName+" & "+snap.ToName, styleMuted)

	if badge, style := a.recordingBadge(); badge != "" {
		drawRight(a.canvas, 0, badge, style)
	}

	if snap.ShowProgress && snap.Total > 0 {
		var b strings.Builder
		for i := 0; i < snap.Total; i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			if a.player.Story().IsCompleted(i) {
				b.WriteRune('●')
			} else {
				b.WriteRune('○')
			}
		}
		drawCentered(a.canvas, 1, b.String(), styleAccent)
	}
}

func (a *App) recordingBadge() (string, tcell.Style) {
	if a.capture == nil || a.skipped {
		return "", styleBase
	}
	switch a.capture.State() {
	case capture.StateRequesting:
		return "◌ starting camera", styleMuted
	case capture.StateReady:
		return "● camera ready", styleAccent
	case capture.StateRecording:
		return " ● REC " + capture.FormatDuration(a.capture.Elapsed()) + " ", styleRecord
	case capture.StateProcessing:
		return "saving reaction", styleMuted
	case capture.StateComplete:
		return "✓ reaction recorded", styleDone
	}
	return "", styleBase
}

func (a *App) drawOpening() {
	_, h := a.canvas.Size()
	exp := a.player.Experience()
	y := h/2 - 3

	drawCentered(a.canvas, y, "💝", styleTitle)
	drawCentered(a.canvas, y+2, "A LoveScroll for "+exp.ToName, styleTitle)
	drawCentered(a.canvas, y+3, "from "+exp.FromName, styleAccent)

	n := a.player.Story().Total()
	switch n {
	case 0:
		drawCentered(a.canvas, y+5, "Something special is waiting for you", styleMuted)
	case 1:
		drawCentered(a.canvas, y+5, "1 memory is waiting for you", styleMuted)
	default:
		drawCentered(a.canvas, y+5, fmt.Sprintf("%d memories are waiting for you", n), styleMuted)
	}
	drawCentered(a.canvas, y+7, "Press Enter to begin", styleGold)
}

func (a *App) columnWidth() (x, width int) {
	w, _ := a.canvas.Size()
	width = min(w-4, constants.MaxTextWidth)
	return (w - width) / 2, width
}

func (a *App) drawStory() {
	_, h := a.canvas.Size()
	s := a.player.Story()
	x0, width := a.columnWidth()

	spacing := 1
	if constants.HeaderRows+2*s.Total()+2 <= h {
		spacing = 2
	}

	y := constants.HeaderRows
	for i, unit := range s.Units() {
		if y >= h-2 {
			break
		}
		a.memoryRows[y] = i

		marker, style := "  ", styleMuted
		if i == a.selected {
			marker, style = "▶ ", styleFocus
		}
		x := drawText(a.canvas, x0, y, marker, style)
		x = drawText(a.canvas, x, y, fmt.Sprintf("%2d  ", i+1), style)

		if s.IsCompleted(i) {
			x = drawText(a.canvas, x, y, "✓  ", styleDone)
			caption := runewidth.Truncate(unit.Caption, max(x0+width-x, 0), "…")
			drawText(a.canvas, x, y, caption, styleBase)
		} else {
			handler := s.Handler(i)
			v := int(unit.Variant)
			x = drawText(a.canvas, x, y, variantIcons[v]+"  ", style)
			x = drawText(a.canvas, x, y, variantLabels[v], style)
			if i == a.selected {
				x = drawText(a.canvas, x, y, " · "+handler.Hint(), styleMuted)
			}
			if unit.Variant.Accumulates() && handler.Progress() > 0 {
				drawText(a.canvas, x+1, y, progressBar(handler.Progress(), 10), styleGold)
			}
		}
		y += spacing
	}

	drawCentered(a.canvas, h-2, "↑/↓ choose · Enter reveal · 1-9 jump · q quit", styleMuted)
}

func progressBar(percent, cells int) string {
	filled := min(percent*cells/100, cells)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", cells-filled) + fmt.Sprintf("] %d%%", percent)
}

func (a *App) drawOverlay() {
	w, h := a.canvas.Size()
	u := a.overlay
	boxW := min(w-4, constants.MaxTextWidth+4)
	lines := wrapText(u.Caption, boxW-4)
	boxH := min(len(lines)+7, h-2)
	x0, y0 := (w-boxW)/2, (h-boxH)/2

	fillRect(a.canvas, x0, y0, boxW, boxH, styleOverlay)
	drawBox(a.canvas, x0, y0, boxW, boxH, styleOverlay.Foreground(colorRose))

	title := fmt.Sprintf(" Memory %d of %d ", u.Index+1, a.player.Story().Total())
	drawText(a.canvas, x0+2, y0, title, styleOverlay.Foreground(colorGold).Bold(true))
	drawText(a.canvas, x0+2, y0+2, runewidth.Truncate(u.MediaRef, boxW-4, "…"), styleOverlay.Foreground(colorMuted))
	for i, line := range lines {
		if y0+4+i >= y0+boxH-2 {
			break
		}
		drawText(a.canvas, x0+2, y0+4+i, line, styleOverlay)
	}
	drawText(a.canvas, x0+2, y0+boxH-2, "Enter to continue", styleOverlay.Foreground(colorPink))
}

func (a *App) drawGate() {
	w, h := a.canvas.Size()
	g := a.player.Gate()
	y := constants.HeaderRows

	if g.Phase() == catch.PhaseIntro {
		mid := h/2 - 3
		drawCentered(a.canvas, mid, "💖 Catch "+fmt.Sprint(constants.WinningScore)+" hearts to unlock your letter", styleTitle)
		drawCentered(a.canvas, mid+2, "Avoid the broken hearts 💔", styleMuted)
		drawCentered(a.canvas, mid+3, "Keys "+strings.Join(strings.Split(constants.GateColumnKeys, ""), " ")+" catch the lowest heart in each column, or click a heart", styleMuted)
		drawCentered(a.canvas, mid+5, "Press Enter to start", styleGold)
		return
	}

	fw := min(w-2, constants.GateFieldWidth)
	score := fmt.Sprintf("💖 %d / %d", g.Score(), constants.WinningScore)
	x := drawText(a.canvas, (w-fw)/2+1, y, score, styleTitle)
	if g.ShowCombo() {
		drawText(a.canvas, x+3, y, fmt.Sprintf("🔥 x%d combo", g.Combo()), styleGold)
	}

	a.field = fieldRect{x: (w - fw) / 2, y: y + 1, w: fw, h: h - y - 4}
	if a.field.h < 4 {
		return
	}

	border := styleMuted
	switch g.Flash() {
	case catch.FlashGood:
		border = tcell.StyleDefault.Foreground(colorGood)
	case catch.FlashBad:
		border = styleError
	}
	drawBox(a.canvas, a.field.x, a.field.y, a.field.w, a.field.h, border)

	for _, t := range g.Tokens() {
		if t.Y < 0 || t.Y >= 100 {
			continue
		}
		cx, cy := a.field.cell(t.Lane, t.Y)
		style := styleAccent
		if t.Kind == catch.Negative {
			style = styleBroken
		}
		drawText(a.canvas, cx, cy, string(t.Glyph), style)
	}

	for c, key := range constants.GateColumnKeys {
		lane := constants.LaneMin + (float64(c)+0.5)*constants.GateColumnSpan
		cx, _ := a.field.cell(lane, 0)
		drawText(a.canvas, cx, a.field.y+a.field.h, string(key), styleGold)
	}
}

func (a *App) drawFinale(now time.Time) {
	w, h := a.canvas.Size()
	f := a.player.Finale()
	x0, width := a.columnWidth()
	y := constants.HeaderRows

	drawCentered(a.canvas, y, "A letter for "+a.player.Experience().ToName, styleTitle)
	y += 2

	text := f.Text()
	if text == "" && !f.Complete() {
		drawCentered(a.canvas, h/2, "💌 opening your letter", styleAccent)
	} else {
		lines := wrapText(text, width)
		if f.Typing() {
			if len(lines) == 0 {
				lines = []string{""}
			}
			lines[len(lines)-1] += "▌"
		}
		room := h - y - 4
		if len(lines) > room && room > 0 {
			lines = lines[len(lines)-room:]
		}
		for _, line := range lines {
			drawText(a.canvas, x0, y, line, styleBase)
			y++
		}
		if sig := f.Signature(); sig != "" {
			drawText(a.canvas, x0+width-runewidth.StringWidth(sig), y+1, sig, styleAccent)
		}
	}

	for _, s := range f.Fireworks(now) {
		style := styleMuted
		switch {
		case s.Opacity > 0.6:
			style = styleGold
		case s.Opacity > 0.3:
			style = styleAccent
		}
		drawText(a.canvas, int(s.X/100*float64(w)), int(s.Y/100*float64(h)), string(s.Glyph), style)
	}

	hint := "Space to skip"
	if f.Complete() {
		hint = "r replay · q quit"
	}
	drawCentered(a.canvas, h-2, hint, styleMuted)
}

func (a *App) drawPrompt() {
	if !a.prompt {
		return
	}
	w, h := a.canvas.Size()
	msg := "Record your reaction? They'll love seeing it.  [y] allow  [n] skip"
	boxW := min(w-2, runewidth.StringWidth(msg)+4)
	x0, y0 := (w-boxW)/2, h-6
	fillRect(a.canvas, x0, y0, boxW, 3, styleOverlay)
	drawBox(a.canvas, x0, y0, boxW, 3, styleOverlay.Foreground(colorRose))
	drawText(a.canvas, x0+2, y0+1, msg, styleOverlay)
}

func (a *App) drawNotice() {
	if a.notice == "" {
		return
	}
	_, h := a.canvas.Size()
	style := styleMuted
	if a.noticeStyle == noticeError {
		style = styleError
	}
	drawText(a.canvas, 1, h-1, a.notice, style)
}
