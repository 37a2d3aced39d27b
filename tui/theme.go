package tui

import "github.com/gdamore/tcell/v2"

var (
	colorRose    = tcell.NewRGBColor(244, 63, 94)
	colorPink    = tcell.NewRGBColor(251, 113, 133)
	colorGold    = tcell.NewRGBColor(251, 191, 36)
	colorMuted   = tcell.NewRGBColor(115, 115, 115)
	colorInk     = tcell.NewRGBColor(229, 229, 229)
	colorGood    = tcell.NewRGBColor(74, 222, 128)
	colorBad     = tcell.NewRGBColor(239, 68, 68)
	colorOverlay = tcell.NewRGBColor(24, 24, 27)
)

var (
	styleBase    = tcell.StyleDefault.Foreground(colorInk)
	styleTitle   = tcell.StyleDefault.Foreground(colorRose).Bold(true)
	styleMuted   = tcell.StyleDefault.Foreground(colorMuted)
	styleAccent  = tcell.StyleDefault.Foreground(colorPink)
	styleGold    = tcell.StyleDefault.Foreground(colorGold).Bold(true)
	styleFocus   = tcell.StyleDefault.Foreground(colorRose).Bold(true)
	styleDone    = tcell.StyleDefault.Foreground(colorGood)
	styleError   = tcell.StyleDefault.Foreground(colorBad)
	styleRecord  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(colorBad).Bold(true)
	styleOverlay = tcell.StyleDefault.Foreground(colorInk).Background(colorOverlay)
	styleBroken  = tcell.StyleDefault.Foreground(colorMuted)
)

// variantIcons is indexed by model.Variant
var variantIcons = [...]string{"🎁", "✨", "💥", "📸", "💌"}

var variantLabels = [...]string{"Gift box", "Scratch card", "Heart burst", "Polaroid", "Sealed letter"}
