package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Canvas is the part of tcell.Screen the views draw on
type Canvas interface {
	Size() (width, height int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Clear()
	Show()
}

// drawText writes s from x and returns the column after the last cell written
// Wide runes take two cells; text past the right edge is dropped
func drawText(c Canvas, x, y int, s string, style tcell.Style) int {
	w, h := c.Size()
	if y < 0 || y >= h {
		return x
	}
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > w {
			break
		}
		if x >= 0 {
			c.SetContent(x, y, r, nil, style)
		}
		x += rw
	}
	return x
}

func drawCentered(c Canvas, y int, s string, style tcell.Style) {
	w, _ := c.Size()
	drawText(c, (w-runewidth.StringWidth(s))/2, y, s, style)
}

func drawRight(c Canvas, y int, s string, style tcell.Style) {
	w, _ := c.Size()
	drawText(c, w-runewidth.StringWidth(s)-1, y, s, style)
}

func fillRect(c Canvas, x, y, w, h int, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			c.SetContent(col, row, ' ', nil, style)
		}
	}
}

func drawBox(c Canvas, x, y, w, h int, style tcell.Style) {
	if w < 2 || h < 2 {
		return
	}
	for col := x + 1; col < x+w-1; col++ {
		c.SetContent(col, y, '─', nil, style)
		c.SetContent(col, y+h-1, '─', nil, style)
	}
	for row := y + 1; row < y+h-1; row++ {
		c.SetContent(x, row, '│', nil, style)
		c.SetContent(x+w-1, row, '│', nil, style)
	}
	c.SetContent(x, y, '╭', nil, style)
	c.SetContent(x+w-1, y, '╮', nil, style)
	c.SetContent(x, y+h-1, '╰', nil, style)
	c.SetContent(x+w-1, y+h-1, '╯', nil, style)
}

// wrapText breaks s into lines no wider than width cells, keeping explicit newlines
func wrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, word := range words {
			for runewidth.StringWidth(word) > width {
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					_, size := utf8.DecodeRuneInString(word)
					head = word[:size]
				}
				lines = append(lines, head)
				word = word[len(head):]
			}
			switch {
			case line == "":
				line = word
			case runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
