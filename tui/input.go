package tui

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ramedia/lovescroll/catch"
	"github.com/ramedia/lovescroll/constants"
	"github.com/ramedia/lovescroll/playback"
)

// HandleEvent applies one terminal event; it returns false once the app has quit
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		if s, ok := a.canvas.(interface{ Sync() }); ok {
			s.Sync()
		}
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	key, r := ev.Key(), ev.Rune()
	if key != tcell.KeyRune {
		r = 0
	}

	switch {
	case key == tcell.KeyCtrlC, r == 'q':
		a.Quit()
		return false
	case key == tcell.KeyEscape:
		if a.overlay != nil {
			a.closeOverlay()
			return true
		}
		a.Quit()
		return false
	}

	if a.prompt {
		switch r {
		case 'y', 'Y':
			a.answerPrompt(true)
			return true
		case 'n', 'N':
			a.answerPrompt(false)
			return true
		}
	}
	if r == 'n' || r == 'N' {
		a.dismissCapture()
		return true
	}

	confirm := key == tcell.KeyEnter || r == ' '
	switch a.player.Phase() {
	case playback.PhaseNotStarted:
		if confirm {
			a.begin()
		}
	case playback.PhaseStarted:
		a.storyKey(key, r, confirm)
	case playback.PhaseGateActive:
		a.gateKey(r, confirm)
	case playback.PhaseFinale:
		a.finaleKey(r, confirm)
	}
	return true
}

func (a *App) storyKey(key tcell.Key, r rune, confirm bool) {
	if a.overlay != nil {
		if confirm {
			a.closeOverlay()
		}
		return
	}

	s := a.player.Story()
	switch {
	case key == tcell.KeyUp || r == 'k':
		a.selected = max(a.selected-1, 0)
	case key == tcell.KeyDown || r == 'j':
		a.selected = min(a.selected+1, s.Total()-1)
	case confirm:
		idx := a.selected
		if idx < 0 {
			idx = s.FirstLocked()
		}
		a.interact(idx)
	case r >= '1' && r <= '9':
		a.interact(int(r - '1'))
	case r == '0':
		a.interact(9)
	}
}

func (a *App) gateKey(r rune, confirm bool) {
	g := a.player.Gate()
	switch g.Phase() {
	case catch.PhaseIntro:
		if confirm {
			a.player.StartGate()
		}
	case catch.PhasePlaying:
		if col := strings.IndexRune(constants.GateColumnKeys, r); r != 0 && col >= 0 {
			a.tapColumn(col)
		}
	}
}

func (a *App) finaleKey(r rune, confirm bool) {
	f := a.player.Finale()
	switch {
	case confirm && !f.Complete():
		f.Skip()
	case r == 'r' || r == 'R':
		a.replay()
	}
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	pressed := ev.Buttons()&tcell.Button1 != 0
	if !pressed || a.mouseDown {
		a.mouseDown = pressed
		return
	}
	a.mouseDown = true
	x, y := ev.Position()

	switch a.player.Phase() {
	case playback.PhaseNotStarted:
		a.begin()
	case playback.PhaseStarted:
		if a.overlay != nil {
			a.closeOverlay()
			return
		}
		if idx, ok := a.memoryRows[y]; ok {
			a.interact(idx)
		}
	case playback.PhaseGateActive:
		if a.player.Gate().Phase() == catch.PhaseIntro {
			a.player.StartGate()
			return
		}
		a.tapAt(x, y)
	case playback.PhaseFinale:
		if !a.player.Finale().Complete() {
			a.player.Finale().Skip()
		}
	}
}
