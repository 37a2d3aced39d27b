// Package tui is the terminal front end: it renders an experience with tcell and feeds input back to it
package tui

import (
	"log"
	"math/rand/v2"
	"sync"

	"github.com/ramedia/lovescroll/capture"
	"github.com/ramedia/lovescroll/catch"
	"github.com/ramedia/lovescroll/constants"
	"github.com/ramedia/lovescroll/engine"
	"github.com/ramedia/lovescroll/model"
	"github.com/ramedia/lovescroll/playback"
	"github.com/ramedia/lovescroll/reveal"
	"github.com/ramedia/lovescroll/sound"
)

// Options configures an App
type Options struct {
	Experience *model.Experience

	// Platform enables reaction recording; nil or a tier without recording hides it
	Platform capture.Platform
	Capture  capture.Options

	// Sound renders haptics and cues; nil is silent
	Sound *sound.Manager

	// OutputDir receives the finished reaction; empty keeps it in memory only
	OutputDir string

	Rand *rand.Rand
}

// App owns the player, the capture engine and the view state
// Everything except Quit runs on the scheduler loop
type App struct {
	sched  engine.Scheduler
	canvas Canvas
	opts   Options

	player  *playback.Player
	capture *capture.Engine

	selected int
	overlay  *model.StoryUnit

	prompt      bool
	skipped     bool
	promptTimer engine.Handle

	notice      string
	noticeStyle noticeKind
	noticeTimer engine.Handle
	savedPath   string

	// layout from the last draw, used to resolve mouse clicks
	memoryRows map[int]int
	field      fieldRect
	mouseDown  bool

	frame    engine.Handle
	quit     chan struct{}
	quitOnce sync.Once
}

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeError
)

// New builds an app for one experience
func New(sched engine.Scheduler, canvas Canvas, opts Options) *App {
	a := &App{
		sched:      sched,
		canvas:     canvas,
		opts:       opts,
		selected:   -1,
		memoryRows: make(map[int]int),
		quit:       make(chan struct{}),
	}

	if opts.Platform != nil && opts.Experience.RecordingEnabled() {
		copts := opts.Capture
		copts.Scene = a
		next := copts.OnStateChange
		copts.OnStateChange = func(s capture.State) {
			a.captureChanged(s)
			if next != nil {
				next(s)
			}
		}
		a.capture = capture.New(sched, opts.Platform, copts)
	}

	var haptics reveal.Haptics
	if opts.Sound != nil {
		haptics = opts.Sound
	}
	popts := playback.Options{
		Presenter:   a,
		Haptics:     haptics,
		Rand:        opts.Rand,
		OnGate:      a.gateOpened,
		OnFinale:    a.finaleEntered,
		OnCelebrate: a.celebrate,
	}
	if a.capture != nil {
		popts.Recorder = a.capture
	}
	a.player = playback.New(sched, opts.Experience, popts)
	return a
}

// Start begins rendering on every frame
func (a *App) Start() {
	if a.frame != 0 {
		return
	}
	a.frame = a.sched.OnFrame(a.Draw)
}

// Done is closed once the user quits
func (a *App) Done() <-chan struct{} { return a.quit }

// Quit tears down timers and the camera and closes Done; it is safe to call repeatedly
func (a *App) Quit() {
	a.quitOnce.Do(func() {
		engine.CancelAll(a.sched, &a.frame, &a.promptTimer, &a.noticeTimer)
		if a.capture != nil {
			a.capture.Cleanup()
		}
		log.Printf("tui: quit in phase %s", a.player.Phase())
		close(a.quit)
	})
}

// Focus moves the selection to a memory
func (a *App) Focus(index int) {
	a.selected = index
}

// Open shows a revealed memory
func (a *App) Open(unit model.StoryUnit) {
	u := unit
	a.overlay = &u
}

// Snapshot feeds the recording compositor
func (a *App) Snapshot() playback.Snapshot {
	return a.player.Snapshot()
}

// Player returns the underlying player
func (a *App) Player() *playback.Player { return a.player }

// Capture returns the recording engine, nil when recording is off
func (a *App) Capture() *capture.Engine { return a.capture }

// SavedPath is where the reaction was written, empty until saved
func (a *App) SavedPath() string { return a.savedPath }

// begin leaves the opening scene and schedules the camera prompt
func (a *App) begin() {
	if a.player.Phase() != playback.PhaseNotStarted {
		return
	}
	a.selected = -1
	a.overlay = nil
	a.player.Start()

	if a.recordingOffered() && a.capture.State() == capture.StateIdle {
		a.promptTimer = a.sched.After(constants.PermissionPromptDelay, func() {
			a.promptTimer = 0
			if a.capture.State() == capture.StateIdle && !a.skipped {
				a.prompt = true
			}
		})
	}
}

func (a *App) recordingOffered() bool {
	return a.capture != nil && a.capture.Supported() && !a.skipped
}

// answerPrompt handles the camera permission choice
func (a *App) answerPrompt(allow bool) {
	a.prompt = false
	if !allow {
		a.skipped = true
		log.Printf("tui: recording skipped")
		return
	}
	a.capture.RequestPermission()
}

func (a *App) interact(index int) {
	s := a.player.Story()
	if index < 0 || index >= s.Total() {
		return
	}
	a.selected = index
	if s.IsCompleted(index) {
		s.OnReveal(index)
		return
	}
	s.Interact(index)
}

func (a *App) closeOverlay() {
	if a.overlay == nil {
		return
	}
	a.overlay = nil
	a.player.Story().CloseOverlay()
}

func (a *App) gateOpened() {
	a.overlay = nil
}

// finaleEntered withdraws the camera prompt; the player has already sent the stop
func (a *App) finaleEntered() {
	a.prompt = false
	engine.CancelAll(a.sched, &a.promptTimer)
}

func (a *App) celebrate() {
	if a.opts.Sound != nil {
		a.opts.Sound.Celebrate()
	}
}

func (a *App) replay() {
	if !a.player.Finale().Complete() {
		return
	}
	a.player.Finale().Replay()
	a.overlay = nil
	a.selected = -1
}

// tapColumn taps the lowest visible token in a keyboard column
func (a *App) tapColumn(col int) bool {
	g := a.player.Gate()
	lo := constants.LaneMin + float64(col)*constants.GateColumnSpan
	hi := lo + constants.GateColumnSpan

	var (
		best   catch.Token
		found  bool
		lowest = -1.0
	)
	for _, t := range g.Tokens() {
		if t.Lane < lo || t.Lane >= hi || t.Y < 0 || t.Y >= 100 {
			continue
		}
		if t.Y > lowest {
			lowest = t.Y
			best = t
			found = true
		}
	}
	if !found {
		return false
	}
	return a.tapToken(best)
}

// tapAt taps the token under a screen cell
func (a *App) tapAt(x, y int) bool {
	lane, depth, ok := a.field.toPercent(x, y)
	if !ok {
		return false
	}
	t := a.player.Gate().TokenAt(lane, depth, constants.TapRadius)
	if t == nil {
		return false
	}
	return a.tapToken(*t)
}

func (a *App) tapToken(t catch.Token) bool {
	if !a.player.Gate().Tap(t.ID) {
		return false
	}
	if a.opts.Sound != nil {
		a.opts.Sound.Catch(t.Kind == catch.Negative)
	}
	return true
}

func (a *App) captureChanged(s capture.State) {
	switch s {
	case capture.StateRecording:
		// A recording that starts after the win stops at once
		if a.player != nil && a.player.Phase() == playback.PhaseFinale {
			a.capture.StopRecording()
		}
	case capture.StateError:
		a.showNotice(a.capture.Message()+" Press n to continue without recording.", noticeError)
	case capture.StateComplete:
		a.saveReaction()
	}
}

func (a *App) saveReaction() {
	art := a.capture.Artifact()
	if art == nil {
		return
	}
	if a.opts.OutputDir == "" {
		a.showNotice("Reaction recorded ("+capture.FormatDuration(a.capture.Elapsed())+")", noticeInfo)
		return
	}
	path, err := capture.Save(a.capture.Registry(), art, a.opts.OutputDir)
	if err != nil {
		log.Printf("tui: save reaction: %v", err)
		a.showNotice("Could not save your reaction: "+err.Error(), noticeError)
		return
	}
	a.savedPath = path
	a.showNotice("Reaction saved to "+path, noticeInfo)
}

func (a *App) showNotice(msg string, kind noticeKind) {
	a.notice = msg
	a.noticeStyle = kind
	a.sched.Cancel(a.noticeTimer)
	a.noticeTimer = a.sched.After(constants.NoticeTimeout, func() {
		a.notice = ""
		a.noticeTimer = 0
	})
}

func (a *App) dismissCapture() {
	if a.capture == nil {
		return
	}
	if a.prompt {
		a.answerPrompt(false)
		return
	}
	if a.capture.State() == capture.StateError {
		a.skipped = true
		a.notice = ""
		engine.CancelAll(a.sched, &a.noticeTimer)
	}
}
