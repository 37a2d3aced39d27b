package tui

import (
	"image"
	"math/rand/v2"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ramedia/lovescroll/capture"
	"github.com/ramedia/lovescroll/capture/soft"
	"github.com/ramedia/lovescroll/catch"
	"github.com/ramedia/lovescroll/constants"
	"github.com/ramedia/lovescroll/engine"
	"github.com/ramedia/lovescroll/model"
	"github.com/ramedia/lovescroll/playback"
)

// mockCanvas records cells in memory
type mockCanvas struct {
	w, h  int
	cells map[[2]int]rune
	shows int
}

func newMockCanvas(w, h int) *mockCanvas {
	return &mockCanvas{w: w, h: h, cells: make(map[[2]int]rune)}
}

func (c *mockCanvas) Size() (int, int) { return c.w, c.h }
func (c *mockCanvas) Clear()           { clear(c.cells) }
func (c *mockCanvas) Show()            { c.shows++ }

func (c *mockCanvas) SetContent(x, y int, r rune, _ []rune, _ tcell.Style) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[[2]int{x, y}] = r
}

// Text returns the screen with wide-rune continuation cells removed
func (c *mockCanvas) Text() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			if r, ok := c.cells[[2]int{x, y}]; ok {
				b.WriteRune(r)
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// halfSource makes every Float64 return 0.5: hearts only, all in the middle column
type halfSource struct{}

func (halfSource) Uint64() uint64 { return 1 << 52 }

type fixture struct {
	sched    *engine.Manual
	canvas   *mockCanvas
	app      *App
	platform *soft.Platform
}

func newFixture(t *testing.T, tier model.TierName, popts *soft.Options, outDir string) *fixture {
	t.Helper()
	exp, err := model.Sample("alex-sam", tier, time.Unix(1700000000, 0))
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	f := &fixture{
		sched:  engine.NewManual(time.Unix(1700000000, 0)),
		canvas: newMockCanvas(120, 40),
	}
	opts := Options{
		Experience: exp,
		OutputDir:  outDir,
		Rand:       rand.New(halfSource{}),
		Capture:    capture.Options{Size: image.Pt(90, 160), FPS: 10},
	}
	if popts != nil {
		f.platform = soft.New(f.sched, *popts)
		opts.Platform = f.platform
	}
	f.app = New(f.sched, f.canvas, opts)
	f.app.Start()
	return f
}

func (f *fixture) key(r rune) bool {
	return f.app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
}

func (f *fixture) enter() {
	f.app.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
}

func (f *fixture) screen() string {
	f.sched.Frame()
	return f.canvas.Text()
}

// revealAll opens and closes every memory with the keyboard
func (f *fixture) revealAll(t *testing.T) {
	t.Helper()
	s := f.app.Player().Story()
	for i := 0; i < s.Total(); i++ {
		for tries := 0; f.app.overlay == nil; tries++ {
			if tries > 10 {
				t.Fatalf("Memory %d never opened", i)
			}
			f.enter()
			f.sched.Advance(500 * time.Millisecond)
		}
		if f.app.overlay.Index != i {
			t.Fatalf("Expected memory %d to open, got %d", i, f.app.overlay.Index)
		}
		f.enter()
		f.sched.Advance(time.Second)
	}
}

// winGate catches hearts with the middle column key until the finale opens
func (f *fixture) winGate(t *testing.T) {
	t.Helper()
	f.enter()
	if f.app.Player().Gate().Phase() != catch.PhasePlaying {
		t.Fatalf("Expected gate to start on Enter, got %s", f.app.Player().Gate().Phase())
	}
	for i := 0; f.app.Player().Phase() == playback.PhaseGateActive; i++ {
		if i > 2000 {
			t.Fatalf("Gate not won, score %d", f.app.Player().Gate().Score())
		}
		f.sched.Step(4, 16*time.Millisecond)
		f.key('d')
	}
}

// ===== OPENING =====

func TestOpeningScene(t *testing.T) {
	f := newFixture(t, model.TierLite, nil, "")
	text := f.screen()

	for _, want := range []string{"A LoveScroll for Sam", "from Alex", "3 memories are waiting", "Press Enter to begin"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected opening scene to contain %q", want)
		}
	}
	if f.canvas.shows == 0 {
		t.Error("Expected frames to be shown")
	}
}

// ===== FULL FLOW =====

func TestKeyboardPlaythrough(t *testing.T) {
	f := newFixture(t, model.TierLite, nil, "")

	f.enter()
	if f.app.Player().Phase() != playback.PhaseStarted {
		t.Fatalf("Expected started, got %s", f.app.Player().Phase())
	}
	f.sched.Advance(constants.FirstFocusDelay)
	if f.app.selected != 0 {
		t.Errorf("Expected first memory focused, got %d", f.app.selected)
	}
	if !strings.Contains(f.screen(), "○ ○ ○") {
		t.Error("Expected three empty progress dots")
	}

	f.revealAll(t)
	if f.app.Player().Phase() != playback.PhaseGateActive {
		t.Fatalf("Expected gate after every memory, got %s", f.app.Player().Phase())
	}
	text := f.screen()
	if !strings.Contains(text, "Catch 10 hearts") {
		t.Error("Expected gate intro")
	}
	if strings.Contains(text, "●") {
		t.Error("Expected progress dots hidden during the gate")
	}

	f.winGate(t)
	if f.app.Player().Phase() != playback.PhaseFinale {
		t.Fatalf("Expected finale, got %s", f.app.Player().Phase())
	}

	f.sched.Advance(constants.LetterSettleDelay + constants.TypewriterInterval*5)
	fin := f.app.Player().Finale()
	if !fin.Typing() {
		t.Fatal("Expected letter to be typing")
	}
	f.key(' ')
	if !fin.Complete() {
		t.Fatal("Expected space to skip to the full letter")
	}
	f.sched.Advance(time.Second)
	if !fin.Celebrated() {
		t.Error("Expected celebration after skip")
	}
	if !strings.Contains(f.screen(), "With all my love, Alex") {
		t.Error("Expected signature once complete")
	}

	f.key('r')
	if f.app.Player().Phase() != playback.PhaseNotStarted {
		t.Errorf("Expected replay to return to the opening, got %s", f.app.Player().Phase())
	}
}

func TestScratchProgressShown(t *testing.T) {
	f := newFixture(t, model.TierLite, nil, "")
	f.enter()
	f.sched.Advance(constants.FirstFocusDelay)

	// memory 1 is the scratch card
	f.key('2')
	if f.app.selected != 1 {
		t.Fatalf("Expected digit to select memory 2, got %d", f.app.selected)
	}
	if !strings.Contains(f.screen(), "35%") {
		t.Error("Expected scratch progress after one tap")
	}
	if f.app.overlay != nil {
		t.Error("Expected overlay to stay closed below the threshold")
	}
}

func TestArrowKeysClamp(t *testing.T) {
	f := newFixture(t, model.TierLite, nil, "")
	f.enter()
	f.sched.Advance(constants.FirstFocusDelay)

	for i := 0; i < 5; i++ {
		f.app.HandleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	}
	if f.app.selected != 2 {
		t.Errorf("Expected selection clamped to 2, got %d", f.app.selected)
	}
	for i := 0; i < 5; i++ {
		f.key('k')
	}
	if f.app.selected != 0 {
		t.Errorf("Expected selection clamped to 0, got %d", f.app.selected)
	}
}

func TestMouseClickRevealsMemory(t *testing.T) {
	f := newFixture(t, model.TierLite, nil, "")
	f.enter()
	f.sched.Advance(constants.FirstFocusDelay)
	f.screen()

	row := -1
	for y, idx := range f.app.memoryRows {
		if idx == 2 {
			row = y
		}
	}
	if row < 0 {
		t.Fatal("Expected memory 3 on screen")
	}
	f.app.HandleEvent(tcell.NewEventMouse(10, row, tcell.Button1, tcell.ModNone))
	f.app.HandleEvent(tcell.NewEventMouse(10, row, tcell.ButtonNone, tcell.ModNone))
	f.sched.Advance(time.Second)

	if f.app.overlay == nil || f.app.overlay.Index != 2 {
		t.Fatalf("Expected click to open memory 3")
	}
	if !strings.Contains(f.screen(), "Memory 3 of 3") {
		t.Error("Expected overlay title")
	}
}

func TestQuitKeys(t *testing.T) {
	f := newFixture(t, model.TierLite, nil, "")
	if f.key('q') {
		t.Error("Expected q to stop event handling")
	}
	select {
	case <-f.app.Done():
	default:
		t.Fatal("Expected Done to be closed")
	}
	if n := f.sched.Active(); n != 0 {
		t.Errorf("Expected no live timers after quit, got %d", n)
	}
	f.app.Quit()
}

func TestFieldMapping(t *testing.T) {
	f := fieldRect{x: 10, y: 5, w: 52, h: 22}
	x, y := f.cell(50, 50)
	lane, depth, ok := f.toPercent(x, y)
	if !ok {
		t.Fatal("Expected cell inside the field")
	}
	if lane < 48 || lane > 52 || depth < 47 || depth > 53 {
		t.Errorf("Expected round trip near 50/50, got %.1f/%.1f", lane, depth)
	}
	if _, _, ok := f.toPercent(10, 5); ok {
		t.Error("Expected border cell to be outside the play area")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four\n\nfive", 9)
	want := []string{"one two", "three", "four", "", "five"}
	if len(lines) != len(want) {
		t.Fatalf("Expected %v, got %v", want, lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}

	for _, line := range wrapText("abcdefghijkl", 5) {
		if len(line) > 5 {
			t.Errorf("Expected long word split at 5, got %q", line)
		}
	}
}

// ===== RECORDING =====

func TestPermissionPromptAllow(t *testing.T) {
	f := newFixture(t, model.TierClassic, &soft.Options{}, "")
	f.enter()

	f.sched.Advance(constants.PermissionPromptDelay - time.Millisecond)
	if f.app.prompt {
		t.Fatal("Expected prompt to wait for the delay")
	}
	f.sched.Advance(time.Millisecond)
	if !strings.Contains(f.screen(), "Record your reaction?") {
		t.Fatal("Expected permission prompt")
	}

	f.key('y')
	f.sched.Advance(constants.AutoStartDelay)
	if f.app.Capture().State() != capture.StateRecording {
		t.Fatalf("Expected recording, got %s", f.app.Capture().State())
	}
	if !strings.Contains(f.screen(), "REC 0:00") {
		t.Error("Expected recording badge")
	}
	f.sched.Advance(2 * time.Second)
	if !strings.Contains(f.screen(), "REC 0:02") {
		t.Error("Expected badge to count seconds")
	}
}

func TestPermissionPromptSkip(t *testing.T) {
	f := newFixture(t, model.TierClassic, &soft.Options{}, "")
	f.enter()
	f.sched.Advance(constants.PermissionPromptDelay)

	f.key('n')
	if f.app.prompt || !f.app.skipped {
		t.Fatal("Expected skip to hide the prompt and recording UI")
	}
	if f.app.Capture().State() != capture.StateIdle {
		t.Errorf("Expected camera untouched, got %s", f.app.Capture().State())
	}
	if f.platform.LiveTracks() != 0 {
		t.Error("Expected no camera tracks after skip")
	}
}

func TestPermissionDeniedNotice(t *testing.T) {
	f := newFixture(t, model.TierClassic, &soft.Options{Deny: true}, "")
	f.enter()
	f.sched.Advance(constants.PermissionPromptDelay)
	f.key('y')
	f.sched.Advance(0)

	if f.app.Capture().State() != capture.StateError {
		t.Fatalf("Expected error, got %s", f.app.Capture().State())
	}
	if !strings.Contains(f.screen(), "Camera access denied") {
		t.Error("Expected denial notice")
	}
	if f.app.Player().Phase() != playback.PhaseStarted {
		t.Error("Expected experience to continue after denial")
	}

	f.key('n')
	if !f.app.skipped || f.app.notice != "" {
		t.Error("Expected n to dismiss the notice and hide recording UI")
	}
}

func TestNoPromptWithoutRecordingTier(t *testing.T) {
	f := newFixture(t, model.TierLite, &soft.Options{}, "")
	if f.app.Capture() != nil {
		t.Fatal("Expected lite tier to disable recording")
	}
	f.enter()
	f.sched.Advance(constants.PermissionPromptDelay * 2)
	if f.app.prompt {
		t.Error("Expected no prompt for lite tier")
	}
}

func TestNoPromptWhenUnsupported(t *testing.T) {
	f := newFixture(t, model.TierClassic, &soft.Options{NoRecorder: true}, "")
	f.enter()
	f.sched.Advance(constants.PermissionPromptDelay * 2)
	if f.app.prompt {
		t.Error("Expected unsupported platform to suppress the prompt")
	}
}

func TestFinaleStopsAndSavesRecording(t *testing.T) {
	out := t.TempDir()
	f := newFixture(t, model.TierClassic, &soft.Options{}, out)
	f.enter()
	f.sched.Advance(constants.PermissionPromptDelay)
	f.key('y')
	f.sched.Advance(constants.AutoStartDelay)
	if f.app.Capture().State() != capture.StateRecording {
		t.Fatalf("Expected recording, got %s", f.app.Capture().State())
	}

	f.revealAll(t)
	f.winGate(t)
	f.sched.Advance(100 * time.Millisecond)

	if f.app.Capture().State() != capture.StateComplete {
		t.Fatalf("Expected complete recording after the finale, got %s", f.app.Capture().State())
	}
	path := f.app.SavedPath()
	if path == "" {
		t.Fatal("Expected reaction to be saved")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected saved file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty reaction file")
	}
	if !strings.HasPrefix(info.Name(), constants.ArtifactPrefix) {
		t.Errorf("Unexpected file name %s", info.Name())
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open saved file: %v", err)
	}
	defer file.Close()
	rec, err := soft.Decode(file)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if rec.Frames == 0 {
		t.Error("Expected frames in the saved reaction")
	}

	f.app.Quit()
	if f.app.Capture().State() != capture.StateIdle {
		t.Errorf("Expected idle capture after quit, got %s", f.app.Capture().State())
	}
	if f.platform.LiveTracks() != 0 {
		t.Error("Expected camera released after quit")
	}
}

func TestLatePermissionStopsInFinale(t *testing.T) {
	out := t.TempDir()
	latency := 5 * time.Minute
	f := newFixture(t, model.TierClassic, &soft.Options{Latency: latency}, out)
	f.enter()
	f.revealAll(t)

	if !f.app.prompt {
		t.Fatal("Expected permission prompt before the gate")
	}
	f.key('y')
	f.winGate(t)

	if f.app.Player().Phase() != playback.PhaseFinale {
		t.Fatalf("Expected finale, got %s", f.app.Player().Phase())
	}
	if f.app.Capture().State() != capture.StateRequesting {
		t.Fatalf("Expected camera request still pending, got %s", f.app.Capture().State())
	}

	f.sched.Advance(latency + constants.AutoStartDelay)
	f.sched.Advance(100 * time.Millisecond)

	if f.app.Capture().State() != capture.StateComplete {
		t.Fatalf("Expected recording stopped in the finale, got %s", f.app.Capture().State())
	}
	if f.app.Capture().Elapsed() != 0 {
		t.Errorf("Expected no recorded seconds, got %d", f.app.Capture().Elapsed())
	}
	if f.app.SavedPath() == "" {
		t.Error("Expected the reaction to be saved")
	}
}

func TestFinaleWithdrawsPrompt(t *testing.T) {
	f := newFixture(t, model.TierClassic, &soft.Options{}, "")
	f.enter()
	f.revealAll(t)
	if !f.app.prompt {
		t.Fatal("Expected permission prompt before the gate")
	}

	f.winGate(t)
	if f.app.prompt {
		t.Error("Expected prompt hidden once the finale begins")
	}
	if strings.Contains(f.screen(), "Record your reaction?") {
		t.Error("Expected no prompt on the finale screen")
	}
	if f.app.Capture().State() != capture.StateIdle {
		t.Errorf("Expected camera untouched, got %s", f.app.Capture().State())
	}
}
