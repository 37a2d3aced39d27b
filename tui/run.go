package tui

import (
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/ramedia/lovescroll/core"
	"github.com/ramedia/lovescroll/engine"
)

// Run plays an experience in the terminal until the user quits and returns the saved reaction path, if any
// The loop must be the scheduler the capture platform in opts was built on
func Run(loop *engine.Loop, opts Options) (string, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return "", fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return "", fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()
	screen.SetStyle(styleBase)

	core.SetResetHook(screen.Fini)
	defer core.SetResetHook(nil)
	defer screen.Fini()

	app := New(loop, screen, opts)
	loop.Post(app.Start)
	loop.Start()
	defer loop.Stop()

	// Input arrives on its own goroutine and is handed to the loop
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			loop.Post(func() { app.HandleEvent(ev) })
		}
	})

	<-app.Done()
	log.Printf("tui: exit")
	return app.SavedPath(), nil
}
