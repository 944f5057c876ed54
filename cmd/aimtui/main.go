// Command aimtui runs the aim overlay in a terminal, driven by mouse and
// keyboard, saving layouts to the configured file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/playpool/aimline/internal/aim"
	"github.com/playpool/aimline/internal/config"
	"github.com/playpool/aimline/internal/session"
	"github.com/playpool/aimline/internal/store"
)

const submitTimeout = 2 * time.Second

type app struct {
	screen  tcell.Screen
	session *session.Session
	surface aim.Surface
	frame   aim.RenderModel
	pointer pointer
	message string
	path    string
}

func main() {
	cfg := config.Load()

	// The screen owns the terminal; logs go to AIMTUI_LOG when set.
	var logOut io.Writer = io.Discard
	if p := os.Getenv("AIMTUI_LOG"); p != "" {
		f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	log.SetOutput(logOut)

	surface := aim.Surface{Width: cfg.SurfaceWidth, Height: cfg.SurfaceHeight}
	files := store.NewFileStore(cfg.ConfigFile)
	mgr := session.NewManager(session.Options{
		Surface:   surface,
		Tuning:    aim.TuningFor(cfg.PocketRadius, cfg.SnapThreshold),
		Snapshots: files,
	})
	s, err := mgr.Create(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating overlay: %v\n", err)
		os.Exit(1)
	}
	defer mgr.Shutdown(context.Background())

	frame, message := initialFrame(s, files.Path())

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()

	a := &app{screen: screen, session: s, surface: surface, frame: frame, message: message, path: files.Path()}
	a.run()

	screen.Fini()
}

// initialFrame restores the saved layout. A file that cannot be read or
// parsed leaves the defaults in place and is reported on the status line.
func initialFrame(s *session.Session, path string) (aim.RenderModel, string) {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	res, err := s.Load(ctx)
	if err == nil {
		return res.Frame, ""
	}
	log.Printf("[TUI] could not load %s, starting with defaults: %v", path, err)
	frame, ferr := s.Frame(ctx)
	if ferr != nil {
		log.Printf("[TUI] initial frame: %v", ferr)
	}
	return frame, "load failed: " + err.Error() + " "
}

func (a *app) run() {
	for {
		a.draw()
		a.screen.Show()

		switch ev := a.screen.PollEvent().(type) {
		case *tcell.EventResize:
			a.screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return
			}
			if cmd, ok := keyCommand(ev); ok && !a.submit(cmd) {
				return
			}
		case *tcell.EventMouse:
			w, h := a.screen.Size()
			for _, cmd := range a.pointer.commands(newView(a.surface, w, h), ev) {
				if !a.submit(cmd) {
					return
				}
			}
		}
	}
}

// submit applies one command and reports whether the overlay is still open.
func (a *app) submit(cmd aim.Command) bool {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	res, err := a.session.Submit(ctx, cmd)
	if errors.Is(err, session.ErrClosed) {
		return false
	}
	if err != nil {
		a.message = err.Error() + " "
		return true
	}

	a.frame = res.Frame
	switch res.Effect {
	case aim.EffectSave:
		a.message = "saved to " + a.path + " "
	case aim.EffectLoad:
		a.message = "loaded " + a.path + " "
	case aim.EffectClose:
		return false
	default:
		a.message = ""
	}
	return true
}
