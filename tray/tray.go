// Package tray owns the menu-bar presence: one icon, capture entries for each
// mode, and Quit. Menu clicks post the same triggers the hotkeys do.
package tray

import (
	"log"
	"sync/atomic"

	"github.com/getlantern/systray"
)

// Config wires menu actions to the rest of the app. Any nil callback removes
// its menu entry.
type Config struct {
	Title    string
	Tooltip  string
	OnRegion func()
	OnWindow func()
	OnScreen func()
	OnExit   func()
}

// Tray is the menu-bar icon. Run blocks on the platform UI loop, so callers
// start it on its own goroutine.
type Tray struct {
	cfg   Config
	ready atomic.Bool
}

func New(cfg Config) (*Tray, error) {
	return &Tray{cfg: cfg}, nil
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) Destroy() {
	systray.Quit()
}

// SetTooltip updates the hover text, used to show the busy state while a
// capture is in flight. No-op before the icon is up.
func (t *Tray) SetTooltip(text string) {
	if !t.ready.Load() {
		return
	}
	systray.SetTooltip(text)
}

func (t *Tray) onReady() {
	if icon := iconPNG(); icon != nil {
		systray.SetIcon(icon)
	}
	systray.SetTitle(t.cfg.Title)
	systray.SetTooltip(t.cfg.Tooltip)
	t.ready.Store(true)

	var regionCh, windowCh, screenCh chan struct{}
	if t.cfg.OnRegion != nil {
		m := systray.AddMenuItem("Capture Region", "Drag to select an area")
		regionCh = m.ClickedCh
	}
	if t.cfg.OnWindow != nil {
		m := systray.AddMenuItem("Capture Window", "Capture the previously active window")
		windowCh = m.ClickedCh
	}
	if t.cfg.OnScreen != nil {
		m := systray.AddMenuItem("Capture Screen", "Capture all displays")
		screenCh = m.ClickedCh
	}
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit the application")

	go func() {
		for {
			select {
			case <-regionCh:
				t.cfg.OnRegion()
			case <-windowCh:
				t.cfg.OnWindow()
			case <-screenCh:
				t.cfg.OnScreen()
			case <-mQuit.ClickedCh:
				log.Printf("tray: quit requested")
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	t.ready.Store(false)
	if t.cfg.OnExit != nil {
		t.cfg.OnExit()
	}
}
