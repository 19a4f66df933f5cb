// Package eventloop is the single-threaded coordinator. Hotkeys and tray
// clicks post triggers onto the loop; the loop runs the interactive selection
// inline, hands pixel work to the worker pool, and turns every outcome into
// at most one status toast.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"shotbar/capture"
	"shotbar/config"
	"shotbar/display"
	"shotbar/mapper"
	"shotbar/notify"
	"shotbar/overlay"
	"shotbar/persist"
	"shotbar/window"
	"shotbar/worker"
)

// Capturer is the slice of the capture executor the loop drives.
type Capturer interface {
	Selection(sel mapper.SelectionRegion) (*capture.CapturedImage, error)
	Window(c window.Candidate) (*capture.CapturedImage, error)
	AllDisplays() (*capture.CapturedImage, error)
}

// Persister routes a captured image to its destination.
type Persister interface {
	Save(img *capture.CapturedImage, req persist.Request) (persist.Receipt, error)
}

// TargetSelector picks the window to capture in active-window mode.
type TargetSelector interface {
	SelectTarget(prevApp window.AppID, screen display.ScreenDescriptor) (window.Candidate, error)
}

// Deps are the loop's collaborators, constructed in main and injected whole.
type Deps struct {
	Selector overlay.Selector
	Enum     window.Enumerator
	Windows  TargetSelector
	Executor Capturer
	Resolver *display.Resolver
	Saver    Persister
	Notifier notify.Notifier

	// Tooltip receives busy/idle text for the tray icon. Optional.
	Tooltip func(text string)

	// Deadline bounds one capture job. Zero means the 20s default.
	Deadline time.Duration
}

// Loop processes triggers one at a time. A trigger arriving while a capture
// is in flight is refused with a busy toast, never queued.
type Loop struct {
	deps           Deps
	pool           *worker.Pool
	busy           bool
	results        chan result
	regionCh       chan struct{}
	windowCh       chan windowTrigger
	screenCh       chan struct{}
	defaultTooltip string
}

type windowTrigger struct {
	prevApp window.AppID
}

type result struct {
	status string
	err    error
	cancel context.CancelFunc
}

func New(deps Deps) *Loop {
	if deps.Deadline <= 0 {
		deps.Deadline = 20 * time.Second
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Toast{}
	}
	return &Loop{
		deps:     deps,
		pool:     worker.New(1),
		results:  make(chan result, 1),
		regionCh: make(chan struct{}, 1),
		windowCh: make(chan windowTrigger, 1),
		screenCh: make(chan struct{}, 1),
	}
}

// SetDefaultTooltip sets the tray tooltip base text restored after each job.
func (l *Loop) SetDefaultTooltip(tt string) { l.defaultTooltip = tt }

// TriggerRegion posts a region-capture trigger. Safe from any goroutine;
// drops when the trigger queue is full.
func (l *Loop) TriggerRegion() {
	select {
	case l.regionCh <- struct{}{}:
	default:
	}
}

// TriggerWindow posts a window-capture trigger. The frontmost application is
// sampled here, on the caller's goroutine, because the moment of the trigger
// is the last time the user's target still has focus.
func (l *Loop) TriggerWindow() {
	prevApp, err := l.deps.Enum.FrontmostApp()
	if err != nil {
		log.Printf("eventloop: frontmost app unavailable at trigger: %v", err)
		prevApp = ""
	}
	select {
	case l.windowCh <- windowTrigger{prevApp: prevApp}:
	default:
	}
}

// TriggerScreen posts a full-screen capture trigger.
func (l *Loop) TriggerScreen() {
	select {
	case l.screenCh <- struct{}{}:
	default:
	}
}

// Run blocks processing triggers until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.pool.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.regionCh:
			l.handleRegion(ctx)
		case t := <-l.windowCh:
			l.handleWindow(ctx, t.prevApp)
		case <-l.screenCh:
			l.handleScreen(ctx)
		case res := <-l.results:
			l.handleResult(res)
		}
	}
}

func (l *Loop) drainTriggers() {
	for {
		select {
		case <-l.regionCh:
		case <-l.windowCh:
		case <-l.screenCh:
		default:
			return
		}
	}
}

func (l *Loop) setBusy(b bool) {
	l.busy = b
	if l.deps.Tooltip == nil {
		return
	}
	if b {
		l.deps.Tooltip("shotbar: capturing...")
	} else {
		l.deps.Tooltip(l.defaultTooltip)
	}
}

// handleRegion runs the interactive selection inline (the overlay owns the
// input until it resolves) and hands the pixel work to the pool.
func (l *Loop) handleRegion(ctx context.Context) {
	if l.busy {
		l.deps.Notifier.Show("Capture already in progress")
		return
	}

	sel, cancelled, err := l.deps.Selector.Select(ctx)
	// Triggers posted while the overlay owned the input were aimed at an
	// interaction that is already over; a cancelled selection must not
	// replay as a fresh overlay.
	l.drainTriggers()
	if err != nil {
		if errors.Is(err, overlay.ErrSelectionActive) {
			return
		}
		log.Printf("eventloop: selection failed: %v", err)
		l.deps.Notifier.Show("Selection failed")
		return
	}
	if cancelled {
		// Cancellation and too-small drags end the attempt without a toast.
		return
	}

	l.submit(ctx, func(context.Context) (string, error) {
		img, err := l.deps.Executor.Selection(sel)
		if err != nil {
			return "", err
		}
		return l.save(img)
	})
}

func (l *Loop) handleWindow(ctx context.Context, prevApp window.AppID) {
	if l.busy {
		l.deps.Notifier.Show("Capture already in progress")
		return
	}

	l.submit(ctx, func(context.Context) (string, error) {
		screens, err := l.deps.Resolver.Screens()
		if err != nil || len(screens) == 0 {
			return "", fmt.Errorf("%w: no displays", capture.ErrCaptureFailed)
		}
		target, err := l.deps.Windows.SelectTarget(prevApp, screens[0])
		if err != nil {
			return "", err
		}
		img, err := l.deps.Executor.Window(target)
		if err != nil {
			return "", err
		}
		return l.save(img)
	})
}

func (l *Loop) handleScreen(ctx context.Context) {
	if l.busy {
		l.deps.Notifier.Show("Capture already in progress")
		return
	}

	l.submit(ctx, func(context.Context) (string, error) {
		img, err := l.deps.Executor.AllDisplays()
		if err != nil {
			return "", err
		}
		return l.save(img)
	})
}

func (l *Loop) submit(ctx context.Context, job worker.Job) {
	jobCtx, cancel := context.WithTimeout(ctx, l.deps.Deadline)
	l.setBusy(true)
	submitted := l.pool.Submit(jobCtx, job, func(status string, err error) {
		l.results <- result{status: status, err: err, cancel: cancel}
	})
	if !submitted {
		cancel()
		l.setBusy(false)
		l.deps.Notifier.Show("Capture already in progress")
	}
}

func (l *Loop) handleResult(res result) {
	defer func() {
		l.setBusy(false)
		if res.cancel != nil {
			res.cancel()
		}
	}()
	if res.err != nil {
		log.Printf("eventloop: capture attempt failed: %v", res.err)
		if status := statusForError(res.err); status != "" {
			l.deps.Notifier.Show(status)
		}
		return
	}
	if res.status != "" {
		l.deps.Notifier.Show(res.status)
	}
}

// save re-reads preferences and routes the image. Preferences are loaded per
// save so an edited .env takes effect on the next capture without restart.
func (l *Loop) save(img *capture.CapturedImage) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("%w: load preferences: %v", persist.ErrSaveFailed, err)
	}
	dest, err := persist.ParseDestination(cfg.Destination)
	if err != nil {
		log.Printf("eventloop: %v, using clipboard", err)
	}
	format, err := persist.ParseFormat(cfg.Format)
	if err != nil {
		log.Printf("eventloop: %v, using png", err)
	}

	receipt, err := l.deps.Saver.Save(img, persist.Request{
		Dest:        dest,
		Format:      format,
		Dir:         cfg.SaveDir,
		JPEGQuality: cfg.JPEGQuality,
	})
	if err != nil {
		return "", err
	}

	if dest == persist.DestClipboard {
		return "Copied to clipboard", nil
	}
	return fmt.Sprintf("Saved to %s", receipt.Location), nil
}

// statusForError maps a failed attempt to its toast. An empty string means
// the failure stays silent.
func statusForError(err error) string {
	switch {
	case errors.Is(err, mapper.ErrRegionTooSmall):
		// Too-small selections cancel quietly.
		return ""
	case errors.Is(err, context.Canceled):
		return ""
	case errors.Is(err, display.ErrDisplayGone):
		return "Display disconnected, capture cancelled"
	case errors.Is(err, window.ErrNoCaptureTarget):
		return "No window to capture"
	case errors.Is(err, persist.ErrSaveFailed):
		return "Could not save screenshot"
	case errors.Is(err, context.DeadlineExceeded):
		return "Capture timed out"
	default:
		return "Capture failed"
	}
}
