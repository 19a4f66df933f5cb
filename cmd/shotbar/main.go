package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"shotbar/capture"
	"shotbar/config"
	"shotbar/display"
	"shotbar/eventloop"
	"shotbar/hotkey"
	"shotbar/logutil"
	"shotbar/mapper"
	"shotbar/notify"
	"shotbar/overlay"
	"shotbar/persist"
	"shotbar/tray"
	"shotbar/window"
)

// normalizeFlagDashes maps GNU-style --run-once to Go's -run-once.
func normalizeFlagDashes() {
	for i := 1; i < len(os.Args); i++ {
		if os.Args[i] == "--run-once" {
			os.Args[i] = "-run-once"
		}
	}
}

// ownAppID identifies this process the way the window enumerator identifies
// others, so the selector can exclude our own surfaces.
func ownAppID() window.AppID {
	exe, err := os.Executable()
	if err != nil {
		return "shotbar"
	}
	name := strings.ToLower(filepath.Base(exe))
	return window.AppID(strings.TrimSuffix(name, ".exe"))
}

func main() {
	// DPI awareness must be set before any window is created or metric
	// queried, or Windows lies about pixel geometry on scaled displays.
	enableDPIAwareness()

	// The overlay and selection interaction run on the main goroutine's
	// message queue; keep it on one OS thread.
	runtime.LockOSThread()

	runOnce := flag.Bool("run-once", false, "Capture once to the configured destination and exit")
	runOnceMode := flag.String("mode", "region", "Capture mode for -run-once: region, window or screen")
	normalizeFlagDashes()
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logutil.Setup(cfg.EnableFileLogging)

	provider := display.NewProvider()
	resolver := display.NewResolver(provider)
	m := mapper.New(resolver)
	executor := capture.NewExecutor(capture.NewGrabber(), resolver, m)
	saver := persist.NewSaver()
	selector := overlay.NewSelector(provider)
	enum := window.NewEnumerator()
	windows := window.NewSelector(enum, ownAppID())

	if *runOnce {
		runCaptureOnce(*runOnceMode, selector, executor, windows, enum, resolver, saver, cfg)
		return
	}

	log.Printf("shotbar starting: region=%s window=%s screen=%s destination=%s shutter_sound=%v",
		cfg.HotkeyRegion, cfg.HotkeyWindow, cfg.HotkeyScreen, cfg.Destination, cfg.ShutterSound)

	tooltip := fmt.Sprintf("shotbar - %s to capture a region", cfg.HotkeyRegion)

	var trayIcon *tray.Tray
	loop := eventloop.New(eventloop.Deps{
		Selector: selector,
		Enum:     enum,
		Windows:  windows,
		Executor: executor,
		Resolver: resolver,
		Saver:    saver,
		Notifier: notify.Toast{},
		Tooltip: func(text string) {
			if trayIcon != nil {
				trayIcon.SetTooltip(text)
			}
		},
	})
	loop.SetDefaultTooltip(tooltip)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	trayIcon, err = tray.New(tray.Config{
		Title:    "shotbar",
		Tooltip:  tooltip,
		OnRegion: loop.TriggerRegion,
		OnWindow: loop.TriggerWindow,
		OnScreen: loop.TriggerScreen,
		OnExit:   cancel,
	})
	if err != nil {
		log.Fatalf("Failed to create tray icon: %v", err)
	}
	go trayIcon.Run()
	defer trayIcon.Destroy()

	hotkey.Listen([]hotkey.Binding{
		{Combo: cfg.HotkeyRegion, Callback: loop.TriggerRegion},
		{Combo: cfg.HotkeyWindow, Callback: loop.TriggerWindow},
		{Combo: cfg.HotkeyScreen, Callback: loop.TriggerScreen},
	})

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("event loop stopped: %v", err)
	}
}

// runCaptureOnce performs a single capture in the given mode and exits.
// Exit code 0 covers both a saved capture and a user cancellation.
func runCaptureOnce(mode string, selector overlay.Selector, executor *capture.Executor,
	windows *window.Selector, enum window.Enumerator, resolver *display.Resolver,
	saver *persist.Saver, cfg *config.Config) {

	var img *capture.CapturedImage
	switch mode {
	case "region":
		sel, cancelled, err := selector.Select(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Selection failed: %v\n", err)
			os.Exit(1)
		}
		if cancelled {
			return
		}
		img, err = executor.Selection(sel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Capture failed: %v\n", err)
			os.Exit(1)
		}

	case "window":
		// Sampled before any of our own surfaces exist; in run-once mode the
		// frontmost app is still the user's target.
		prevApp, err := enum.FrontmostApp()
		if err != nil {
			prevApp = ""
		}
		screens, err := resolver.Screens()
		if err != nil || len(screens) == 0 {
			fmt.Fprintf(os.Stderr, "No displays attached\n")
			os.Exit(1)
		}
		target, err := windows.SelectTarget(prevApp, screens[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "No capturable window: %v\n", err)
			os.Exit(1)
		}
		img, err = executor.Window(target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Capture failed: %v\n", err)
			os.Exit(1)
		}

	case "screen":
		var err error
		img, err = executor.AllDisplays()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Capture failed: %v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown capture mode %q (expected region, window or screen)\n", mode)
		os.Exit(2)
	}

	dest, _ := persist.ParseDestination(cfg.Destination)
	format, _ := persist.ParseFormat(cfg.Format)
	receipt, err := saver.Save(img, persist.Request{
		Dest:        dest,
		Format:      format,
		Dir:         cfg.SaveDir,
		JPEGQuality: cfg.JPEGQuality,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Save failed: %v\n", err)
		os.Exit(1)
	}
	log.Printf("run-once: saved %d bytes to %s", receipt.Bytes, receipt.Location)
}
