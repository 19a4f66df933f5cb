//go:build windows

package main

import "syscall"

// enableDPIAwareness opts the process into per-monitor DPI awareness.
// Without it Windows virtualizes coordinates on scaled displays and every
// pixel mapping is off by the scale factor.
func enableDPIAwareness() {
	// Prefer per-monitor awareness via Shcore (Win 8.1+).
	shcore := syscall.NewLazyDLL("Shcore.dll")
	setProcessDpiAwareness := shcore.NewProc("SetProcessDpiAwareness")
	const processPerMonitorDPIAware = 2
	if err := setProcessDpiAwareness.Find(); err == nil {
		_, _, _ = setProcessDpiAwareness.Call(uintptr(processPerMonitorDPIAware))
		return
	}
	// Fallback: system-wide awareness (Vista+).
	user32 := syscall.NewLazyDLL("user32.dll")
	setProcessDPIAware := user32.NewProc("SetProcessDPIAware")
	if err := setProcessDPIAware.Find(); err == nil {
		_, _, _ = setProcessDPIAware.Call()
	}
}
