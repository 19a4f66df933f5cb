// Package window enumerates on-screen windows and picks the best capture
// target for "active window" mode. Candidates are enumerated fresh for every
// attempt and never persisted.
package window

import (
	"errors"

	"shotbar/geom"
)

// ErrNoCaptureTarget means no window survived filtering. Surfaced distinctly
// from a capture failure so the user knows to focus a window first.
var ErrNoCaptureTarget = errors.New("no capturable window")

// AppID identifies the application owning a window (executable or bundle
// name, lower-cased).
type AppID string

// Handle is an opaque native window handle.
type Handle uintptr

// Candidate is one enumerated window.
type Candidate struct {
	Handle   Handle
	App      AppID
	Title    string
	Class    string
	Frame    geom.Rect // global point space, bottom-left origin
	OnScreen bool
}

// Enumerator lists capturable windows and reports the frontmost application.
// FrontmostApp must be sampled at the moment the user triggers a capture,
// before any of this tool's own surfaces can steal focus; sampling it later
// reliably records this tool instead of the user's target.
type Enumerator interface {
	List() ([]Candidate, error)
	FrontmostApp() (AppID, error)
}

// NewEnumerator returns the platform window enumerator.
func NewEnumerator() Enumerator { return newPlatformEnumerator() }

// OnVirtualScreen reports whether any part of the frame lies on the desktop
// union. Minimized windows park far offscreen (at -32000 on Windows) with an
// otherwise plausible rect and must not be offered as capture targets.
func OnVirtualScreen(frame, virtual geom.Rect) bool {
	return !frame.Intersect(virtual).Empty()
}
