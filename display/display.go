// Package display resolves the attached screens: their frames in global
// point space and their native pixel geometry. Descriptors are always
// re-queried from the OS at the point of use so a monitor that was unplugged
// between selection and capture is observed, never guessed around.
package display

import (
	"errors"
	"fmt"
	"image"

	"shotbar/geom"
)

// ErrDisplayGone means a screen that was valid earlier in the capture attempt
// is no longer attached. The attempt must abort; there is no fallback screen.
var ErrDisplayGone = errors.New("display no longer attached")

// ID identifies one physical display. Stable for the session while the
// display stays attached; opaque to callers.
type ID uint32

// ScreenDescriptor is one attached display.
//
// Frame is in global point space (bottom-left origin, y-up). PixelW/PixelH
// are the native framebuffer dimensions. PixelBounds places the display's
// pixel buffer inside the global capture space (top-left origin) used by the
// pixel grabber.
type ScreenDescriptor struct {
	ID          ID
	Frame       geom.Rect
	PixelW      int
	PixelH      int
	PixelBounds image.Rectangle
}

// Topology is the resolved points-to-pixels mapping for one display.
type Topology struct {
	PixelW int
	PixelH int
	ScaleX float64
	ScaleY float64
}

// Provider enumerates the currently attached screens. Implementations query
// the OS on every call; callers must not cache the result across captures.
type Provider interface {
	Screens() ([]ScreenDescriptor, error)
}

// Resolver maps a screen descriptor to its native pixel topology.
type Resolver struct {
	provider Provider
}

func NewResolver(p Provider) *Resolver {
	return &Resolver{provider: p}
}

// Screens re-enumerates the attached displays.
func (r *Resolver) Screens() ([]ScreenDescriptor, error) {
	return r.provider.Screens()
}

// Resolve re-checks that the screen is still attached and computes its scale
// factors from the OS-reported native pixel dimensions. The scale is never
// taken from a cached backing-scale constant: scaled and Sidecar-style
// displays report non-integer ratios, and assuming 1.0 or 2.0 there produces
// visibly wrong crops.
func (r *Resolver) Resolve(s ScreenDescriptor) (Topology, error) {
	screens, err := r.provider.Screens()
	if err != nil {
		return Topology{}, fmt.Errorf("enumerate displays: %w", err)
	}
	for _, cur := range screens {
		if cur.ID != s.ID {
			continue
		}
		if cur.Frame.W <= 0 || cur.Frame.H <= 0 {
			return Topology{}, fmt.Errorf("display %d has degenerate frame %+v", cur.ID, cur.Frame)
		}
		if cur.PixelW <= 0 || cur.PixelH <= 0 {
			return Topology{}, fmt.Errorf("display %d reports no pixel dimensions", cur.ID)
		}
		return Topology{
			PixelW: cur.PixelW,
			PixelH: cur.PixelH,
			ScaleX: float64(cur.PixelW) / cur.Frame.W,
			ScaleY: float64(cur.PixelH) / cur.Frame.H,
		}, nil
	}
	return Topology{}, fmt.Errorf("display %d: %w", s.ID, ErrDisplayGone)
}

// Lookup returns the current descriptor for id, or ErrDisplayGone.
func (r *Resolver) Lookup(id ID) (ScreenDescriptor, error) {
	screens, err := r.provider.Screens()
	if err != nil {
		return ScreenDescriptor{}, fmt.Errorf("enumerate displays: %w", err)
	}
	for _, s := range screens {
		if s.ID == id {
			return s, nil
		}
	}
	return ScreenDescriptor{}, fmt.Errorf("display %d: %w", id, ErrDisplayGone)
}

// ScreenContaining picks the screen whose frame contains p, if any.
func ScreenContaining(screens []ScreenDescriptor, p geom.Point) (ScreenDescriptor, bool) {
	for _, s := range screens {
		if s.Frame.Contains(p) {
			return s, true
		}
	}
	return ScreenDescriptor{}, false
}

// ScreenForRect picks the screen whose frame overlaps r the most. Used to
// attribute a window frame to the display it mostly lives on.
func ScreenForRect(screens []ScreenDescriptor, r geom.Rect) (ScreenDescriptor, bool) {
	var best ScreenDescriptor
	bestArea := 0.0
	found := false
	for _, s := range screens {
		a := s.Frame.Intersect(r).Area()
		if a > bestArea {
			best = s
			bestArea = a
			found = true
		}
	}
	return best, found
}

// PointFromCapturePixel converts a capture-space pixel location (top-left
// origin, global) to global point space (bottom-left origin). Reports false
// when the location falls outside every display's pixel bounds.
func PointFromCapturePixel(screens []ScreenDescriptor, p image.Point) (geom.Point, bool) {
	for _, s := range screens {
		if !p.In(s.PixelBounds) {
			continue
		}
		localX := float64(p.X - s.PixelBounds.Min.X)
		localY := float64(p.Y - s.PixelBounds.Min.Y) // from top
		scaleX := float64(s.PixelW) / s.Frame.W
		scaleY := float64(s.PixelH) / s.Frame.H
		return geom.Point{
			X: s.Frame.X + localX/scaleX,
			Y: s.Frame.Y + (float64(s.PixelH)-localY)/scaleY,
		}, true
	}
	return geom.Point{}, false
}
