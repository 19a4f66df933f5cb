// Package mapper converts a user-drawn selection rectangle, expressed in
// global point coordinates, into the exact sub-region of the owning display's
// native pixel buffer. This conversion has to be bit-accurate: an off-by-one
// in scale or origin shows up as a visibly wrong crop.
package mapper

import (
	"errors"
	"fmt"
	"math"

	"shotbar/display"
	"shotbar/geom"
)

// ErrRegionTooSmall means the mapped region collapsed below the minimum pixel
// size. Callers treat it as a cancellation, not a failure: it is almost
// always an accidental near-zero drag.
var ErrRegionTooSmall = errors.New("selection below minimum pixel size")

// SelectionRegion is a normalized selection rectangle in global point space
// together with the screen the drag originated on. Single use: it is mapped
// once and discarded.
type SelectionRegion struct {
	Rect   geom.Rect
	Screen display.ScreenDescriptor
}

// Mapper resolves selections against fresh display topology.
type Mapper struct {
	resolver *display.Resolver
}

func New(r *display.Resolver) *Mapper {
	return &Mapper{resolver: r}
}

// Map computes the pixel-accurate sub-region of the selection's screen.
//
// Scale is applied per axis (non-square scaling is rare but real), with
// round-to-nearest throughout: truncation silently shrinks captures by up to
// a pixel per edge. The Y axis flips from the screen's bottom-left origin to
// the pixel buffer's top-left origin.
func (m *Mapper) Map(sel SelectionRegion) (geom.PixelRegion, error) {
	topo, err := m.resolver.Resolve(sel.Screen)
	if err != nil {
		return geom.PixelRegion{}, fmt.Errorf("resolve selection screen: %w", err)
	}

	r := sel.Rect.Normalize()
	frame := sel.Screen.Frame

	// Global points -> screen-local points.
	localX := r.X - frame.X
	localY := r.Y - frame.Y

	px := geom.PixelRegion{
		X:        int(math.Round(localX * topo.ScaleX)),
		YFromTop: int(math.Round((frame.H - (localY + r.H)) * topo.ScaleY)),
		W:        int(math.Round(r.W * topo.ScaleX)),
		H:        int(math.Round(r.H * topo.ScaleY)),
	}
	px = px.Clamp(topo.PixelW, topo.PixelH)

	// A selection that passed the point-space size check can still collapse
	// below the pixel minimum on low-scale displays; both checks are needed.
	if px.TooSmall() {
		return geom.PixelRegion{}, fmt.Errorf("%dx%d px: %w", px.W, px.H, ErrRegionTooSmall)
	}
	return px, nil
}
