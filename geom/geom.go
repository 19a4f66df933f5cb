// Package geom holds the two coordinate vocabularies the capture pipeline
// converts between: resolution-independent point space (bottom-left origin,
// the platform's native screen space) and per-display pixel space (top-left
// origin, the framebuffer's space).
package geom

import (
	"image"
	"math"
)

const (
	// MinSelectionPts is the smallest point-space side length a selection may
	// have. Anything smaller is treated as an accidental drag and cancelled.
	MinSelectionPts = 4.0

	// MinPixelSide is the smallest pixel-space side length a mapped region may
	// have. Both this and MinSelectionPts are enforced: a selection that
	// passes the point check can still collapse below this on low-scale
	// displays.
	MinPixelSide = 4
)

// Point is a location in global point space.
type Point struct {
	X float64
	Y float64
}

// Rect is a rectangle in point space. The origin is the bottom-left corner.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// RectFromCorners builds the normalized rectangle spanned by two drag corners.
func RectFromCorners(a, b Point) Rect {
	return Rect{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		W: math.Abs(a.X - b.X),
		H: math.Abs(a.Y - b.Y),
	}
}

// Normalize returns an equivalent rectangle with non-negative width and height.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Area returns the rectangle's area in square points.
func (r Rect) Area() float64 {
	if r.Empty() {
		return 0
	}
	return r.W * r.H
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside r. The max edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Intersect returns the overlap of r and o, or a zero Rect when they are
// disjoint.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.MaxX(), o.MaxX())
	y1 := math.Min(r.MaxY(), o.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Inset shrinks the rectangle by d points on every side. An inset larger than
// half a side collapses that side to zero around the center.
func (r Rect) Inset(d float64) Rect {
	out := Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
	if out.W < 0 {
		out.X = r.X + r.W/2
		out.W = 0
	}
	if out.H < 0 {
		out.Y = r.Y + r.H/2
		out.H = 0
	}
	return out
}

// Dist returns the euclidean distance between two points.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// PixelRegion is an integer rectangle in a single display's native pixel
// buffer. YFromTop counts down from the top edge of that buffer.
type PixelRegion struct {
	X        int
	YFromTop int
	W        int
	H        int
}

// Clamp confines the region to a maxW x maxH buffer. Negative origins are
// pulled to zero and the size is shrunk so the region never exceeds the
// buffer bounds.
func (p PixelRegion) Clamp(maxW, maxH int) PixelRegion {
	if p.X < 0 {
		p.W += p.X
		p.X = 0
	}
	if p.YFromTop < 0 {
		p.H += p.YFromTop
		p.YFromTop = 0
	}
	if p.X+p.W > maxW {
		p.W = maxW - p.X
	}
	if p.YFromTop+p.H > maxH {
		p.H = maxH - p.YFromTop
	}
	if p.W < 0 {
		p.W = 0
	}
	if p.H < 0 {
		p.H = 0
	}
	return p
}

// Bounds converts the region to an image.Rectangle in the same buffer space.
func (p PixelRegion) Bounds() image.Rectangle {
	return image.Rect(p.X, p.YFromTop, p.X+p.W, p.YFromTop+p.H)
}

// TooSmall reports whether either side is below MinPixelSide.
func (p PixelRegion) TooSmall() bool {
	return p.W < MinPixelSide || p.H < MinPixelSide
}
