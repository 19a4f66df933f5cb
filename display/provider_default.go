//go:build !darwin

package display

import (
	"errors"
	"image"

	"github.com/kbinani/screenshot"

	"shotbar/geom"
)

// desktopProvider enumerates displays through the virtual-screen bounds the
// screenshot library reports. With DPI awareness enabled at startup those
// bounds are physical pixels, so point space and pixel space coincide here
// (scale 1:1); the frames are re-anchored to a bottom-left, y-up origin so
// the rest of the pipeline sees one coordinate convention on every platform.
type desktopProvider struct{}

// NewProvider returns the platform display provider.
func NewProvider() Provider { return desktopProvider{} }

func (desktopProvider) Screens() ([]ScreenDescriptor, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, errors.New("no active displays found")
	}

	bounds := make([]image.Rectangle, n)
	union := screenshot.GetDisplayBounds(0)
	bounds[0] = union
	for i := 1; i < n; i++ {
		bounds[i] = screenshot.GetDisplayBounds(i)
		union = union.Union(bounds[i])
	}

	screens := make([]ScreenDescriptor, 0, n)
	for i, b := range bounds {
		screens = append(screens, ScreenDescriptor{
			ID: ID(i),
			Frame: geom.Rect{
				X: float64(b.Min.X),
				Y: float64(union.Max.Y - b.Max.Y),
				W: float64(b.Dx()),
				H: float64(b.Dy()),
			},
			PixelW:      b.Dx(),
			PixelH:      b.Dy(),
			PixelBounds: b,
		})
	}
	return screens, nil
}
