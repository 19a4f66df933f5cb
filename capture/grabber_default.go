//go:build !darwin

package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"shotbar/display"
)

// desktopGrabber grabs through the screenshot library's rect capture in
// capture space (global, top-left origin). On these platforms the capture
// coordinates are already physical pixels.
type desktopGrabber struct{}

// NewGrabber returns the platform pixel grabber.
func NewGrabber() Grabber { return desktopGrabber{} }

func (desktopGrabber) CaptureDisplay(s display.ScreenDescriptor) (*image.RGBA, error) {
	img, err := screenshot.CaptureRect(s.PixelBounds)
	if err != nil {
		return nil, fmt.Errorf("capture display %d: %w", s.ID, err)
	}
	return img, nil
}
