package capture

import (
	"image"

	"shotbar/display"
	"shotbar/window"
)

// Grabber performs the raw pixel grab for one display at native resolution.
type Grabber interface {
	CaptureDisplay(s display.ScreenDescriptor) (*image.RGBA, error)
}

// WindowGrabber is an optional extension for backends with a window-specific
// capture path. When absent, window captures go straight to the
// display-region fallback.
type WindowGrabber interface {
	CaptureWindow(h window.Handle) (*image.RGBA, error)
}
