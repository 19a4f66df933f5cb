//go:build darwin

package display

/*
#cgo LDFLAGS: -framework CoreGraphics
#include <CoreGraphics/CoreGraphics.h>

typedef struct {
	uint32_t id;
	double   x, y, w, h;
	long     pixelW, pixelH;
} displayInfo;

static int listDisplays(displayInfo *out, int max) {
	CGDirectDisplayID ids[16];
	uint32_t count = 0;
	if (CGGetActiveDisplayList(16, ids, &count) != kCGErrorSuccess) {
		return -1;
	}
	if ((int)count > max) {
		count = max;
	}
	for (uint32_t i = 0; i < count; i++) {
		CGRect b = CGDisplayBounds(ids[i]);
		out[i].id = ids[i];
		out[i].x = b.origin.x;
		out[i].y = b.origin.y;
		out[i].w = b.size.width;
		out[i].h = b.size.height;
		// Native pixel dimensions come from the current display mode, not
		// from CGDisplayPixelsWide: on HiDPI panels the latter reports
		// points and would silently halve every crop.
		CGDisplayModeRef mode = CGDisplayCopyDisplayMode(ids[i]);
		if (mode != NULL) {
			out[i].pixelW = (long)CGDisplayModeGetPixelWidth(mode);
			out[i].pixelH = (long)CGDisplayModeGetPixelHeight(mode);
			CGDisplayModeRelease(mode);
		} else {
			out[i].pixelW = (long)b.size.width;
			out[i].pixelH = (long)b.size.height;
		}
	}
	return (int)count;
}

static double mainDisplayHeight(void) {
	return CGDisplayBounds(CGMainDisplayID()).size.height;
}
*/
import "C"

import (
	"errors"
	"image"
	"math"

	"shotbar/geom"
)

// cgProvider enumerates displays through CoreGraphics. CG reports bounds in
// points with a top-left global origin; frames are flipped against the main
// display height into the bottom-left, y-up convention the pipeline uses.
type cgProvider struct{}

// NewProvider returns the platform display provider.
func NewProvider() Provider { return cgProvider{} }

func (cgProvider) Screens() ([]ScreenDescriptor, error) {
	var infos [16]C.displayInfo
	n := int(C.listDisplays(&infos[0], 16))
	if n < 0 {
		return nil, errors.New("CGGetActiveDisplayList failed")
	}
	if n == 0 {
		return nil, errors.New("no active displays found")
	}
	mainH := float64(C.mainDisplayHeight())

	screens := make([]ScreenDescriptor, 0, n)
	for i := 0; i < n; i++ {
		in := infos[i]
		w := float64(in.w)
		h := float64(in.h)
		pw := int(in.pixelW)
		ph := int(in.pixelH)
		scaleX := 1.0
		scaleY := 1.0
		if w > 0 && h > 0 {
			scaleX = float64(pw) / w
			scaleY = float64(ph) / h
		}
		screens = append(screens, ScreenDescriptor{
			ID: ID(in.id),
			Frame: geom.Rect{
				X: float64(in.x),
				Y: mainH - (float64(in.y) + h),
				W: w,
				H: h,
			},
			PixelW: pw,
			PixelH: ph,
			PixelBounds: image.Rect(
				int(math.Round(float64(in.x)*scaleX)),
				int(math.Round(float64(in.y)*scaleY)),
				int(math.Round(float64(in.x)*scaleX))+pw,
				int(math.Round(float64(in.y)*scaleY))+ph,
			),
		})
	}
	return screens, nil
}
