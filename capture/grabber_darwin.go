//go:build darwin

package capture

/*
#cgo LDFLAGS: -framework CoreGraphics
#include <stdlib.h>
#include <CoreGraphics/CoreGraphics.h>

// Draws the display image into a caller-owned RGBA buffer so the pixel
// layout is fixed regardless of the framebuffer's native format.
static unsigned char *grabDisplayRGBA(uint32_t id, size_t *outW, size_t *outH) {
	CGImageRef img = CGDisplayCreateImage((CGDirectDisplayID)id);
	if (img == NULL) {
		return NULL;
	}
	size_t w = CGImageGetWidth(img);
	size_t h = CGImageGetHeight(img);
	unsigned char *buf = calloc(w * h, 4);
	if (buf == NULL) {
		CGImageRelease(img);
		return NULL;
	}
	CGColorSpaceRef cs = CGColorSpaceCreateDeviceRGB();
	CGContextRef ctx = CGBitmapContextCreate(buf, w, h, 8, w * 4, cs,
		kCGImageAlphaPremultipliedLast | kCGBitmapByteOrder32Big);
	CGColorSpaceRelease(cs);
	if (ctx == NULL) {
		free(buf);
		CGImageRelease(img);
		return NULL;
	}
	CGContextDrawImage(ctx, CGRectMake(0, 0, w, h), img);
	CGContextRelease(ctx);
	CGImageRelease(img);
	*outW = w;
	*outH = h;
	return buf;
}
*/
import "C"

import (
	"fmt"
	"image"
	"unsafe"

	"shotbar/display"
)

// cgGrabber captures one display through CGDisplayCreateImage, which returns
// the backing store at native pixel resolution. The generic rect capture
// path interprets coordinates as points on this platform and would hand back
// a downscaled frame on HiDPI panels.
type cgGrabber struct{}

// NewGrabber returns the platform pixel grabber.
func NewGrabber() Grabber { return cgGrabber{} }

func (cgGrabber) CaptureDisplay(s display.ScreenDescriptor) (*image.RGBA, error) {
	var w, h C.size_t
	buf := C.grabDisplayRGBA(C.uint32_t(s.ID), &w, &h)
	if buf == nil {
		return nil, fmt.Errorf("capture display %d: CGDisplayCreateImage failed", s.ID)
	}
	defer C.free(unsafe.Pointer(buf))

	n := int(w) * int(h) * 4
	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	copy(img.Pix, unsafe.Slice((*byte)(unsafe.Pointer(buf)), n))
	// The bitmap context leaves alpha premultiplied; screenshots are opaque.
	for i := 3; i < n; i += 4 {
		img.Pix[i] = 0xff
	}
	return img, nil
}
