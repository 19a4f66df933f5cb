// Package capture performs the actual pixel grabs. Region captures grab the
// whole display and crop in memory: asking some backends for a hardware
// sub-region silently falls back to a lower resolution or yields a black
// frame on certain display/driver combinations, while a full grab plus crop
// is reliable at a constant memory cost. Window captures validate the result
// with the mostly-black heuristic and retry through the display-region path.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"

	"shotbar/display"
	"shotbar/geom"
	"shotbar/mapper"
	"shotbar/window"
)

// ErrCaptureFailed means the pixel grab errored, or produced an empty frame
// and the fallback path failed too. Terminal for the attempt; not retried.
var ErrCaptureFailed = errors.New("capture failed")

// windowInsetPts shaves the fallback region slightly so neighboring window
// edges don't bleed into the capture.
const windowInsetPts = 1.0

// CapturedImage is an owned pixel buffer plus enough metadata to reconstruct
// DPI on save. Exclusively owned by the executor until handed to
// persistence; never shared.
type CapturedImage struct {
	Image  *image.RGBA
	Scale  float64
	Source string
}

// Executor resolves capture targets against fresh display topology and runs
// the grabs. Calls block; the worker pool keeps them off the interaction
// goroutine.
type Executor struct {
	grabber  Grabber
	resolver *display.Resolver
	mapper   *mapper.Mapper
}

func NewExecutor(g Grabber, r *display.Resolver, m *mapper.Mapper) *Executor {
	return &Executor{grabber: g, resolver: r, mapper: m}
}

// grabDisplay runs the raw grab and verifies the buffer is the display's
// native pixel size. Every crop downstream addresses the buffer with mapped
// pixel coordinates; a point-resolution or partial grab would put those
// coordinates on the wrong content.
func (e *Executor) grabDisplay(s display.ScreenDescriptor) (*image.RGBA, error) {
	img, err := e.grabber.CaptureDisplay(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	if img.Bounds().Dx() != s.PixelW || img.Bounds().Dy() != s.PixelH {
		return nil, fmt.Errorf("%w: display %d grab is %dx%d, want native %dx%d",
			ErrCaptureFailed, s.ID, img.Bounds().Dx(), img.Bounds().Dy(), s.PixelW, s.PixelH)
	}
	return img, nil
}

// FullDisplay captures one whole display at native pixel resolution.
func (e *Executor) FullDisplay(s display.ScreenDescriptor) (*CapturedImage, error) {
	fresh, err := e.resolver.Lookup(s.ID)
	if err != nil {
		return nil, err
	}
	img, err := e.grabDisplay(fresh)
	if err != nil {
		return nil, err
	}
	return &CapturedImage{
		Image:  img,
		Scale:  float64(fresh.PixelW) / fresh.Frame.W,
		Source: fmt.Sprintf("display %d", fresh.ID),
	}, nil
}

// Region captures the given pixel sub-region of a display by grabbing the
// full frame and cropping into a freshly owned buffer.
func (e *Executor) Region(s display.ScreenDescriptor, px geom.PixelRegion) (*CapturedImage, error) {
	fresh, err := e.resolver.Lookup(s.ID)
	if err != nil {
		return nil, err
	}
	full, err := e.grabDisplay(fresh)
	if err != nil {
		return nil, err
	}

	px = px.Clamp(full.Bounds().Dx(), full.Bounds().Dy())
	if px.TooSmall() {
		return nil, fmt.Errorf("%w: cropped region %dx%d below minimum", ErrCaptureFailed, px.W, px.H)
	}
	crop := image.NewRGBA(image.Rect(0, 0, px.W, px.H))
	draw.Draw(crop, crop.Bounds(), full, full.Bounds().Min.Add(px.Bounds().Min), draw.Src)

	return &CapturedImage{
		Image:  crop,
		Scale:  float64(fresh.PixelW) / fresh.Frame.W,
		Source: fmt.Sprintf("display %d region %dx%d", fresh.ID, px.W, px.H),
	}, nil
}

// Selection maps a completed selection and captures it.
func (e *Executor) Selection(sel mapper.SelectionRegion) (*CapturedImage, error) {
	px, err := e.mapper.Map(sel)
	if err != nil {
		return nil, err
	}
	return e.Region(sel.Screen, px)
}

// Window captures one window. The window-specific grab (when the backend has
// one) is validated with the mostly-black heuristic; a black or failed grab
// retries through the display region under the window's frame, inset by a
// small margin. If that also fails the attempt is over.
func (e *Executor) Window(c window.Candidate) (*CapturedImage, error) {
	if wg, ok := e.grabber.(WindowGrabber); ok {
		img, err := wg.CaptureWindow(c.Handle)
		if err == nil && !MostlyBlack(img) {
			return &CapturedImage{Image: img, Scale: 1, Source: fmt.Sprintf("window %q", c.Title)}, nil
		}
		if err != nil {
			log.Printf("capture: window grab for %q failed (%v), falling back to display region", c.Title, err)
		} else {
			log.Printf("capture: window grab for %q came back black, falling back to display region", c.Title)
		}
	}

	screens, err := e.resolver.Screens()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	scr, ok := display.ScreenForRect(screens, c.Frame)
	if !ok {
		return nil, fmt.Errorf("%w: window %q is on no attached display", ErrCaptureFailed, c.Title)
	}

	sel := mapper.SelectionRegion{
		Rect:   c.Frame.Inset(windowInsetPts).Intersect(scr.Frame),
		Screen: scr,
	}
	px, err := e.mapper.Map(sel)
	if err != nil {
		return nil, fmt.Errorf("%w: map window region: %v", ErrCaptureFailed, err)
	}
	out, err := e.Region(scr, px)
	if err != nil {
		return nil, err
	}
	if MostlyBlack(out.Image) {
		return nil, fmt.Errorf("%w: window %q produced an empty frame on both paths", ErrCaptureFailed, c.Title)
	}
	out.Source = fmt.Sprintf("window %q", c.Title)
	return out, nil
}

// AllDisplays captures every attached display and stitches them into one
// image laid out by their capture-space bounds.
func (e *Executor) AllDisplays() (*CapturedImage, error) {
	screens, err := e.resolver.Screens()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	if len(screens) == 0 {
		return nil, fmt.Errorf("%w: no active displays", ErrCaptureFailed)
	}

	union := screens[0].PixelBounds
	for _, s := range screens[1:] {
		union = union.Union(s.PixelBounds)
	}
	canvas := image.NewRGBA(image.Rect(0, 0, union.Dx(), union.Dy()))
	for _, s := range screens {
		img, err := e.grabDisplay(s)
		if err != nil {
			return nil, err
		}
		dst := s.PixelBounds.Sub(union.Min)
		draw.Draw(canvas, dst, img, img.Bounds().Min, draw.Src)
	}

	return &CapturedImage{
		Image:  canvas,
		Scale:  float64(screens[0].PixelW) / screens[0].Frame.W,
		Source: fmt.Sprintf("%d display(s)", len(screens)),
	}, nil
}
