package display

import (
	"errors"
	"image"
	"math"
	"testing"

	"shotbar/geom"
)

type fakeProvider struct {
	screens []ScreenDescriptor
	err     error
	calls   int
}

func (f *fakeProvider) Screens() ([]ScreenDescriptor, error) {
	f.calls++
	return f.screens, f.err
}

func laptop() ScreenDescriptor {
	return ScreenDescriptor{
		ID:          1,
		Frame:       geom.Rect{X: 0, Y: 0, W: 1440, H: 900},
		PixelW:      2880,
		PixelH:      1800,
		PixelBounds: image.Rect(0, 0, 2880, 1800),
	}
}

func external() ScreenDescriptor {
	return ScreenDescriptor{
		ID:          2,
		Frame:       geom.Rect{X: 1440, Y: 100, W: 1920, H: 1080},
		PixelW:      1920,
		PixelH:      1080,
		PixelBounds: image.Rect(2880, 0, 4800, 1080),
	}
}

func TestResolveComputesScaleFromPixelDimensions(t *testing.T) {
	r := NewResolver(&fakeProvider{screens: []ScreenDescriptor{laptop(), external()}})

	topo, err := r.Resolve(laptop())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if topo.ScaleX != 2 || topo.ScaleY != 2 {
		t.Errorf("scale = %v,%v, want 2,2", topo.ScaleX, topo.ScaleY)
	}
	if topo.PixelW != 2880 || topo.PixelH != 1800 {
		t.Errorf("pixels = %dx%d, want 2880x1800", topo.PixelW, topo.PixelH)
	}

	topo, err = r.Resolve(external())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if topo.ScaleX != 1 || topo.ScaleY != 1 {
		t.Errorf("external scale = %v,%v, want 1,1", topo.ScaleX, topo.ScaleY)
	}
}

func TestResolveFractionalScale(t *testing.T) {
	// A scaled-mode display reports a non-integer ratio; it must come through
	// exactly, never snapped to 1.0 or 2.0.
	scaled := ScreenDescriptor{
		ID:     3,
		Frame:  geom.Rect{W: 1680, H: 1050},
		PixelW: 2880,
		PixelH: 1800,
	}
	r := NewResolver(&fakeProvider{screens: []ScreenDescriptor{scaled}})

	topo, err := r.Resolve(scaled)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := 2880.0 / 1680.0
	if math.Abs(topo.ScaleX-want) > 1e-12 {
		t.Errorf("ScaleX = %v, want %v", topo.ScaleX, want)
	}
}

func TestResolveDetachedDisplay(t *testing.T) {
	r := NewResolver(&fakeProvider{screens: []ScreenDescriptor{external()}})

	_, err := r.Resolve(laptop())
	if !errors.Is(err, ErrDisplayGone) {
		t.Errorf("err = %v, want ErrDisplayGone", err)
	}
}

func TestResolveRejectsDegenerateDescriptors(t *testing.T) {
	noPixels := laptop()
	noPixels.PixelW = 0
	r := NewResolver(&fakeProvider{screens: []ScreenDescriptor{noPixels}})
	if _, err := r.Resolve(noPixels); err == nil {
		t.Error("expected error for zero pixel dimensions")
	}

	noFrame := laptop()
	noFrame.Frame.W = 0
	r = NewResolver(&fakeProvider{screens: []ScreenDescriptor{noFrame}})
	if _, err := r.Resolve(noFrame); err == nil {
		t.Error("expected error for degenerate frame")
	}
}

func TestResolveQueriesProviderEveryCall(t *testing.T) {
	prov := &fakeProvider{screens: []ScreenDescriptor{laptop()}}
	r := NewResolver(prov)

	first, err := r.Resolve(laptop())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		topo, err := r.Resolve(laptop())
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if topo != first {
			t.Errorf("Resolve not idempotent for unchanged screen: %+v vs %+v", topo, first)
		}
	}
	if prov.calls != 3 {
		t.Errorf("provider calls = %d, want 3 (no caching)", prov.calls)
	}
}

func TestLookup(t *testing.T) {
	r := NewResolver(&fakeProvider{screens: []ScreenDescriptor{laptop(), external()}})

	s, err := r.Lookup(2)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if s.ID != 2 {
		t.Errorf("ID = %d, want 2", s.ID)
	}

	if _, err := r.Lookup(99); !errors.Is(err, ErrDisplayGone) {
		t.Errorf("err = %v, want ErrDisplayGone", err)
	}
}

func TestScreenContaining(t *testing.T) {
	screens := []ScreenDescriptor{laptop(), external()}

	s, ok := ScreenContaining(screens, geom.Point{X: 1500, Y: 200})
	if !ok || s.ID != 2 {
		t.Errorf("got ID %d ok=%v, want external", s.ID, ok)
	}
	if _, ok := ScreenContaining(screens, geom.Point{X: -10, Y: 5000}); ok {
		t.Error("point outside every screen should not match")
	}
}

func TestScreenForRectPicksLargestOverlap(t *testing.T) {
	screens := []ScreenDescriptor{laptop(), external()}

	// A window straddling the seam but mostly on the external display.
	r := geom.Rect{X: 1400, Y: 200, W: 600, H: 400}
	s, ok := ScreenForRect(screens, r)
	if !ok || s.ID != 2 {
		t.Errorf("got ID %d ok=%v, want external", s.ID, ok)
	}

	if _, ok := ScreenForRect(screens, geom.Rect{X: 9000, Y: 9000, W: 10, H: 10}); ok {
		t.Error("offscreen rect should not match")
	}
}

func TestPointFromCapturePixel(t *testing.T) {
	screens := []ScreenDescriptor{laptop(), external()}

	// Top-left pixel of the laptop maps to its top-left corner in point
	// space, which in y-up coordinates is y = frame top.
	p, ok := PointFromCapturePixel(screens, image.Pt(0, 0))
	if !ok {
		t.Fatal("pixel on laptop not attributed")
	}
	if p.X != 0 || p.Y != 900 {
		t.Errorf("point = %+v, want (0, 900)", p)
	}

	// A pixel on the external display localizes against its own bounds.
	p, ok = PointFromCapturePixel(screens, image.Pt(2880+960, 540))
	if !ok {
		t.Fatal("pixel on external not attributed")
	}
	if p.X != 1440+960 || p.Y != 100+540 {
		t.Errorf("point = %+v, want (2400, 640)", p)
	}

	if _, ok := PointFromCapturePixel(screens, image.Pt(-5, -5)); ok {
		t.Error("pixel outside every display should not match")
	}
}
