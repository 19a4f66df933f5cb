package mapper

import (
	"errors"
	"image"
	"math"
	"testing"

	"shotbar/display"
	"shotbar/geom"
)

type fakeProvider struct {
	screens []display.ScreenDescriptor
	err     error
}

func (f *fakeProvider) Screens() ([]display.ScreenDescriptor, error) {
	return f.screens, f.err
}

func retinaScreen() display.ScreenDescriptor {
	return display.ScreenDescriptor{
		ID:          1,
		Frame:       geom.Rect{X: 0, Y: 0, W: 1440, H: 900},
		PixelW:      2880,
		PixelH:      1800,
		PixelBounds: image.Rect(0, 0, 2880, 1800),
	}
}

func newMapper(screens ...display.ScreenDescriptor) *Mapper {
	return New(display.NewResolver(&fakeProvider{screens: screens}))
}

func TestMapRetinaSelection(t *testing.T) {
	scr := retinaScreen()
	m := newMapper(scr)

	px, err := m.Map(SelectionRegion{
		Rect:   geom.Rect{X: 100, Y: 100, W: 200, H: 150},
		Screen: scr,
	})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	want := geom.PixelRegion{X: 200, YFromTop: 1300, W: 400, H: 300}
	if px != want {
		t.Errorf("Map = %+v, want %+v", px, want)
	}
}

func TestMapFlipsYAxis(t *testing.T) {
	scr := retinaScreen()
	m := newMapper(scr)

	// A selection hugging the top edge of the screen lands at the top of the
	// pixel buffer.
	px, err := m.Map(SelectionRegion{
		Rect:   geom.Rect{X: 0, Y: 750, W: 200, H: 150},
		Screen: scr,
	})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if px.YFromTop != 0 {
		t.Errorf("YFromTop = %d, want 0", px.YFromTop)
	}

	// And one hugging the bottom edge lands at the bottom.
	px, err = m.Map(SelectionRegion{
		Rect:   geom.Rect{X: 0, Y: 0, W: 200, H: 150},
		Screen: scr,
	})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if px.YFromTop+px.H != 1800 {
		t.Errorf("bottom edge at %d, want 1800", px.YFromTop+px.H)
	}
}

func TestMapSecondaryScreenLocalizes(t *testing.T) {
	secondary := display.ScreenDescriptor{
		ID:          2,
		Frame:       geom.Rect{X: 1440, Y: 120, W: 1920, H: 1080},
		PixelW:      1920,
		PixelH:      1080,
		PixelBounds: image.Rect(2880, 0, 4800, 1080),
	}
	m := newMapper(retinaScreen(), secondary)

	px, err := m.Map(SelectionRegion{
		Rect:   geom.Rect{X: 1540, Y: 220, W: 300, H: 200},
		Screen: secondary,
	})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	want := geom.PixelRegion{X: 100, YFromTop: 1080 - (100 + 200), W: 300, H: 200}
	if px != want {
		t.Errorf("Map = %+v, want %+v", px, want)
	}
}

func TestMapRoundsToNearest(t *testing.T) {
	scr := retinaScreen()
	m := newMapper(scr)

	// Fractional point coordinates from a scaled pointer must round, not
	// truncate.
	px, err := m.Map(SelectionRegion{
		Rect:   geom.Rect{X: 10.3, Y: 10.3, W: 100.2, H: 50.4},
		Screen: scr,
	})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if px.X != int(math.Round(10.3*2)) {
		t.Errorf("X = %d, want %d", px.X, int(math.Round(10.3*2)))
	}
	if px.W != int(math.Round(100.2*2)) {
		t.Errorf("W = %d, want %d", px.W, int(math.Round(100.2*2)))
	}
}

func TestMapDimensionsWithinOnePixel(t *testing.T) {
	scr := retinaScreen()
	m := newMapper(scr)

	rects := []geom.Rect{
		{X: 0.7, Y: 1.1, W: 33.3, H: 47.9},
		{X: 100.49, Y: 200.51, W: 64.01, H: 31.99},
		{X: 719.5, Y: 449.5, W: 10.5, H: 10.5},
	}
	for _, r := range rects {
		px, err := m.Map(SelectionRegion{Rect: r, Screen: scr})
		if err != nil {
			t.Fatalf("Map(%+v) failed: %v", r, err)
		}
		if math.Abs(float64(px.W)-r.W*2) > 1 {
			t.Errorf("rect %+v: W = %d, more than 1px from %v", r, px.W, r.W*2)
		}
		if math.Abs(float64(px.H)-r.H*2) > 1 {
			t.Errorf("rect %+v: H = %d, more than 1px from %v", r, px.H, r.H*2)
		}
	}
}

func TestMapNormalizesNegativeRect(t *testing.T) {
	scr := retinaScreen()
	m := newMapper(scr)

	px, err := m.Map(SelectionRegion{
		Rect:   geom.Rect{X: 300, Y: 250, W: -200, H: -150},
		Screen: scr,
	})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	want := geom.PixelRegion{X: 200, YFromTop: 1300, W: 400, H: 300}
	if px != want {
		t.Errorf("Map = %+v, want %+v", px, want)
	}
}

func TestMapRejectsTooSmallRegion(t *testing.T) {
	// On a 1:1 display a 3.4-point selection maps below the pixel minimum.
	scr := display.ScreenDescriptor{
		ID:          1,
		Frame:       geom.Rect{X: 0, Y: 0, W: 1440, H: 900},
		PixelW:      1440,
		PixelH:      900,
		PixelBounds: image.Rect(0, 0, 1440, 900),
	}
	m := newMapper(scr)

	_, err := m.Map(SelectionRegion{
		Rect:   geom.Rect{X: 10, Y: 10, W: 3.4, H: 100},
		Screen: scr,
	})
	if !errors.Is(err, ErrRegionTooSmall) {
		t.Errorf("err = %v, want ErrRegionTooSmall", err)
	}

	// Exactly 4 points on a 1:1 display is the smallest accepted selection.
	if _, err := m.Map(SelectionRegion{
		Rect:   geom.Rect{X: 10, Y: 10, W: 4, H: 4},
		Screen: scr,
	}); err != nil {
		t.Errorf("4x4 points rejected: %v", err)
	}
}

func TestMapDisplayGone(t *testing.T) {
	scr := retinaScreen()
	m := newMapper() // no screens attached anymore

	_, err := m.Map(SelectionRegion{
		Rect:   geom.Rect{X: 100, Y: 100, W: 200, H: 150},
		Screen: scr,
	})
	if !errors.Is(err, display.ErrDisplayGone) {
		t.Errorf("err = %v, want ErrDisplayGone", err)
	}
}

func TestMapUsesFreshTopology(t *testing.T) {
	// The user drags, then the display's scale changes before capture. The
	// mapping must use the new scale, not the one from selection time.
	prov := &fakeProvider{screens: []display.ScreenDescriptor{retinaScreen()}}
	m := New(display.NewResolver(prov))
	scr := retinaScreen()

	lowDPI := scr
	lowDPI.PixelW = 1440
	lowDPI.PixelH = 900
	prov.screens = []display.ScreenDescriptor{lowDPI}

	px, err := m.Map(SelectionRegion{
		Rect:   geom.Rect{X: 100, Y: 100, W: 200, H: 150},
		Screen: scr,
	})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if px.W != 200 || px.H != 150 {
		t.Errorf("W,H = %d,%d, want 200,150 at the fresh 1:1 scale", px.W, px.H)
	}
}
