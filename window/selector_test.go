package window

import (
	"errors"
	"image"
	"testing"

	"shotbar/display"
	"shotbar/geom"
)

func mainScreen() display.ScreenDescriptor {
	return display.ScreenDescriptor{
		ID:          1,
		Frame:       geom.Rect{X: 0, Y: 0, W: 1440, H: 900},
		PixelW:      2880,
		PixelH:      1800,
		PixelBounds: image.Rect(0, 0, 2880, 1800),
	}
}

func cand(app AppID, title string, frame geom.Rect) Candidate {
	return Candidate{App: app, Title: title, Class: "AppWindow", Frame: frame, OnScreen: true}
}

func TestPickPrefersPreviousAppOverLargerWindow(t *testing.T) {
	cands := []Candidate{
		cand("browser", "huge page", geom.Rect{X: 0, Y: 0, W: 1400, H: 860}),
		cand("editor", "small editor", geom.Rect{X: 200, Y: 200, W: 600, H: 400}),
	}

	best, ok := Pick(cands, "editor", "shotbar", mainScreen())
	if !ok {
		t.Fatal("no candidate picked")
	}
	if best.App != "editor" {
		t.Errorf("picked %q, want the previously active app over the larger window", best.App)
	}
}

func TestPickLargerAreaWinsWithoutPrevApp(t *testing.T) {
	cands := []Candidate{
		cand("a", "small", geom.Rect{X: 0, Y: 0, W: 400, H: 300}),
		cand("b", "large", geom.Rect{X: 100, Y: 100, W: 1000, H: 700}),
	}

	best, ok := Pick(cands, "", "shotbar", mainScreen())
	if !ok {
		t.Fatal("no candidate picked")
	}
	if best.App != "b" {
		t.Errorf("picked %q, want the larger window", best.App)
	}
}

func TestPickNearIdenticalAreasFallBackToCenterProximity(t *testing.T) {
	// Areas within the noise threshold of each other; the window whose center
	// is closer to the screen center wins, regardless of enumeration order.
	centered := cand("centered", "c", geom.Rect{X: 420, Y: 250, W: 600, H: 400})
	corner := cand("corner", "c", geom.Rect{X: 0, Y: 0, W: 610, H: 405})

	for _, cands := range [][]Candidate{
		{centered, corner},
		{corner, centered},
	} {
		best, ok := Pick(cands, "", "shotbar", mainScreen())
		if !ok {
			t.Fatal("no candidate picked")
		}
		if best.App != "centered" {
			t.Errorf("picked %q, want the centered window", best.App)
		}
	}
}

func TestPickPrevAppTieBrokenByArea(t *testing.T) {
	cands := []Candidate{
		cand("editor", "scratch", geom.Rect{X: 0, Y: 0, W: 300, H: 200}),
		cand("editor", "main", geom.Rect{X: 100, Y: 100, W: 900, H: 600}),
	}

	best, ok := Pick(cands, "editor", "shotbar", mainScreen())
	if !ok {
		t.Fatal("no candidate picked")
	}
	if best.Title != "main" {
		t.Errorf("picked %q, want the larger of the prev app's windows", best.Title)
	}
}

func TestPickFilters(t *testing.T) {
	tests := []struct {
		name string
		c    Candidate
	}{
		{"own app excluded", cand("shotbar", "overlay", geom.Rect{X: 0, Y: 0, W: 800, H: 600})},
		{"offscreen excluded", Candidate{App: "x", Frame: geom.Rect{W: 800, H: 600}, Class: "AppWindow"}},
		{"system shell excluded", Candidate{App: "explorer", Class: "Shell_TrayWnd", Frame: geom.Rect{W: 1440, H: 40}, OnScreen: true}},
		{"degenerate size excluded", cand("x", "sliver", geom.Rect{X: 0, Y: 0, W: 2, H: 900})},
		{"absurd size excluded", cand("x", "virtual", geom.Rect{X: 0, Y: 0, W: 90000, H: 900})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Pick([]Candidate{tt.c}, "", "shotbar", mainScreen()); ok {
				t.Errorf("candidate %+v should have been filtered", tt.c)
			}
		})
	}
}

func TestPickSkipsParkedPrevAppWindow(t *testing.T) {
	// A minimized window parks at -32000 with a small but plausible rect. The
	// enumerator reports it off the virtual screen, so even a prev-app match
	// must lose to a real window.
	virtual := geom.Rect{X: 0, Y: 0, W: 1440, H: 900}
	parked := geom.Rect{X: -32000, Y: -32000, W: 160, H: 28}
	cands := []Candidate{
		cand("browser", "article", geom.Rect{X: 100, Y: 80, W: 1200, H: 760}),
		{App: "editor", Title: "main", Class: "AppWindow", Frame: parked,
			OnScreen: OnVirtualScreen(parked, virtual)},
	}

	best, ok := Pick(cands, "editor", "shotbar", mainScreen())
	if !ok {
		t.Fatal("no candidate picked")
	}
	if best.App != "browser" {
		t.Errorf("picked %q, want the on-screen window over the parked prev-app one", best.App)
	}
}

func TestOnVirtualScreen(t *testing.T) {
	virtual := geom.Rect{X: -1920, Y: 0, W: 4800, H: 1800}
	tests := []struct {
		name  string
		frame geom.Rect
		want  bool
	}{
		{"fully inside", geom.Rect{X: 100, Y: 100, W: 800, H: 600}, true},
		{"straddling the left edge", geom.Rect{X: -2100, Y: 200, W: 400, H: 300}, true},
		{"parked minimized rect", geom.Rect{X: -32000, Y: -30228, W: 160, H: 28}, false},
		{"fully above", geom.Rect{X: 100, Y: 2000, W: 800, H: 600}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OnVirtualScreen(tt.frame, virtual); got != tt.want {
				t.Errorf("OnVirtualScreen(%+v) = %v, want %v", tt.frame, got, tt.want)
			}
		})
	}
}

type fakeEnum struct {
	cands []Candidate
	err   error
}

func (f *fakeEnum) List() ([]Candidate, error)    { return f.cands, f.err }
func (f *fakeEnum) FrontmostApp() (AppID, error) { return "", nil }

func TestSelectTargetNoUsableWindows(t *testing.T) {
	s := NewSelector(&fakeEnum{}, "shotbar")

	_, err := s.SelectTarget("editor", mainScreen())
	if !errors.Is(err, ErrNoCaptureTarget) {
		t.Errorf("err = %v, want ErrNoCaptureTarget", err)
	}
}

func TestSelectTargetEnumerationError(t *testing.T) {
	s := NewSelector(&fakeEnum{err: errors.New("hwnd walk failed")}, "shotbar")

	_, err := s.SelectTarget("", mainScreen())
	if err == nil || errors.Is(err, ErrNoCaptureTarget) {
		t.Errorf("err = %v, want a distinct enumeration error", err)
	}
}
