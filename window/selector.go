package window

import (
	"fmt"

	"shotbar/display"
	"shotbar/geom"
)

// Window sides outside this range (in points) are degenerate artifacts or
// offscreen-sized entries, not real capture targets.
const (
	minSanePts = 16.0
	maxSanePts = 16384.0
)

// areaNoiseFrac is the relative area difference below which two windows are
// considered the same size. Without it the ranking flip-flops between
// near-identical windows from one attempt to the next.
const areaNoiseFrac = 0.10

// systemClasses are window classes owned by the shell/compositor, never
// user-capturable content.
var systemClasses = map[string]bool{
	"Progman":               true,
	"WorkerW":               true,
	"Shell_TrayWnd":         true,
	"Shell_SecondaryTrayWnd": true,
	"Windows.UI.Core.CoreWindow": true,
	"DV2ControlHost":        true,
}

// Selector ranks enumerated windows to a single capture target.
type Selector struct {
	enum   Enumerator
	ownApp AppID
}

func NewSelector(enum Enumerator, ownApp AppID) *Selector {
	return &Selector{enum: enum, ownApp: ownApp}
}

// SelectTarget enumerates windows fresh and picks the best target.
// prevApp is the application that was frontmost when the user triggered the
// capture; its windows outrank everything else because by the time we run,
// this tool's own UI has usually displaced the user's real target.
func (s *Selector) SelectTarget(prevApp AppID, screen display.ScreenDescriptor) (Candidate, error) {
	cands, err := s.enum.List()
	if err != nil {
		return Candidate{}, fmt.Errorf("enumerate windows: %w", err)
	}
	best, ok := Pick(cands, prevApp, s.ownApp, screen)
	if !ok {
		return Candidate{}, ErrNoCaptureTarget
	}
	return best, nil
}

// Pick applies the filter and ranking rules to an already-enumerated
// candidate list. Exposed separately so the ranking is testable without a
// live window server.
//
// Ranking, each rule a tie-break for the previous:
//  1. windows owned by prevApp rank above all others
//  2. larger area wins, but only past the noise threshold
//  3. window center closer to the screen center wins
func Pick(cands []Candidate, prevApp, ownApp AppID, screen display.ScreenDescriptor) (Candidate, bool) {
	var best Candidate
	found := false
	for _, c := range cands {
		if !usable(c, ownApp) {
			continue
		}
		if !found || ranksAbove(c, best, prevApp, screen) {
			best = c
			found = true
		}
	}
	return best, found
}

func usable(c Candidate, ownApp AppID) bool {
	if !c.OnScreen {
		return false
	}
	if ownApp != "" && c.App == ownApp {
		return false
	}
	if systemClasses[c.Class] {
		return false
	}
	if c.Frame.W < minSanePts || c.Frame.H < minSanePts {
		return false
	}
	if c.Frame.W > maxSanePts || c.Frame.H > maxSanePts {
		return false
	}
	return true
}

func ranksAbove(a, b Candidate, prevApp AppID, screen display.ScreenDescriptor) bool {
	if prevApp != "" {
		aPrev := a.App == prevApp
		bPrev := b.App == prevApp
		if aPrev != bPrev {
			return aPrev
		}
	}

	aArea := a.Frame.Area()
	bArea := b.Frame.Area()
	larger := aArea
	if bArea > larger {
		larger = bArea
	}
	if larger > 0 {
		diff := aArea - bArea
		if diff < 0 {
			diff = -diff
		}
		if diff > areaNoiseFrac*larger {
			return aArea > bArea
		}
	}

	center := screen.Frame.Center()
	return geom.Dist(a.Frame.Center(), center) < geom.Dist(b.Frame.Center(), center)
}
