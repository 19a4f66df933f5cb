package overlay

import (
	"errors"
	"sync"
	"sync/atomic"

	"shotbar/display"
	"shotbar/geom"
	"shotbar/mapper"
)

// ErrSelectionActive is returned when a selection interaction is armed while
// another one is still live. There is never more than one overlay set.
var ErrSelectionActive = errors.New("selection already in progress")

// State of the selection interaction.
type State int32

const (
	StateIdle State = iota
	StateArmed
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateDragging:
		return "dragging"
	}
	return "unknown"
}

// Interaction is the drag-selection state machine:
//
//	Idle -> Armed -> Dragging -> {Completed | Cancelled} -> Idle
//
// Platform surface code feeds it pointer and key events in global point
// coordinates; it owns all selection geometry. A drag is tracked only within
// the screen it started on — a cross-screen drag clips to the origin screen.
//
// The Idle->Armed transition is an atomic compare-and-swap, so re-entrant
// arming is rejected without locks and two overlay sets can never coexist.
type Interaction struct {
	state atomic.Int32

	mu        sync.Mutex
	screens   []display.ScreenDescriptor
	origin    display.ScreenDescriptor
	hasOrigin bool
	start     geom.Point
	cur       geom.Point
}

func NewInteraction() *Interaction {
	return &Interaction{}
}

func (i *Interaction) State() State {
	return State(i.state.Load())
}

// Arm transitions Idle->Armed with the current screen topology. One overlay
// surface per screen is expected to exist while armed.
func (i *Interaction) Arm(screens []display.ScreenDescriptor) error {
	if len(screens) == 0 {
		return errors.New("no screens to arm overlay on")
	}
	if !i.state.CompareAndSwap(int32(StateIdle), int32(StateArmed)) {
		return ErrSelectionActive
	}
	i.mu.Lock()
	i.screens = append([]display.ScreenDescriptor(nil), screens...)
	i.hasOrigin = false
	i.mu.Unlock()
	return nil
}

// Screens returns the topology captured at arming time, for surface layout.
func (i *Interaction) Screens() []display.ScreenDescriptor {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]display.ScreenDescriptor(nil), i.screens...)
}

// PointerDown starts the drag. Returns false when the machine is not armed
// or the point lies on no attached screen.
func (i *Interaction) PointerDown(p geom.Point) bool {
	if !i.state.CompareAndSwap(int32(StateArmed), int32(StateDragging)) {
		return false
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	origin, ok := display.ScreenContaining(i.screens, p)
	if !ok {
		i.state.Store(int32(StateArmed))
		return false
	}
	i.origin = origin
	i.hasOrigin = true
	i.start = p
	i.cur = p
	return true
}

// PointerMove updates the live drag corner.
func (i *Interaction) PointerMove(p geom.Point) {
	if State(i.state.Load()) != StateDragging {
		return
	}
	i.mu.Lock()
	i.cur = p
	i.mu.Unlock()
}

// Frame returns the current normalized selection rectangle, clipped to the
// origin screen, for live surface redraw. ok is false outside a drag.
func (i *Interaction) Frame() (geom.Rect, bool) {
	if State(i.state.Load()) != StateDragging {
		return geom.Rect{}, false
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.hasOrigin {
		return geom.Rect{}, false
	}
	return geom.RectFromCorners(i.start, i.cur).Intersect(i.origin.Frame), true
}

// PointerUp finishes the drag. The machine is reset to Idle before the
// outcome is returned, so by the time a caller sees the result every overlay
// surface has already been told to tear down. completed is false for drags
// below the minimum selection size; that is a cancellation, not an error.
func (i *Interaction) PointerUp(p geom.Point) (sel mapper.SelectionRegion, completed bool) {
	if State(i.state.Load()) != StateDragging {
		return mapper.SelectionRegion{}, false
	}
	i.mu.Lock()
	origin := i.origin
	hasOrigin := i.hasOrigin
	r := geom.RectFromCorners(i.start, p).Intersect(origin.Frame)
	i.reset()
	i.mu.Unlock()
	i.state.Store(int32(StateIdle))

	if !hasOrigin || r.W < geom.MinSelectionPts || r.H < geom.MinSelectionPts {
		return mapper.SelectionRegion{}, false
	}
	return mapper.SelectionRegion{Rect: r, Screen: origin}, true
}

// Cancel aborts the interaction from any state, discarding drag progress.
func (i *Interaction) Cancel() {
	i.mu.Lock()
	i.reset()
	i.mu.Unlock()
	i.state.Store(int32(StateIdle))
}

// reset clears drag geometry; callers hold i.mu.
func (i *Interaction) reset() {
	i.screens = nil
	i.hasOrigin = false
	i.start = geom.Point{}
	i.cur = geom.Point{}
}
