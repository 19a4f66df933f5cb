// Package overlay runs the transient full-topology selection interaction:
// one borderless, top-most surface per attached screen, a crosshair drag,
// and a normalized selection rectangle (or cancellation) as the outcome.
package overlay

import (
	"context"

	"shotbar/display"
	"shotbar/mapper"
)

// Selector is the synchronous region-selection API owned by the event loop.
// The call blocks and MUST be invoked only from the single event-loop
// goroutine. Returns (region, cancelled, error); when cancelled is true the
// region is undefined and err is nil. All overlay surfaces are torn down
// before Select returns.
type Selector interface {
	Select(ctx context.Context) (mapper.SelectionRegion, bool, error)
}

// NewSelector returns the platform selector. Every implementation drives the
// same Interaction machine; only the surface plumbing differs.
func NewSelector(provider display.Provider) Selector {
	return newPlatformSelector(provider)
}
