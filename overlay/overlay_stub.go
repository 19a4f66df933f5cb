//go:build !windows

package overlay

import (
	"context"
	"fmt"

	"shotbar/display"
	"shotbar/mapper"
)

// stubSelector rejects interactive selection on platforms without an overlay
// surface implementation. The Interaction machine is still exercised so the
// re-entrancy guard behaves identically everywhere.
type stubSelector struct {
	provider    display.Provider
	interaction *Interaction
}

func newPlatformSelector(provider display.Provider) Selector {
	return &stubSelector{
		provider:    provider,
		interaction: NewInteraction(),
	}
}

func (s *stubSelector) Select(ctx context.Context) (mapper.SelectionRegion, bool, error) {
	screens, err := s.provider.Screens()
	if err != nil {
		return mapper.SelectionRegion{}, false, fmt.Errorf("enumerate displays: %w", err)
	}
	if err := s.interaction.Arm(screens); err != nil {
		return mapper.SelectionRegion{}, false, err
	}
	s.interaction.Cancel()
	return mapper.SelectionRegion{}, false, fmt.Errorf("interactive region selection not implemented for this platform")
}
