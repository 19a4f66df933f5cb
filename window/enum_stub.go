//go:build !windows

package window

import "fmt"

type stubEnumerator struct{}

func newPlatformEnumerator() Enumerator { return stubEnumerator{} }

func (stubEnumerator) List() ([]Candidate, error) {
	return nil, fmt.Errorf("window enumeration not implemented for this platform")
}

func (stubEnumerator) FrontmostApp() (AppID, error) {
	return "", nil
}
