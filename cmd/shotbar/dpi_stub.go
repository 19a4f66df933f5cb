//go:build !windows

package main

// enableDPIAwareness is a no-op off Windows; the display provider reads
// native pixel geometry directly.
func enableDPIAwareness() {}
