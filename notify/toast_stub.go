//go:build !windows

package notify

import "log"

func showToast(text string) error {
	log.Printf("capture status: %s", text)
	return nil
}
