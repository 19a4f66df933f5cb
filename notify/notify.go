// Package notify is the toast sink: one short status string after every
// capture attempt, fire-and-forget. Success or failure, the user sees
// exactly one of these per attempt.
package notify

import "log"

// Notifier delivers a short status string to the user.
type Notifier interface {
	Show(status string)
}

// Toast is the default notifier: a transient platform popup, with the log as
// the fallback channel.
type Toast struct{}

func (Toast) Show(status string) {
	display := status
	if len(display) > 200 {
		display = display[:200] + "..."
	}
	log.Printf("notify: %s", display)
	// The popup manages its own lifetime; never block the caller on it.
	go func() {
		if err := showToast(display); err != nil {
			log.Printf("notify: failed to show toast: %v", err)
		}
	}()
}

// Func adapts a function to the Notifier interface, for tests.
type Func func(status string)

func (f Func) Show(status string) { f(status) }
