// Package hotkey registers global keyboard shortcuts. All configured combos
// share one low-level hook stream; each combo tracks its own modifier state
// so overlapping bindings like Ctrl+Shift+3 and Ctrl+Shift+4 coexist.
package hotkey

import (
	"log"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Binding ties a combo string like "Ctrl+Shift+4" to its trigger callback.
type Binding struct {
	Combo    string
	Callback func()
}

type comboState struct {
	combo string
	keys  []keyState
	fire  func()
}

type keyState struct {
	name     string
	rawcodes []uint16
	pressed  bool
}

// Listen starts the global hook and watches every binding. Invalid combos are
// logged and skipped; the rest keep working. Callbacks run on the hook
// goroutine and must hand real work off quickly.
func Listen(bindings []Binding) {
	var combos []*comboState
	for _, b := range bindings {
		cs := compile(b)
		if cs == nil {
			continue
		}
		combos = append(combos, cs)
		log.Printf("hotkey: listening for %s", b.Combo)
	}
	if len(combos) == 0 {
		log.Printf("hotkey: no valid bindings configured")
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("hotkey: panic in hook goroutine: %v", r)
			}
		}()

		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("hotkey: gohook.Start returned nil channel")
			return
		}

		var mu sync.Mutex
		for ev := range evChan {
			switch ev.Kind {
			case gohook.KeyDown, gohook.KeyHold:
				mu.Lock()
				var fired []func()
				for _, cs := range combos {
					if cs.keyDown(ev.Rawcode) {
						fired = append(fired, cs.fire)
					}
				}
				mu.Unlock()
				for _, f := range fired {
					f()
				}
			case gohook.KeyUp:
				mu.Lock()
				for _, cs := range combos {
					cs.keyUp(ev.Rawcode)
				}
				mu.Unlock()
			}
		}
		log.Printf("hotkey: event channel closed")
	}()
}

func compile(b Binding) *comboState {
	names := parseCombo(b.Combo)
	cs := &comboState{combo: b.Combo, fire: b.Callback}
	for _, name := range names {
		rawcodes := keyNameToRawcodes(name)
		if len(rawcodes) == 0 {
			log.Printf("hotkey: cannot map key %q in combo %q", name, b.Combo)
			continue
		}
		cs.keys = append(cs.keys, keyState{name: name, rawcodes: rawcodes})
	}
	if len(cs.keys) == 0 || cs.fire == nil {
		log.Printf("hotkey: skipping unusable combo %q", b.Combo)
		return nil
	}
	return cs
}

// keyDown records a press and reports whether the full combo just completed.
// On completion every key resets so holding the chord fires only once.
func (cs *comboState) keyDown(rawcode uint16) bool {
	matched := false
	for i := range cs.keys {
		for _, rc := range cs.keys[i].rawcodes {
			if rawcode == rc {
				cs.keys[i].pressed = true
				matched = true
				break
			}
		}
	}
	if !matched {
		return false
	}
	for i := range cs.keys {
		if !cs.keys[i].pressed {
			return false
		}
	}
	for i := range cs.keys {
		cs.keys[i].pressed = false
	}
	return true
}

func (cs *comboState) keyUp(rawcode uint16) {
	for i := range cs.keys {
		for _, rc := range cs.keys[i].rawcodes {
			if rawcode == rc {
				cs.keys[i].pressed = false
				break
			}
		}
	}
}
