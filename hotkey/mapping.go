package hotkey

import "strings"

// parseCombo splits a combo like "Ctrl+Shift+4" into normalized key names.
func parseCombo(combo string) []string {
	parts := strings.Split(strings.ToLower(combo), "+")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch part {
		case "win", "cmd", "super":
			keys = append(keys, "cmd")
		default:
			keys = append(keys, part)
		}
	}
	return keys
}

// keyNameToRawcodes maps a key name to its virtual-key rawcodes. Modifiers
// return both left and right variants. Unknown names return nil.
func keyNameToRawcodes(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))

	switch keyName {
	case "ctrl":
		return []uint16{162, 163} // VK_LCONTROL, VK_RCONTROL
	case "alt":
		return []uint16{164, 165} // VK_LMENU, VK_RMENU
	case "shift":
		return []uint16{160, 161} // VK_LSHIFT, VK_RSHIFT
	case "win", "cmd", "super":
		return []uint16{91, 92} // VK_LWIN, VK_RWIN
	case "space":
		return []uint16{32}
	case "enter", "return":
		return []uint16{13}
	case "esc", "escape":
		return []uint16{27}
	case "tab":
		return []uint16{9}
	case "printscreen", "prtsc":
		return []uint16{44}
	}

	// Letters a-z: VK 0x41-0x5A.
	if len(keyName) == 1 && keyName[0] >= 'a' && keyName[0] <= 'z' {
		return []uint16{uint16(keyName[0] - 'a' + 65)}
	}
	// Digits 0-9: VK 0x30-0x39.
	if len(keyName) == 1 && keyName[0] >= '0' && keyName[0] <= '9' {
		return []uint16{uint16(keyName[0] - '0' + 48)}
	}
	// Function keys f1-f24: VK 0x70-0x87.
	if strings.HasPrefix(keyName, "f") {
		n := 0
		for _, r := range keyName[1:] {
			if r < '0' || r > '9' {
				return nil
			}
			n = n*10 + int(r-'0')
		}
		if n >= 1 && n <= 24 {
			return []uint16{uint16(111 + n)}
		}
	}
	return nil
}
