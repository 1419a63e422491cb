package keys

import "strings"

// Short key names in PC XT Set 1 order, lifted from
// http://www.win.tue.nl/~aeb/linux/kbd/scancodes-1.html#ss1.4
// Linux key codes 1..83 follow Set 1 make codes, so the index is the code.
var baseCodes = []string{
	"",
	"Esc", "1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "-", "=", "Backspace",
	"Tab", "Q", "W", "E", "R", "T", "Y", "U", "I", "O", "P", "[", "]",
	"Enter",
	"LCtrl",
	"A", "S", "D", "F", "G", "H", "J", "K", "L", ";", "'",
	"`",
	"LShift", "\\",
	"Z", "X", "C", "V", "B", "N", "M", ",", ".", "/", "RShift",
	"Keypad_*",
	"LAlt", "Space",
	"CapsLock",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10",
	"NumLock", "ScrollLock",
	"Keypad_7", "Keypad_8", "Keypad_9",
	"Keypad_-",
	"Keypad_4", "Keypad_5", "Keypad_6", "Keypad_Plus",
	"Keypad_1", "Keypad_2", "Keypad_3",
	"Keypad_0", "Keypad_.",
}

// Extended keys sit outside the Set 1 range.
var extendedCodes = map[string]Key{
	"RCtrl": 97,
	"RAlt":  100,
	"PgUp":  104,
	"PgDn":  109,
	"Ins":   110,
	"Del":   111,
	"LMeta": 125,
	"LWin":  125,
	"RMeta": 126,
	"RWin":  126,
}

var aliases = buildAliases()

func buildAliases() map[string]Key {
	a := make(map[string]Key, len(baseCodes)+len(extendedCodes))
	for code, name := range baseCodes {
		if name == "" {
			continue
		}
		a[strings.ToLower(name)] = Key(code)
	}
	for name, code := range extendedCodes {
		a[strings.ToLower(name)] = code
	}
	return a
}
