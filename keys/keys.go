// Package keys names Linux input key codes and maps dual-role source keys
// to the key they produce when tapped.
package keys

import (
	"fmt"
	"sort"
	"strings"

	evdev "github.com/gvalkov/golang-evdev"
	hevdev "github.com/holoplot/go-evdev"
)

const (
	Prefix = "KEY_"
	// Max is the highest key code the kernel accepts (KEY_MAX).
	Max Key = 0x2ff
)

// Key is a Linux EV_KEY code.
type Key uint16

func (k Key) String() string {
	if name, ok := evdev.KEY[int(k)]; ok {
		return name
	}
	if name, ok := hevdev.KEYToString[hevdev.EvCode(k)]; ok {
		return name
	}
	return fmt.Sprintf("%s%d", Prefix, uint16(k))
}

// Lookup resolves a case-insensitive key name such as "LeftAlt", "KEY_HOME"
// or one of the short aliases ("Esc", "LCtrl", ";").
func Lookup(name string) (Key, error) {
	n := strings.TrimSpace(name)
	if k, ok := aliases[strings.ToLower(n)]; ok {
		return k, nil
	}

	full := strings.ToUpper(n)
	if !strings.HasPrefix(full, Prefix) {
		full = Prefix + full
	}
	if code, ok := hevdev.KEYFromString[full]; ok && Key(code) <= Max {
		return Key(code), nil
	}
	return 0, fmt.Errorf("%s: unknown key name", full)
}

// Names lists every name Lookup accepts, kernel names without the prefix first.
func Names() []string {
	kernel := make([]string, 0, len(hevdev.KEYFromString))
	for name, code := range hevdev.KEYFromString {
		if strings.HasPrefix(name, Prefix) && Key(code) <= Max {
			kernel = append(kernel, strings.TrimPrefix(name, Prefix))
		}
	}
	sort.Strings(kernel)

	short := make([]string, 0, len(aliases))
	for name := range aliases {
		short = append(short, name)
	}
	sort.Strings(short)

	return append(kernel, short...)
}
