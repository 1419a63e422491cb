package keys

import (
	"fmt"
	"testing"

	hevdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleLookup() {
	for _, name := range []string{"LeftAlt", " home ", "KEY_END", "Esc", "LCtrl", ";"} {
		k, err := Lookup(name)
		fmt.Println(k, err)
	}
	// Output:
	// KEY_LEFTALT <nil>
	// KEY_HOME <nil>
	// KEY_END <nil>
	// KEY_ESC <nil>
	// KEY_LEFTCTRL <nil>
	// KEY_SEMICOLON <nil>
}

func ExampleLookup_unknown() {
	_, err := Lookup("foo")
	fmt.Println(err)
	// Output: KEY_FOO: unknown key name
}

func TestBaseTable(t *testing.T) {
	if len(baseCodes) != 0x54 {
		t.Errorf("Table misses %d entries", 0x54-len(baseCodes))
	}
	if baseCodes[0x10] != "Q" {
		t.Error("Misalignment before Q")
	}
	if baseCodes[0x1e] != "A" {
		t.Error("Misalignment between Q-A")
	}
	if baseCodes[0x2c] != "Z" {
		t.Error("Misalignment between A-Z")
	}
	if baseCodes[0x3b] != "F1" {
		t.Error("Misalignment betwen Z-F1")
	}
	if baseCodes[0x47] != "Keypad_7" {
		t.Error("Misalignment between F1-Keypad_7")
	}
}

func TestAliasesMatchKernelCodes(t *testing.T) {
	cases := map[string]hevdev.EvCode{
		"esc":        hevdev.KEY_ESC,
		"-":          hevdev.KEY_MINUS,
		"backspace":  hevdev.KEY_BACKSPACE,
		"lctrl":      hevdev.KEY_LEFTCTRL,
		"'":          hevdev.KEY_APOSTROPHE,
		"`":          hevdev.KEY_GRAVE,
		"\\":         hevdev.KEY_BACKSLASH,
		"rshift":     hevdev.KEY_RIGHTSHIFT,
		"keypad_*":   hevdev.KEY_KPASTERISK,
		"lalt":       hevdev.KEY_LEFTALT,
		"f10":        hevdev.KEY_F10,
		"scrolllock": hevdev.KEY_SCROLLLOCK,
		"keypad_.":   hevdev.KEY_KPDOT,
		"ralt":       hevdev.KEY_RIGHTALT,
		"rctrl":      hevdev.KEY_RIGHTCTRL,
		"del":        hevdev.KEY_DELETE,
		"pgdn":       hevdev.KEY_PAGEDOWN,
		"lwin":       hevdev.KEY_LEFTMETA,
		"rmeta":      hevdev.KEY_RIGHTMETA,
	}
	for name, code := range cases {
		k, ok := aliases[name]
		require.True(t, ok, name)
		assert.Equal(t, Key(code), k, name)
	}
}

func TestLookup(t *testing.T) {
	k, err := Lookup("leftshift")
	require.NoError(t, err)
	assert.Equal(t, Key(hevdev.KEY_LEFTSHIFT), k)

	k, err = Lookup("Key_Home")
	require.NoError(t, err)
	assert.Equal(t, Key(hevdev.KEY_HOME), k)

	_, err = Lookup("")
	assert.EqualError(t, err, "KEY_: unknown key name")
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "KEY_RIGHTALT", Key(hevdev.KEY_RIGHTALT).String())
	assert.Equal(t, "KEY_1023", Key(1023).String())
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "LEFTALT")
	assert.Contains(t, names, "lctrl")
	for _, n := range names {
		_, err := Lookup(n)
		assert.NoError(t, err, n)
	}
}
