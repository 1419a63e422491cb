package keys

import (
	"fmt"
	"sort"
	"strings"
)

// Keymap maps a dual-role source key to the key it produces when tapped.
// It is not required to be injective. The zero value is an empty keymap.
type Keymap struct {
	m map[Key]Key
}

// NewKeymap copies pairs; later changes to pairs do not affect the Keymap.
func NewKeymap(pairs map[Key]Key) Keymap {
	m := make(map[Key]Key, len(pairs))
	for src, dest := range pairs {
		m[src] = dest
	}
	return Keymap{m: m}
}

func (km Keymap) Lookup(k Key) (Key, bool) {
	d, ok := km.m[k]
	return d, ok
}

func (km Keymap) Has(k Key) bool {
	_, ok := km.m[k]
	return ok
}

func (km Keymap) Len() int { return len(km.m) }

// Sources returns the mapped keys in ascending order.
func (km Keymap) Sources() []Key {
	out := make([]Key, 0, len(km.m))
	for src := range km.m {
		out = append(out, src)
	}
	sortKeys(out)
	return out
}

// Destinations returns every distinct destination in ascending order.
func (km Keymap) Destinations() []Key {
	seen := make(map[Key]bool, len(km.m))
	out := make([]Key, 0, len(km.m))
	for _, dest := range km.m {
		if !seen[dest] {
			seen[dest] = true
			out = append(out, dest)
		}
	}
	sortKeys(out)
	return out
}

func (km Keymap) String() string {
	var b strings.Builder
	for i, src := range km.Sources() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.TrimPrefix(src.String(), Prefix))
		b.WriteByte('=')
		b.WriteString(strings.TrimPrefix(km.m[src].String(), Prefix))
	}
	return b.String()
}

// Pair is one SRC=DEST entry.
type Pair struct {
	Src, Dest Key
}

// ParsePair parses "SRC=DEST". Both sides go through Lookup.
func ParsePair(s string) (Pair, error) {
	if strings.Count(s, "=") != 1 {
		return Pair{}, fmt.Errorf("%s: must be in the form SRC=DEST", s)
	}
	kv := strings.SplitN(s, "=", 2)

	src, err := Lookup(kv[0])
	if err != nil {
		return Pair{}, err
	}
	dest, err := Lookup(kv[1])
	if err != nil {
		return Pair{}, err
	}
	return Pair{Src: src, Dest: dest}, nil
}

// ParseKeymap parses every pair; a repeated source keeps its last destination.
func ParseKeymap(pairs []string) (Keymap, error) {
	m := make(map[Key]Key, len(pairs))
	for _, s := range pairs {
		p, err := ParsePair(s)
		if err != nil {
			return Keymap{}, err
		}
		m[p.Src] = p.Dest
	}
	return Keymap{m: m}, nil
}

func sortKeys(k []Key) {
	sort.Slice(k, func(i, j int) bool { return k[i] < k[j] })
}
