// Package translate turns the raw event stream of a keyboard into the stream
// with dual-role keys resolved.
//
// A key present in the keymap is held back on press. If it is released with
// nothing pressed in between, it produces its mapped key (a tap). If another
// key goes down or up first, it is replayed as itself and acts as a modifier.
package translate

import (
	"fmt"
	"syscall"

	"osm/keys"
)

// Event types and EV_KEY values, as in linux/input-event-codes.h.
const (
	EvSyn uint16 = 0x00
	EvKey uint16 = 0x01
	EvMsc uint16 = 0x04

	SynReport uint16 = 0

	Up     int32 = 0
	Down   int32 = 1
	Repeat int32 = 2
)

// Event is one struct input_event.
type Event struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

func KeyDown(k keys.Key) Event { return Event{Type: EvKey, Code: uint16(k), Value: Down} }
func KeyUp(k keys.Key) Event   { return Event{Type: EvKey, Code: uint16(k), Value: Up} }

func (ev Event) Key() keys.Key { return keys.Key(ev.Code) }

func (ev Event) String() string {
	if ev.Type != EvKey {
		return fmt.Sprintf("type %d code %d value %d", ev.Type, ev.Code, ev.Value)
	}
	return fmt.Sprintf("%s:%d", ev.Key(), ev.Value)
}

// Pending is the dual-role key currently held with its role unresolved.
// The zero value holds nothing.
type Pending struct {
	key keys.Key
	ok  bool
}

func Hold(k keys.Key) Pending { return Pending{key: k, ok: true} }

func (p Pending) Get() (keys.Key, bool) { return p.key, p.ok }

func (p Pending) String() string {
	if !p.ok {
		return "none"
	}
	return p.key.String()
}

// Translate maps one input event to the events to emit and the new pending
// register. It has no side effects.
func Translate(km keys.Keymap, ev Event, p Pending) ([]Event, Pending) {
	if ev.Type != EvKey {
		return []Event{ev}, p
	}

	k := ev.Key()
	held, holding := p.Get()

	switch ev.Value {
	case Down:
		var out []Event
		if holding {
			out = append(out, KeyDown(held))
		}
		if km.Has(k) {
			return out, Hold(k)
		}
		return append(out, ev), Pending{}

	case Up:
		if !holding {
			return []Event{ev}, Pending{}
		}
		if held != k {
			return []Event{KeyDown(held), ev}, Pending{}
		}
		if dest, ok := km.Lookup(held); ok {
			return []Event{KeyDown(dest), KeyUp(dest)}, Pending{}
		}
		return []Event{ev}, Pending{}
	}

	// Autorepeat and anything else.
	return []Event{ev}, p
}

// Fold runs a batch through Translate, carrying the pending register, and
// hands each non-empty output to emit before looking at the next event.
// It stops at the first emit error and returns the register as it was after
// the failed event.
func Fold(km keys.Keymap, batch []Event, p Pending, emit func([]Event) error) (Pending, error) {
	for _, ev := range batch {
		var out []Event
		out, p = Translate(km, ev, p)
		if len(out) == 0 {
			continue
		}
		if err := emit(out); err != nil {
			return p, err
		}
	}
	return p, nil
}
