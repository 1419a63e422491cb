// Package evdevio binds the relay to real devices: a grabbed evdev node as
// the source and a uinput device as the sink.
package evdevio

import (
	"fmt"

	evdev "github.com/gvalkov/golang-evdev"

	"osm/keys"
	"osm/translate"
)

// Source is an opened /dev/input/event* node.
type Source struct {
	dev *evdev.InputDevice
}

func Open(path string) (*Source, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, err
	}
	return &Source{dev: dev}, nil
}

func (s *Source) Name() string { return s.dev.Name }

// SupportedKeys lists the EV_KEY codes the device reports.
func (s *Source) SupportedKeys() []keys.Key {
	var out []keys.Key
	for t, codes := range s.dev.Capabilities {
		if t.Type != evdev.EV_KEY {
			continue
		}
		for _, c := range codes {
			if c.Code < 0 || keys.Key(c.Code) > keys.Max {
				continue
			}
			out = append(out, keys.Key(c.Code))
		}
	}
	return out
}

func (s *Source) Grab() error { return s.dev.Grab() }

func (s *Source) Release() error { return s.dev.Release() }

func (s *Source) ReadBatch() ([]translate.Event, error) {
	events, err := s.dev.Read()
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("short read from %s", s.dev.Fn)
	}

	out := make([]translate.Event, len(events))
	for i, ev := range events {
		out[i] = translate.Event{Time: ev.Time, Type: ev.Type, Code: ev.Code, Value: ev.Value}
	}
	return out, nil
}

func (s *Source) Close() error { return s.dev.File.Close() }
