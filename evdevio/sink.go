package evdevio

import (
	hevdev "github.com/holoplot/go-evdev"
	"github.com/rs/zerolog"

	"osm/keys"
	"osm/relay"
	"osm/translate"
)

const (
	busVirtual = 0x06 // BUS_VIRTUAL
	vendorID   = 0x1209
	productID  = 0x05e5
)

// device is the part of *hevdev.InputDevice a Sink writes through.
type device interface {
	WriteOne(*hevdev.InputEvent) error
	Close() error
}

// Sink is a uinput virtual keyboard.
type Sink struct {
	dev device
}

// CreateSink registers a virtual keyboard advertising exactly caps.
// Needs write access to /dev/uinput.
func CreateSink(name string, caps []keys.Key) (*Sink, error) {
	codes := make([]hevdev.EvCode, len(caps))
	for i, k := range caps {
		codes[i] = hevdev.EvCode(k)
	}

	dev, err := hevdev.CreateDevice(name, hevdev.InputID{
		BusType: busVirtual,
		Vendor:  vendorID,
		Product: productID,
		Version: 1,
	}, map[hevdev.EvType][]hevdev.EvCode{
		hevdev.EV_KEY: codes,
	})
	if err != nil {
		return nil, err
	}
	return &Sink{dev: dev}, nil
}

func NewSink(name string, caps []keys.Key) (relay.Sink, error) {
	s, err := CreateSink(name, caps)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Emit writes events followed by SYN_REPORT, unless the frame already ends
// with one. Each event is its own write; uinput hands them to readers only
// at the SYN_REPORT, so readers see one report.
func (s *Sink) Emit(events []translate.Event) error {
	for i := range events {
		if err := s.dev.WriteOne(toHolo(events[i])); err != nil {
			return err
		}
	}
	if n := len(events); n > 0 && isReport(events[n-1]) {
		return nil
	}
	return s.dev.WriteOne(&hevdev.InputEvent{Type: hevdev.EV_SYN, Code: hevdev.SYN_REPORT})
}

func (s *Sink) Close() error { return s.dev.Close() }

func isReport(ev translate.Event) bool {
	return ev.Type == translate.EvSyn && ev.Code == translate.SynReport
}

func toHolo(ev translate.Event) *hevdev.InputEvent {
	return &hevdev.InputEvent{
		Time:  ev.Time,
		Type:  hevdev.EvType(ev.Type),
		Code:  hevdev.EvCode(ev.Code),
		Value: ev.Value,
	}
}

// LogSink prints translated events instead of emitting them (test mode).
type LogSink struct {
	Log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) relay.SinkFactory {
	return func(name string, caps []keys.Key) (relay.Sink, error) {
		log.Info().Str("sink", name).Int("keys", len(caps)).Msg("test mode: events are printed, not emitted")
		return &LogSink{Log: log}, nil
	}
}

func (s *LogSink) Emit(events []translate.Event) error {
	arr := zerolog.Arr()
	for _, ev := range events {
		arr.Str(ev.String())
	}
	s.Log.Info().Array("out", arr).Msg("")
	return nil
}

func (s *LogSink) Close() error { return nil }
