// Package relay grabs a keyboard, creates a virtual one and copies events
// from the first to the second through the dual-role translator.
package relay

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"osm/fault"
	"osm/keys"
	"osm/translate"
)

const (
	sinkNameFormat = "osm Virtual Keyboard (source: %s)"
	unnamedDevice  = "Unnamed Device"
	// uinput names are at most UINPUT_MAX_NAME_SIZE bytes including the NUL.
	maxSinkName = 79
)

// Source is the physical device.
type Source interface {
	// Name is the device's display name, empty if it has none.
	Name() string
	SupportedKeys() []keys.Key
	Grab() error
	Release() error
	// ReadBatch blocks until at least one event is available.
	ReadBatch() ([]translate.Event, error)
}

// Sink is the virtual device. Emit writes events as a single frame.
type Sink interface {
	Emit(events []translate.Event) error
	Close() error
}

// SinkFactory creates a sink advertising exactly the given keys.
type SinkFactory func(name string, capabilities []keys.Key) (Sink, error)

// Capabilities is the set of keys the sink must advertise: everything the
// source supports and every keymap destination, sorted and without duplicates.
func Capabilities(supported []keys.Key, km keys.Keymap) []keys.Key {
	set := make(map[keys.Key]bool, len(supported)+km.Len())
	for _, k := range supported {
		set[k] = true
	}
	for _, k := range km.Destinations() {
		set[k] = true
	}

	out := make([]keys.Key, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SinkName names the virtual device after its source.
func SinkName(sourceName string) string {
	if sourceName == "" {
		sourceName = unnamedDevice
	}
	name := fmt.Sprintf(sinkNameFormat, sourceName)
	if len(name) > maxSinkName {
		n := maxSinkName
		for n > 0 && !utf8.RuneStart(name[n]) {
			n--
		}
		name = name[:n]
	}
	return name
}

type Relay struct {
	Path    string // device node, for error context
	Source  Source
	NewSink SinkFactory
	Keymap  keys.Keymap
	Log     zerolog.Logger

	// NoGrab leaves the source shared with other readers (dry run).
	NoGrab bool
	// OnReady runs once after the sink exists and the grab is held.
	// Its error is logged, not returned.
	OnReady func() error
}

// Run only returns on failure; the error is a *fault.Error.
func (r *Relay) Run() error {
	caps := Capabilities(r.Source.SupportedKeys(), r.Keymap)
	name := SinkName(r.Source.Name())

	sink, err := r.NewSink(name, caps)
	if err != nil {
		return fault.New(fault.SinkCreation, r.Path, err)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			r.Log.Warn().Err(err).Msg("closing virtual device")
		}
	}()
	r.Log.Info().Str("sink", name).Int("keys", len(caps)).Msg("virtual device created")

	if !r.NoGrab {
		if err := r.Source.Grab(); err != nil {
			return fault.New(fault.Grab, r.Path, err)
		}
		defer func() {
			if err := r.Source.Release(); err != nil {
				r.Log.Warn().Err(err).Msg("releasing grab")
			}
		}()
		r.Log.Info().Str("device", r.Path).Msg("device grabbed")
	}

	if r.OnReady != nil {
		if err := r.OnReady(); err != nil {
			r.Log.Error().Err(err).Msg("ready hook failed")
		}
	}

	r.Log.Info().Str("keymap", r.Keymap.String()).Msg("relaying")
	return r.loop(sink)
}

func (r *Relay) loop(sink Sink) error {
	var (
		pending translate.Pending
		batch   []translate.Event
		err     error
	)
	emit := func(out []translate.Event) error {
		r.Log.Trace().Interface("events", out).Msg("emit")
		return sink.Emit(out)
	}

	for {
		batch, err = r.Source.ReadBatch()
		if err != nil {
			return fault.New(fault.RuntimeIO, r.Path, fmt.Errorf("read: %w", err))
		}
		pending, err = translate.Fold(r.Keymap, batch, pending, emit)
		if err != nil {
			return fault.New(fault.RuntimeIO, r.Path, fmt.Errorf("emit: %w", err))
		}
	}
}
