package evdevio

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	hevdev "github.com/holoplot/go-evdev"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osm/keys"
	"osm/translate"
)

func TestWaitForNodeExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event3")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	assert.NoError(t, WaitForNode(context.Background(), path))
}

func TestWaitForNodeCreatedLater(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "event3")

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "event2"), nil, 0o600)
		_ = os.WriteFile(path, nil, 0o600)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, WaitForNode(ctx, path))
}

func TestWaitForNodeTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event3")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := WaitForNode(ctx, path)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitForNodeMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "by-id", "usb-kbd-event-kbd")

	err := WaitForNode(context.Background(), path)
	assert.Error(t, err)
}

func TestToHolo(t *testing.T) {
	ev := translate.Event{
		Time:  syscall.Timeval{Sec: 1, Usec: 2},
		Type:  translate.EvKey,
		Code:  uint16(hevdev.KEY_HOME),
		Value: translate.Down,
	}
	h := toHolo(ev)
	assert.Equal(t, hevdev.EvType(hevdev.EV_KEY), h.Type)
	assert.Equal(t, hevdev.EvCode(hevdev.KEY_HOME), h.Code)
	assert.Equal(t, int32(1), h.Value)
	assert.Equal(t, ev.Time, h.Time)
}

type fakeDevice struct {
	written []*hevdev.InputEvent
	failAt  int // 1-based WriteOne call that fails; 0 never
	closed  bool
}

func (d *fakeDevice) WriteOne(ev *hevdev.InputEvent) error {
	d.written = append(d.written, ev)
	if d.failAt == len(d.written) {
		return errors.New("write: no such device")
	}
	return nil
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

func TestSinkEmitAppendsReport(t *testing.T) {
	dev := &fakeDevice{}
	s := &Sink{dev: dev}
	home := keys.Key(hevdev.KEY_HOME)

	require.NoError(t, s.Emit([]translate.Event{translate.KeyDown(home), translate.KeyUp(home)}))
	require.Len(t, dev.written, 3)
	assert.Equal(t, hevdev.EvCode(hevdev.KEY_HOME), dev.written[0].Code)
	assert.Equal(t, int32(0), dev.written[1].Value)
	assert.Equal(t, hevdev.EvType(hevdev.EV_SYN), dev.written[2].Type)
	assert.Equal(t, hevdev.EvCode(hevdev.SYN_REPORT), dev.written[2].Code)

	require.NoError(t, s.Close())
	assert.True(t, dev.closed)
}

func TestSinkEmitPassedThroughReport(t *testing.T) {
	dev := &fakeDevice{}
	s := &Sink{dev: dev}

	require.NoError(t, s.Emit([]translate.Event{{Type: translate.EvSyn, Code: translate.SynReport}}))
	require.Len(t, dev.written, 1)
	assert.Equal(t, hevdev.EvType(hevdev.EV_SYN), dev.written[0].Type)
}

func TestSinkEmitWriteError(t *testing.T) {
	dev := &fakeDevice{failAt: 1}
	s := &Sink{dev: dev}
	a := keys.Key(hevdev.KEY_A)

	err := s.Emit([]translate.Event{translate.KeyDown(a), translate.KeyUp(a)})
	assert.EqualError(t, err, "write: no such device")
	assert.Len(t, dev.written, 1)
}

func TestIsReport(t *testing.T) {
	assert.True(t, isReport(translate.Event{Type: translate.EvSyn, Code: translate.SynReport}))
	assert.False(t, isReport(translate.Event{Type: translate.EvSyn, Code: 3})) // SYN_DROPPED
	assert.False(t, isReport(translate.KeyUp(keys.Key(hevdev.KEY_A))))
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	sink, err := NewLogSink(log)("osm Virtual Keyboard (source: kbd)", []keys.Key{1, 2})
	require.NoError(t, err)

	home := keys.Key(hevdev.KEY_HOME)
	require.NoError(t, sink.Emit([]translate.Event{translate.KeyDown(home), translate.KeyUp(home)}))
	assert.Contains(t, buf.String(), `"out":["KEY_HOME:1","KEY_HOME:0"]`)
	assert.NoError(t, sink.Close())
}
