package main

/*
 osm: one-shot modifiers for any evdev keyboard.

 A key listed in the keymap does double duty. Tapped alone it types its
 destination key; held while another key is pressed it behaves as itself.

   osm --device /dev/input/by-id/usb-kbd-event-kbd --keymap "LeftShift=Home RightShift=End"

 The physical keyboard is grabbed exclusively and its events are replayed,
 translated, through a uinput keyboard named
 "osm Virtual Keyboard (source: <device name>)". So osm needs read access to the
 device node and write access to /dev/uinput.

Referrers:
 https://www.kernel.org/doc/html/latest/input/event-codes.html
 https://www.kernel.org/doc/html/latest/input/uinput.html
*/

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"osm/config"
	"osm/evdevio"
	"osm/fault"
	"osm/hook"
	"osm/keys"
	"osm/logging"
	"osm/relay"
)

const DAEMON_NAME = "osm"

type options struct {
	device      string
	keymap      keys.Keymap
	wait        time.Duration
	onReady     string
	hookTimeout time.Duration
	test        bool
	logLevel    zerolog.Level
	listKeys    bool
}

// parseArgs merges, lowest first: environment, config file, flags.
func parseArgs(args []string, getenv func(string) (string, bool), stderr io.Writer) (*options, error) {
	confPath, confExplicit := config.DefaultPath, false
	if env, ok := getenv("CONFIG"); ok {
		confPath, confExplicit = env, true
	}
	_, debug := getenv("DEBUG")
	_, verbose := getenv("VERBOSE")
	_, test := getenv("TEST")

	F := flag.NewFlagSet(DAEMON_NAME, flag.ContinueOnError)
	F.SetOutput(stderr)
	F.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s --device PATH --keymap \"SRC=DEST ...\" [SRC=DEST ...]\n\n", DAEMON_NAME)
		F.PrintDefaults()
	}
	device := F.StringP("device", "d", "", "Keyboard device node, e.g. /dev/input/event42 (see /dev/input/by-id)")
	keymap := F.StringArrayP("keymap", "k", nil, "Dual-role keys as \"SRC=DEST ...\", e.g. \"LeftShift=Home RightShift=End\". Key names are case-insensitive, KEY_ prefix optional")
	conf := F.StringP("conf", "c", confPath, "Config file")
	wait := F.DurationP("wait", "w", 0, "Wait up to this long for the device node to appear")
	onReady := F.String("on-ready", "", "Command to run once the virtual keyboard is up")
	testMode := F.BoolP("test", "t", test, "Don't grab; print translated events instead of emitting them")
	debugMode := F.Bool("debug", debug, "Trace every emitted event")
	verboseMode := F.BoolP("verbose", "v", verbose, "Debug log level")
	listKeys := F.BoolP("list-keys", "l", false, "Print accepted key names and exit")

	if err := F.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fault.New(fault.Config, "", err)
	}

	o := &options{test: *testMode, listKeys: *listKeys, logLevel: zerolog.InfoLevel}
	if o.listKeys {
		return o, nil
	}

	cfg, err := config.Load(*conf, confExplicit || F.Changed("conf"))
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	o.device = cfg.Device
	if F.Changed("device") {
		o.device = *device
	}
	o.wait = cfg.Wait
	if F.Changed("wait") {
		o.wait = *wait
	}
	o.onReady = cfg.OnReady
	if F.Changed("on-ready") {
		o.onReady = *onReady
	}
	o.hookTimeout = cfg.HookTimeout

	if cfg.LogLevel != "" {
		o.logLevel = logging.ParseLevel(cfg.LogLevel)
	}
	if *verboseMode {
		o.logLevel = zerolog.DebugLevel
	}
	if *debugMode {
		o.logLevel = zerolog.TraceLevel
	}

	pairs := append([]string(nil), cfg.Keymap...)
	for _, v := range *keymap {
		words, err := shellquote.Split(v)
		if err != nil {
			return nil, fault.Configf("--keymap %q: %v", v, err)
		}
		pairs = append(pairs, words...)
	}
	pairs = append(pairs, F.Args()...)

	if o.device == "" {
		return nil, fault.Configf("--device is required")
	}
	if len(pairs) == 0 {
		return nil, fault.Configf("--keymap is required")
	}
	if o.keymap, err = keys.ParseKeymap(pairs); err != nil {
		return nil, fault.New(fault.Config, "", err)
	}
	return o, nil
}

func run(o *options, log zerolog.Logger) error {
	if o.wait > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), o.wait)
		err := evdevio.WaitForNode(ctx, o.device)
		cancel()
		if err != nil {
			return fault.New(fault.DeviceOpen, o.device, err)
		}
	}

	src, err := evdevio.Open(o.device)
	if err != nil {
		return fault.New(fault.DeviceOpen, o.device, unwrapPath(err))
	}
	defer src.Close()
	log.Info().Str("device", o.device).Str("name", src.Name()).Msg("device opened")

	r := &relay.Relay{
		Path:    o.device,
		Source:  src,
		NewSink: evdevio.NewSink,
		Keymap:  o.keymap,
		Log:     log.With().Str("subsystem", "relay").Logger(),
	}
	if o.test {
		r.NoGrab = true
		r.NewSink = evdevio.NewLogSink(log.With().Str("subsystem", "test").Logger())
	}
	if o.onReady != "" {
		r.OnReady = readyHook(o, relay.SinkName(src.Name()), log.With().Str("subsystem", "hook").Logger())
	}

	return r.Run()
}

// unwrapPath drops the path from err when fault.Error will print it anyway.
func unwrapPath(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return fmt.Errorf("%s: %w", pe.Op, pe.Err)
	}
	return err
}

func readyHook(o *options, sinkName string, log zerolog.Logger) func() error {
	return func() error {
		c := &hook.Command{
			Line:    o.onReady,
			Timeout: o.hookTimeout,
			Env:     []string{"OSM_DEVICE=" + o.device, "OSM_SINK=" + sinkName},
		}
		res, err := c.Run(context.Background())
		if res != nil {
			log.Debug().Str("command", res.Command).Int("status", res.Status).
				Str("stdout", strings.TrimSpace(string(res.StdOut))).Msg("ready hook done")
		}
		return err
	}
}

func main() {
	o, err := parseArgs(os.Args[1:], os.LookupEnv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", DAEMON_NAME, err)
		os.Exit(fault.ExitCode(err))
	}

	if o.listKeys {
		for _, name := range keys.Names() {
			fmt.Println(name)
		}
		return
	}

	log := logging.New(os.Stderr, o.logLevel, isatty.IsTerminal(os.Stderr.Fd()))
	if err := run(o, log); err != nil {
		log.Error().Str("kind", fault.KindOf(err).String()).Err(err).Msg("stopped")
		os.Exit(fault.ExitCode(err))
	}
}
