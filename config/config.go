// Package config reads the optional osm TOML configuration file.
//
//	[Device]
//	Path = "/dev/input/by-id/usb-kbd-event-kbd"
//	Wait = "5s"
//
//	[Keymap]
//	LeftAlt = "Home"
//	RightAlt = "End"
//
//	[Hooks]
//	OnReady = "setxkbmap -device 42 us"
//	HookTimeout = "10s"
//
//	[Log]
//	Level = "info"
package config

import (
	"errors"
	"os"
	"sort"
	"time"

	"github.com/pelletier/go-toml"

	"osm/fault"
)

const DefaultPath = "/etc/osm/osm.conf"

type Config struct {
	Device      string
	Wait        time.Duration
	Keymap      []string // "SRC=DEST", ordered by source name
	OnReady     string
	HookTimeout time.Duration
	LogLevel    string
}

// Load reads and parses path. A missing file is an error only if required;
// otherwise Load returns nil, nil.
func Load(path string, required bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil, nil
		}
		return nil, fault.Configf("config error: unable to read config file: %v", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var conf map[string]interface{}
	if err := toml.Unmarshal(data, &conf); err != nil {
		return nil, fault.Configf("config error: unable to parse config file: %v", err)
	}

	c := &Config{}
	for name, value := range conf {
		section, ok := value.(map[string]interface{})
		if !ok {
			return nil, fault.Configf("config error: [%s] must be a section", name)
		}

		var err error
		switch name {
		case "Device":
			err = c.device(section)
		case "Keymap":
			err = c.keymap(section)
		case "Hooks":
			err = c.hooks(section)
		case "Log":
			err = c.log(section)
		default:
			err = fault.Configf("config error: unknown section name [%s]", name)
		}
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Config) device(s map[string]interface{}) (err error) {
	for k, v := range s {
		switch k {
		case "Path":
			c.Device, err = str("Device", k, v)
		case "Wait":
			c.Wait, err = duration("Device", k, v)
		default:
			err = unknownKey("Device", k)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) keymap(s map[string]interface{}) error {
	src := make([]string, 0, len(s))
	for k := range s {
		src = append(src, k)
	}
	sort.Strings(src)

	for _, k := range src {
		dest, err := str("Keymap", k, s[k])
		if err != nil {
			return err
		}
		c.Keymap = append(c.Keymap, k+"="+dest)
	}
	return nil
}

func (c *Config) hooks(s map[string]interface{}) (err error) {
	for k, v := range s {
		switch k {
		case "OnReady":
			c.OnReady, err = str("Hooks", k, v)
		case "HookTimeout":
			c.HookTimeout, err = duration("Hooks", k, v)
		default:
			err = unknownKey("Hooks", k)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) log(s map[string]interface{}) (err error) {
	for k, v := range s {
		switch k {
		case "Level":
			c.LogLevel, err = str("Log", k, v)
		default:
			err = unknownKey("Log", k)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func str(section, key string, v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fault.Configf("config error: %s.%s must be a string", section, key)
	}
	return s, nil
}

func duration(section, key string, v interface{}) (time.Duration, error) {
	s, err := str(section, key, v)
	if err != nil {
		return 0, err
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fault.Configf("config error: %s.%s must be a non-negative duration like \"5s\"", section, key)
	}
	return d, nil
}

func unknownKey(section, key string) error {
	return fault.Configf("config error: unknown key \"%s\" in [%s] section", key, section)
}
