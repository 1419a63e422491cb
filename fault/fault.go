// Package fault is the closed set of errors osm can end with.
// Every one of them is fatal; the kind picks the process exit code.
package fault

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Config Kind = iota + 1 // keymap syntax, unknown key name, bad config file
	DeviceOpen
	Grab
	SinkCreation
	RuntimeIO
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case DeviceOpen:
		return "device open"
	case Grab:
		return "grab"
	case SinkCreation:
		return "sink creation"
	case RuntimeIO:
		return "runtime i/o"
	default:
		return "unknown"
	}
}

// Error carries the kind and the device path the failure relates to.
type Error struct {
	Kind Kind
	Path string // empty for config errors
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Err.Error())
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// Configf builds a Config error from a format string.
func Configf(format string, args ...interface{}) *Error {
	return &Error{Kind: Config, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case Config:
		return 2
	case DeviceOpen:
		return 3
	case Grab:
		return 4
	case SinkCreation:
		return 5
	case RuntimeIO:
		return 6
	default:
		return 1
	}
}
