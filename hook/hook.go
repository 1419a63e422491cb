// Package hook runs the external command configured to fire once the
// virtual keyboard is up, e.g. to apply an XKB layout to it.
package hook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/kballard/go-shellquote"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxReply = 64 << 10
)

type Command struct {
	Line     string   // split with shell quoting rules unless UseShell
	UseShell bool     // run Line through /bin/sh -c
	Env      []string // appended to the inherited environment
	Timeout  time.Duration
	MaxReply int64 // per stream
}

type Result struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
	Status  int      `json:"status"` // -1 if the command never ran or was killed
	StdOut  []byte   `json:"stdout,omitempty"`
	StdErr  []byte   `json:"stderr,omitempty"`
}

// Run executes c and waits for it. A non-zero exit is reported through
// Result.Status and a non-nil error.
func (c *Command) Run(ctx context.Context) (*Result, error) {
	argv, err := c.argv()
	if err != nil {
		return nil, err
	}
	r := &Result{Command: argv[0], Args: argv[1:], Status: -1}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	// Own process group, so a timeout takes the children down too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = time.Second
	if len(c.Env) > 0 {
		cmd.Env = append(cmd.Environ(), c.Env...)
	}

	limit := c.MaxReply
	if limit <= 0 {
		limit = DefaultMaxReply
	}
	stdout := &capped{max: limit}
	stderr := &capped{max: limit}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err = cmd.Run()
	r.StdOut = stdout.Bytes()
	r.StdErr = stderr.Bytes()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		r.Status = 0
	case ctx.Err() != nil:
		return r, fmt.Errorf("%s: killed after %s", argv[0], timeout)
	case errors.As(err, &exitErr):
		r.Status = exitErr.ExitCode()
		return r, fmt.Errorf("%s: exit status %d: %s", argv[0], r.Status, bytes.TrimSpace(r.StdErr))
	default:
		return r, err
	}
	return r, nil
}

func (c *Command) argv() ([]string, error) {
	if c.UseShell {
		return []string{"/bin/sh", "-c", c.Line}, nil
	}
	argv, err := shellquote.Split(c.Line)
	if err != nil {
		return nil, fmt.Errorf("hook %q: %w", c.Line, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("hook: empty command")
	}
	return argv, nil
}

// capped keeps the first max bytes and discards the rest.
// The buffer is unexported so io.Copy can't reach its ReadFrom.
type capped struct {
	buf bytes.Buffer
	max int64
}

func (w *capped) Write(p []byte) (int, error) {
	room := w.max - int64(w.buf.Len())
	if room > 0 {
		if int64(len(p)) > room {
			w.buf.Write(p[:room])
		} else {
			w.buf.Write(p)
		}
	}
	return len(p), nil
}

func (w *capped) Bytes() []byte  { return w.buf.Bytes() }
func (w *capped) Len() int       { return w.buf.Len() }
func (w *capped) String() string { return w.buf.String() }
