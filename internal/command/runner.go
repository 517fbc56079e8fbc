// Package command runs external tools as bounded, synchronous processes.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

// DefaultTimeout bounds a single external invocation when no timeout is configured.
const DefaultTimeout = 2 * time.Minute

// Runner executes external processes.
type Runner interface {
	// Output runs name with args and returns its captured stdout.
	// A non-zero exit is reported as a *ToolError; stdout is returned regardless.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// Stream runs name with args attached to the given stdio.
	Stream(ctx context.Context, stdio Stdio, name string, args ...string) error
}

// Stdio holds the streams handed to a streamed process.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// ToolError reports an external process that could not be run or exited unsuccessfully.
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	invocation := strings.TrimSpace(e.Tool + " " + strings.Join(e.Args, " "))
	msg := fmt.Sprintf(messages.CommandFailedFmt, invocation, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Exec runs processes with os/exec, killing them when the timeout elapses
// or the context is cancelled.
type Exec struct {
	Timeout time.Duration
	Log     zerolog.Logger
}

// NoTimeout lets a process run until it exits or the context is cancelled.
const NoTimeout time.Duration = -1

// NewExec returns an Exec bounded by timeout (DefaultTimeout when zero).
func NewExec(timeout time.Duration, log zerolog.Logger) *Exec {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Exec{Timeout: timeout, Log: log}
}

// waitDelay bounds how long Wait blocks on inherited pipes after the process is killed.
const waitDelay = 5 * time.Second

// Output runs the process and captures stdout.
func (e *Exec) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := e.bound(ctx)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	e.trace(name, args, start, err)
	if err != nil {
		return stdout.Bytes(), e.toolError(ctx, name, args, strings.TrimSpace(stderr.String()), err)
	}
	return stdout.Bytes(), nil
}

// Stream runs the process with the caller's stdio attached.
func (e *Exec) Stream(ctx context.Context, stdio Stdio, name string, args ...string) error {
	ctx, cancel := e.bound(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	e.trace(name, args, start, err)
	if err != nil {
		return e.toolError(ctx, name, args, "", err)
	}
	return nil
}

func (e *Exec) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := e.Timeout
	switch {
	case timeout == NoTimeout:
		return context.WithCancel(ctx)
	case timeout <= 0:
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func (e *Exec) trace(name string, args []string, start time.Time, err error) {
	e.Log.Debug().
		Err(err).
		Str("command", name).
		Strs("args", args).
		Dur("duration", time.Since(start)).
		Msg("external command finished")
}

func (e *Exec) toolError(ctx context.Context, name string, args []string, stderr string, err error) error {
	toolErr := &ToolError{
		Tool:     filepath.Base(name),
		Args:     args,
		ExitCode: -1,
		Stderr:   stderr,
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		toolErr.ExitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			toolErr.Err = fmt.Errorf(messages.CommandTimeoutFmt, e.Timeout, ctxErr)
		} else {
			toolErr.Err = ctxErr
		}
	}
	return toolErr
}

// FirstLine returns the first line of out with surrounding whitespace removed.
func FirstLine(out []byte) string {
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line)
}
