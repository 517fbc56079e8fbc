package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/t0fik/dnf-plugin-beadm/internal/command"
)

// WriteStub writes an executable shell stub that exits successfully.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteStub(t *testing.T, dir string, name string) string {
	t.Helper()
	return WriteStubWithExit(t, dir, name, 0)
}

// WriteStubWithExit writes an executable shell stub that exits with the provided code.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteStubWithExit(t *testing.T, dir string, name string, exitCode int) string {
	t.Helper()
	return WriteScript(t, dir, name, fmt.Sprintf("exit %d", exitCode))
}

// WriteScript writes an executable /bin/sh script with body and returns its path.
func WriteScript(t *testing.T, dir string, name string, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := []byte("#!/bin/sh\n" + body + "\n")
	if err := os.WriteFile(path, content, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

// Call records one invocation seen by FakeRunner.
type Call struct {
	Name string
	Args []string
}

// String renders the call as a command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// FakeRunner implements command.Runner without spawning processes.
// Unset funcs succeed with empty output.
type FakeRunner struct {
	OutputFunc func(name string, args []string) ([]byte, error)
	StreamFunc func(stdio command.Stdio, name string, args []string) error
	Calls      []Call
}

// Output records the call and delegates to OutputFunc.
func (f *FakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.Calls = append(f.Calls, Call{Name: name, Args: append([]string(nil), args...)})
	if f.OutputFunc == nil {
		return nil, nil
	}
	return f.OutputFunc(name, args)
}

// Stream records the call and delegates to StreamFunc.
func (f *FakeRunner) Stream(_ context.Context, stdio command.Stdio, name string, args ...string) error {
	f.Calls = append(f.Calls, Call{Name: name, Args: append([]string(nil), args...)})
	if f.StreamFunc == nil {
		return nil
	}
	return f.StreamFunc(stdio, name, args)
}

// CommandLines returns every recorded call rendered as a command line.
func (f *FakeRunner) CommandLines() []string {
	lines := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		lines = append(lines, c.String())
	}
	return lines
}

// ExitError builds the *command.ToolError a runner returns for a non-zero exit.
func ExitError(name string, args []string, code int) error {
	return &command.ToolError{
		Tool:     filepath.Base(name),
		Args:     args,
		ExitCode: code,
		Err:      fmt.Errorf("exit status %d", code),
	}
}
