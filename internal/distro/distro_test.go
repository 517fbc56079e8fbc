package distro

import (
	"context"
	"errors"
	"testing"

	"github.com/t0fik/dnf-plugin-beadm/internal/command"
	"github.com/t0fik/dnf-plugin-beadm/internal/testutil"
)

func TestIDReadsFirstLine(t *testing.T) {
	runner := &testutil.FakeRunner{
		OutputFunc: func(name string, args []string) ([]byte, error) {
			return []byte("Fedora\n"), nil
		},
	}
	id, err := NewIdentifier(runner, "").ID(context.Background())
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if id != "Fedora" {
		t.Fatalf("expected Fedora, got %q", id)
	}
	if got := runner.CommandLines(); len(got) != 1 || got[0] != DefaultLsbRelease+" -si" {
		t.Fatalf("unexpected calls %v", got)
	}
}

func TestIDToolUnavailable(t *testing.T) {
	runner := &testutil.FakeRunner{
		OutputFunc: func(name string, args []string) ([]byte, error) {
			return nil, testutil.ExitError(name, args, 127)
		},
	}
	_, err := NewIdentifier(runner, "/usr/bin/lsb_release").ID(context.Background())
	var toolErr *command.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolError, got %v", err)
	}
}

func TestIDEmptyOutput(t *testing.T) {
	_, err := NewIdentifier(&testutil.FakeRunner{}, "/usr/bin/lsb_release").ID(context.Background())
	var toolErr *command.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if toolErr.Tool != "lsb_release" {
		t.Fatalf("unexpected tool %q", toolErr.Tool)
	}
}
