package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/t0fik/dnf-plugin-beadm/internal/command"
	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

var executeFunc = execute

// Version, Commit, and BuildDate are overridden at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// exitInterrupted is the conventional status for a SIGINT-terminated run.
const exitInterrupted = 130

func main() {
	runMain(os.Args, os.Stdin, os.Stdout, os.Stderr, os.Exit)
}

// execute runs the CLI command with the provided args and streams.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.Version = versionString()
	cmd.SetVersionTemplate(messages.VersionTemplate)
	if len(args) > 1 {
		cmd.SetArgs(args[1:])
	} else {
		cmd.SetArgs([]string{})
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

// runMain executes the CLI and exits with a status derived from the error.
// SIGINT and SIGTERM cancel the running invocation so it can unmount.
func runMain(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer, exit func(int)) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := executeFunc(ctx, args, stdin, stdout, stderr)
	stop()
	if err == nil {
		return
	}
	_, _ = fmt.Fprintln(stderr, err)
	exit(exitCode(err))
}

// exitCode maps err to a process status. A failing external tool passes its
// own status through so scripts see what dnf or beadm reported.
func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	var toolErr *command.ToolError
	if errors.As(err, &toolErr) && toolErr.ExitCode > 0 {
		return toolErr.ExitCode
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}

// versionString appends the commit and build date to Version when the build
// stamped them.
func versionString() string {
	var meta []string
	for _, field := range []struct{ format, value string }{
		{messages.VersionCommitFmt, Commit},
		{messages.VersionBuildFmt, BuildDate},
	} {
		if field.value == "" || field.value == "unknown" {
			continue
		}
		meta = append(meta, fmt.Sprintf(field.format, field.value))
	}
	if meta == nil {
		return Version
	}
	return fmt.Sprintf(messages.VersionFullFmt, Version, strings.Join(meta, ", "))
}
