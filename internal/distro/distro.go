// Package distro identifies the running distribution.
package distro

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/t0fik/dnf-plugin-beadm/internal/command"
	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

// DefaultLsbRelease is the usual location of lsb_release.
const DefaultLsbRelease = "/usr/bin/lsb_release"

// Identifier asks lsb_release for the distributor id.
type Identifier struct {
	runner command.Runner
	path   string
}

// NewIdentifier returns an Identifier using the lsb_release binary at path.
func NewIdentifier(runner command.Runner, path string) *Identifier {
	if path == "" {
		path = DefaultLsbRelease
	}
	return &Identifier{runner: runner, path: path}
}

// ID returns the distributor id exactly as the tool prints it (e.g. "Fedora").
func (i *Identifier) ID(ctx context.Context) (string, error) {
	out, err := i.runner.Output(ctx, i.path, "-si")
	if err != nil {
		return "", err
	}
	id := command.FirstLine(out)
	if id == "" {
		return "", &command.ToolError{
			Tool: filepath.Base(i.path),
			Args: []string{"-si"},
			Err:  fmt.Errorf(messages.DistroEmptyID),
		}
	}
	return id, nil
}
