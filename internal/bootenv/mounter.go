package bootenv

import (
	"context"

	"github.com/t0fik/dnf-plugin-beadm/internal/command"
)

// DefaultMountPath is the usual location of mount(8).
const DefaultMountPath = "/usr/bin/mount"

// BindSources are the host pseudo-filesystems bound into every mounted root, in order.
var BindSources = []string{"/dev", "/sys", "/proc", "/run"}

// EFIVarsPath is where the efivars filesystem is mounted inside the root.
const EFIVarsPath = "sys/firmware/efi/efivars"

// Mounter performs the special mounts under a BE root.
type Mounter interface {
	// Bind bind-mounts source at target.
	Bind(ctx context.Context, source string, target string) error
	// Mount mounts source at target; an empty fstype lets mount(8) probe it.
	Mount(ctx context.Context, fstype string, source string, target string) error
}

// CommandMounter runs mount(8).
type CommandMounter struct {
	runner command.Runner
	path   string
}

// NewCommandMounter returns a Mounter using the mount binary at path.
func NewCommandMounter(runner command.Runner, path string) *CommandMounter {
	if path == "" {
		path = DefaultMountPath
	}
	return &CommandMounter{runner: runner, path: path}
}

// Bind runs `mount -o bind source target`.
func (c *CommandMounter) Bind(ctx context.Context, source string, target string) error {
	_, err := c.runner.Output(ctx, c.path, "-o", "bind", source, target)
	return err
}

// Mount runs `mount [-t fstype] source target`.
func (c *CommandMounter) Mount(ctx context.Context, fstype string, source string, target string) error {
	args := make([]string, 0, 4)
	if fstype != "" {
		args = append(args, "-t", fstype)
	}
	args = append(args, source, target)
	_, err := c.runner.Output(ctx, c.path, args...)
	return err
}
