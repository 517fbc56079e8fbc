// Package beadm drives the boot environment management tool.
package beadm

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/t0fik/dnf-plugin-beadm/internal/command"
)

// DefaultPath is where the BE tool is usually installed.
const DefaultPath = "/usr/sbin/beadm"

// activeFlag marks the currently booted BE in the flags column of `beadm list -H`.
const activeFlag = "N"

// Entry is one boot environment reported by `beadm list -H`.
type Entry struct {
	Name  string
	Flags string
}

// Active reports whether the entry is the currently booted BE.
func (e Entry) Active() bool {
	return strings.Contains(e.Flags, activeFlag)
}

// Tool wraps the beadm command line. It performs no existence checks of its own.
type Tool struct {
	runner command.Runner
	path   string
	log    zerolog.Logger
}

// New returns a Tool invoking the beadm binary at path.
func New(runner command.Runner, path string, log zerolog.Logger) *Tool {
	if path == "" {
		path = DefaultPath
	}
	return &Tool{runner: runner, path: path, log: log}
}

// List returns the known boot environments. A failing tool yields an empty
// list so read-only callers never abort on it.
func (t *Tool) List(ctx context.Context) []Entry {
	out, err := t.runner.Output(ctx, t.path, "list", "-H")
	if err != nil {
		t.log.Debug().Err(err).Msg("listing boot environments failed")
		return nil
	}
	return ParseList(out)
}

// ParseList parses the tab or space separated output of `beadm list -H`.
// Rows without a flags column are kept with empty flags.
func ParseList(out []byte) []Entry {
	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		cols := strings.Fields(scanner.Text())
		if len(cols) == 0 {
			continue
		}
		entry := Entry{Name: cols[0]}
		if len(cols) > 1 {
			entry.Flags = cols[1]
		}
		entries = append(entries, entry)
	}
	return entries
}

// Exists reports whether a BE with exactly this name is listed.
func (t *Tool) Exists(ctx context.Context, name string) bool {
	for _, e := range t.List(ctx) {
		if e.Name == name {
			return true
		}
	}
	return false
}

// Active returns the name of the currently booted BE.
func (t *Tool) Active(ctx context.Context) (string, bool) {
	for _, e := range t.List(ctx) {
		if e.Active() {
			return e.Name, true
		}
	}
	return "", false
}

// Create creates name, cloned from source when source is not empty.
func (t *Tool) Create(ctx context.Context, name string, source string) error {
	args := []string{"create"}
	if source != "" {
		args = append(args, "-e", source)
	}
	args = append(args, name)
	_, err := t.runner.Output(ctx, t.path, args...)
	return err
}

// Mount mounts name at mountpoint and returns the first line the tool prints,
// which is the mounted root. The line is returned even when the tool fails and
// may be empty.
func (t *Tool) Mount(ctx context.Context, name string, mountpoint string) (string, error) {
	out, err := t.runner.Output(ctx, t.path, "mount", "-m", name, mountpoint)
	return command.FirstLine(out), err
}

// Unmount unmounts name.
func (t *Tool) Unmount(ctx context.Context, name string) error {
	_, err := t.runner.Output(ctx, t.path, "umount", name)
	return err
}

// Activate marks name as the BE to boot next.
func (t *Tool) Activate(ctx context.Context, name string) error {
	_, err := t.runner.Output(ctx, t.path, "activate", name)
	return err
}
