// Package mounttable reads the live mount table through findmnt.
package mounttable

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/t0fik/dnf-plugin-beadm/internal/command"
	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

// DefaultPath is where findmnt lives on supported systems.
const DefaultPath = "/usr/bin/findmnt"

// DefaultEFITarget is the canonical EFI system partition mount point.
const DefaultEFITarget = "/boot/efi"

// SELinuxFS names the SELinux pseudo-filesystem, both as source and type.
const SELinuxFS = "selinuxfs"

// Entry is one row of the mount table.
type Entry struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	FSType  string `json:"fstype"`
	Options string `json:"options"`
}

type findmntDocument struct {
	Filesystems []Entry `json:"filesystems"`
}

// Resolver queries the mount table on every call; the table is never cached
// because mounts change underneath a running upgrade.
type Resolver struct {
	runner    command.Runner
	findmnt   string
	efiTarget string
}

// NewResolver returns a Resolver using the findmnt binary at path.
// An empty efiTarget selects DefaultEFITarget.
func NewResolver(runner command.Runner, path string, efiTarget string) *Resolver {
	if efiTarget == "" {
		efiTarget = DefaultEFITarget
	}
	return &Resolver{runner: runner, findmnt: path, efiTarget: filepath.Clean(efiTarget)}
}

// List returns the current mount table.
func (r *Resolver) List(ctx context.Context) ([]Entry, error) {
	out, err := r.runner.Output(ctx, r.findmnt, "-lJ")
	if err != nil {
		return nil, err
	}
	var doc findmntDocument
	if err := json.Unmarshal(out, &doc); err != nil {
		return nil, &command.ToolError{
			Tool:     filepath.Base(r.findmnt),
			Args:     []string{"-lJ"},
			ExitCode: 0,
			Err:      fmt.Errorf(messages.MountTableDecodeFmt, err),
		}
	}
	return doc.Filesystems, nil
}

// FindEFI returns the entry mounted at the EFI mount point.
// A missing EFI mount is reported as found == false, not as an error.
func (r *Resolver) FindEFI(ctx context.Context) (Entry, bool, error) {
	return r.find(ctx, func(e Entry) bool {
		return e.Target != "" && filepath.Clean(e.Target) == r.efiTarget
	})
}

// FindSELinux returns the SELinux pseudo-filesystem entry, if SELinux is mounted.
func (r *Resolver) FindSELinux(ctx context.Context) (Entry, bool, error) {
	return r.find(ctx, func(e Entry) bool {
		return e.Source == SELinuxFS || e.FSType == SELinuxFS
	})
}

func (r *Resolver) find(ctx context.Context, match func(Entry) bool) (Entry, bool, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return Entry{}, false, err
	}
	for _, e := range entries {
		if match(e) {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}
