// Package bootenv ensures a boot environment exists and mounts it as an
// alternate root ready for a package transaction.
package bootenv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
	"github.com/t0fik/dnf-plugin-beadm/internal/mounttable"
)

// ErrOperationAborted is returned when the operator declines to reuse an existing BE.
var ErrOperationAborted = errors.New(messages.BootEnvOperationAborted)

// ErrMountFailed is returned when the BE tool did not produce a mounted root.
var ErrMountFailed = errors.New(messages.BootEnvMountFailed)

// CreateFailedError reports a BE the tool could not create.
type CreateFailedError struct {
	Name string
	Err  error
}

func (e *CreateFailedError) Error() string {
	return fmt.Sprintf(messages.BootEnvCreateFailedFmt, e.Name, e.Err)
}

func (e *CreateFailedError) Unwrap() error {
	return e.Err
}

// Tool is the subset of the BE tool the manager drives.
type Tool interface {
	Exists(ctx context.Context, name string) bool
	Create(ctx context.Context, name string, source string) error
	Mount(ctx context.Context, name string, mountpoint string) (string, error)
	Unmount(ctx context.Context, name string) error
}

// Topology discovers host mounts that must be replicated under the new root.
type Topology interface {
	FindEFI(ctx context.Context) (mounttable.Entry, bool, error)
	FindSELinux(ctx context.Context) (mounttable.Entry, bool, error)
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function into a Confirmer.
type ConfirmFunc func(prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

// MountedRoot is a BE mounted as an alternate root.
type MountedRoot struct {
	Name string
	Path string
	// Warnings lists special mounts that could not be set up.
	Warnings []string
}

// Manager owns BE existence checks, creation and mounting.
type Manager struct {
	tool     Tool
	topology Topology
	mounter  Mounter
	confirm  Confirmer
	out      io.Writer
	log      zerolog.Logger
}

// Options configures a Manager.
type Options struct {
	Tool      Tool
	Topology  Topology
	Mounter   Mounter
	Confirmer Confirmer
	// Out receives operator-facing notices.
	Out io.Writer
	Log zerolog.Logger
}

// NewManager returns a Manager. A nil Confirmer declines every prompt.
func NewManager(opts Options) *Manager {
	confirm := opts.Confirmer
	if confirm == nil {
		confirm = ConfirmFunc(func(string) (bool, error) { return false, nil })
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &Manager{
		tool:     opts.Tool,
		topology: opts.Topology,
		mounter:  opts.Mounter,
		confirm:  confirm,
		out:      out,
		log:      opts.Log,
	}
}

// Ensure makes sure name exists. An existing BE is reused only after the
// operator confirms; a missing one is created from source.
func (m *Manager) Ensure(ctx context.Context, name string, source string) error {
	if m.tool.Exists(ctx, name) {
		ok, err := m.confirm.Confirm(fmt.Sprintf(messages.BootEnvExistsPromptFmt, name))
		if err != nil {
			return err
		}
		if !ok {
			return ErrOperationAborted
		}
		m.log.Info().Str("be", name).Msg("reusing existing boot environment")
		return nil
	}

	_, _ = fmt.Fprintf(m.out, messages.BootEnvCreatingFmt, name)
	m.log.Info().Str("be", name).Str("source", source).Msg("creating boot environment")
	if err := m.tool.Create(ctx, name, source); err != nil {
		return &CreateFailedError{Name: name, Err: err}
	}
	return nil
}

// Mount mounts name at mountpoint and sets up the special filesystems a
// package transaction needs inside the new root. Failures of the special
// mounts are collected in MountedRoot.Warnings.
func (m *Manager) Mount(ctx context.Context, name string, mountpoint string) (MountedRoot, error) {
	root, err := m.tool.Mount(ctx, name, mountpoint)
	if err != nil {
		return MountedRoot{}, fmt.Errorf("%w: %s: %w", ErrMountFailed, name, err)
	}
	if root == "" {
		return MountedRoot{}, fmt.Errorf("%w: %s: "+messages.BootEnvEmptyRoot, ErrMountFailed, name)
	}

	mounted := MountedRoot{Name: name, Path: root}
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		mounted.Warnings = append(mounted.Warnings, msg)
		m.log.Warn().Str("be", name).Msg(msg)
	}

	for _, src := range BindSources {
		if err := m.mounter.Bind(ctx, src, under(root, src)); err != nil {
			warn(messages.BootEnvBindFailedFmt, src, err)
		}
	}
	if err := m.mounter.Mount(ctx, "efivars", "efivars", under(root, EFIVarsPath)); err != nil {
		warn(messages.BootEnvEFIVarsFailedFmt, err)
	}

	efi, found, err := m.topology.FindEFI(ctx)
	switch {
	case err != nil:
		warn(messages.BootEnvEFILookupFailedFmt, err)
	case !found:
		m.log.Debug().Str("be", name).Msg("no EFI system partition mounted on host; skipping")
	default:
		if err := m.mounter.Mount(ctx, "", efi.Source, under(root, efi.Target)); err != nil {
			warn(messages.BootEnvEFIMountFailedFmt, efi.Source, err)
		}
	}

	selinux, found, err := m.topology.FindSELinux(ctx)
	switch {
	case err != nil:
		warn(messages.BootEnvSELinuxLookupFailedFmt, err)
	case found:
		if err := m.mounter.Mount(ctx, mounttable.SELinuxFS, selinux.Source, under(root, selinux.Target)); err != nil {
			warn(messages.BootEnvSELinuxMountFailedFmt, err)
		}
	}

	return mounted, nil
}

// Unmount unmounts name. The caller decides how to report a failure.
func (m *Manager) Unmount(ctx context.Context, name string) error {
	if err := m.tool.Unmount(ctx, name); err != nil {
		m.log.Warn().Err(err).Str("be", name).Msg("unmounting boot environment failed")
		return err
	}
	return nil
}

// under places an absolute host path below root.
func under(root string, path string) string {
	return filepath.Join(root, strings.TrimLeft(path, "/"))
}
