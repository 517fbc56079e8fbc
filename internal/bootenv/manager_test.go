package bootenv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t0fik/dnf-plugin-beadm/internal/mounttable"
	"github.com/t0fik/dnf-plugin-beadm/internal/testutil"
)

// errNotMocked is returned when a fakeTool method is called without a mock function set.
var errNotMocked = errors.New("fakeTool: method not mocked")

type fakeTool struct {
	ExistsFunc  func(name string) bool
	CreateFunc  func(name, source string) error
	MountFunc   func(name, mountpoint string) (string, error)
	UnmountFunc func(name string) error

	creates  []string
	mounts   []string
	unmounts []string
}

func (f *fakeTool) Exists(_ context.Context, name string) bool {
	if f.ExistsFunc == nil {
		return false
	}
	return f.ExistsFunc(name)
}

func (f *fakeTool) Create(_ context.Context, name, source string) error {
	f.creates = append(f.creates, name+"<"+source)
	if f.CreateFunc == nil {
		return nil
	}
	return f.CreateFunc(name, source)
}

func (f *fakeTool) Mount(_ context.Context, name, mountpoint string) (string, error) {
	f.mounts = append(f.mounts, name)
	if f.MountFunc == nil {
		return "", fmt.Errorf("%w: Mount", errNotMocked)
	}
	return f.MountFunc(name, mountpoint)
}

func (f *fakeTool) Unmount(_ context.Context, name string) error {
	f.unmounts = append(f.unmounts, name)
	if f.UnmountFunc == nil {
		return nil
	}
	return f.UnmountFunc(name)
}

type fakeTopology struct {
	efi        *mounttable.Entry
	selinux    *mounttable.Entry
	efiErr     error
	selinuxErr error
}

func (f fakeTopology) FindEFI(context.Context) (mounttable.Entry, bool, error) {
	if f.efiErr != nil {
		return mounttable.Entry{}, false, f.efiErr
	}
	if f.efi == nil {
		return mounttable.Entry{}, false, nil
	}
	return *f.efi, true, nil
}

func (f fakeTopology) FindSELinux(context.Context) (mounttable.Entry, bool, error) {
	if f.selinuxErr != nil {
		return mounttable.Entry{}, false, f.selinuxErr
	}
	if f.selinux == nil {
		return mounttable.Entry{}, false, nil
	}
	return *f.selinux, true, nil
}

type promptRecorder struct {
	answers []bool
	prompts []string
}

func (p *promptRecorder) Confirm(prompt string) (bool, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.answers) == 0 {
		return false, nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func newTestManager(tool Tool, topo Topology, runner *testutil.FakeRunner, confirm Confirmer, out *bytes.Buffer) *Manager {
	return NewManager(Options{
		Tool:      tool,
		Topology:  topo,
		Mounter:   NewCommandMounter(runner, "mount"),
		Confirmer: confirm,
		Out:       out,
		Log:       zerolog.Nop(),
	})
}

func TestEnsureCreatesMissingBE(t *testing.T) {
	tool := &fakeTool{}
	var out bytes.Buffer
	m := newTestManager(tool, fakeTopology{}, &testutil.FakeRunner{}, nil, &out)

	require.NoError(t, m.Ensure(context.Background(), "fedora40", "default"))
	assert.Equal(t, []string{"fedora40<default"}, tool.creates)
	assert.Contains(t, out.String(), "Creating BE 'fedora40'")
}

func TestEnsureExistingConfirmedTwiceNeverCreates(t *testing.T) {
	tool := &fakeTool{ExistsFunc: func(string) bool { return true }}
	prompts := &promptRecorder{answers: []bool{true, true}}
	m := newTestManager(tool, fakeTopology{}, &testutil.FakeRunner{}, prompts, &bytes.Buffer{})

	require.NoError(t, m.Ensure(context.Background(), "fedora40", "default"))
	require.NoError(t, m.Ensure(context.Background(), "fedora40", "default"))
	assert.Empty(t, tool.creates)
	require.Len(t, prompts.prompts, 2)
	assert.Equal(t, "BE 'fedora40' exists. Do you want to continue", prompts.prompts[0])
}

func TestEnsureExistingDeclined(t *testing.T) {
	tool := &fakeTool{ExistsFunc: func(string) bool { return true }}
	m := newTestManager(tool, fakeTopology{}, &testutil.FakeRunner{}, &promptRecorder{answers: []bool{false}}, &bytes.Buffer{})

	err := m.Ensure(context.Background(), "fedora40", "")
	assert.ErrorIs(t, err, ErrOperationAborted)
	assert.Empty(t, tool.creates)
}

func TestEnsureDefaultConfirmerDeclines(t *testing.T) {
	tool := &fakeTool{ExistsFunc: func(string) bool { return true }}
	m := NewManager(Options{Tool: tool, Log: zerolog.Nop()})

	assert.ErrorIs(t, m.Ensure(context.Background(), "fedora40", ""), ErrOperationAborted)
}

func TestEnsurePromptError(t *testing.T) {
	tool := &fakeTool{ExistsFunc: func(string) bool { return true }}
	wantErr := errors.New("no terminal")
	confirm := ConfirmFunc(func(string) (bool, error) { return false, wantErr })
	m := newTestManager(tool, fakeTopology{}, &testutil.FakeRunner{}, confirm, &bytes.Buffer{})

	assert.ErrorIs(t, m.Ensure(context.Background(), "fedora40", ""), wantErr)
}

func TestEnsureCreateFailure(t *testing.T) {
	cause := errors.New("dataset busy")
	tool := &fakeTool{CreateFunc: func(string, string) error { return cause }}
	m := newTestManager(tool, fakeTopology{}, &testutil.FakeRunner{}, nil, &bytes.Buffer{})

	err := m.Ensure(context.Background(), "fedora40", "default")
	var createErr *CreateFailedError
	require.True(t, errors.As(err, &createErr))
	assert.Equal(t, "fedora40", createErr.Name)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Could not create 'fedora40'")
}

func TestMountFullTopology(t *testing.T) {
	tool := &fakeTool{MountFunc: func(name, mp string) (string, error) { return mp, nil }}
	topo := fakeTopology{
		efi:     &mounttable.Entry{Source: "/dev/nvme0n1p1", Target: "/boot/efi", FSType: "vfat"},
		selinux: &mounttable.Entry{Source: "selinuxfs", Target: "/sys/fs/selinux", FSType: "selinuxfs"},
	}
	runner := &testutil.FakeRunner{}
	m := newTestManager(tool, topo, runner, nil, &bytes.Buffer{})

	root, err := m.Mount(context.Background(), "fedora40", "/tmp/be")
	require.NoError(t, err)
	assert.Equal(t, MountedRoot{Name: "fedora40", Path: "/tmp/be"}, root)
	assert.Equal(t, []string{
		"mount -o bind /dev /tmp/be/dev",
		"mount -o bind /sys /tmp/be/sys",
		"mount -o bind /proc /tmp/be/proc",
		"mount -o bind /run /tmp/be/run",
		"mount -t efivars efivars /tmp/be/sys/firmware/efi/efivars",
		"mount /dev/nvme0n1p1 /tmp/be/boot/efi",
		"mount -t selinuxfs selinuxfs /tmp/be/sys/fs/selinux",
	}, runner.CommandLines())
}

func TestMountWithoutEFIOrSELinux(t *testing.T) {
	tool := &fakeTool{MountFunc: func(string, string) (string, error) { return "/mnt/be", nil }}
	runner := &testutil.FakeRunner{}
	m := newTestManager(tool, fakeTopology{}, runner, nil, &bytes.Buffer{})

	root, err := m.Mount(context.Background(), "fedora40", "/tmp/be")
	require.NoError(t, err)
	assert.Empty(t, root.Warnings)
	assert.Equal(t, "/mnt/be", root.Path)
	for _, line := range runner.CommandLines() {
		assert.NotContains(t, line, "boot/efi")
		assert.NotContains(t, line, "selinuxfs")
	}
	assert.Len(t, runner.Calls, 5)
}

func TestMountCollectsSpecialMountFailures(t *testing.T) {
	tool := &fakeTool{MountFunc: func(string, string) (string, error) { return "/mnt/be", nil }}
	runner := &testutil.FakeRunner{
		OutputFunc: func(name string, args []string) ([]byte, error) {
			if strings.Contains(strings.Join(args, " "), "efivars") || args[len(args)-1] == "/mnt/be/proc" {
				return nil, testutil.ExitError(name, args, 32)
			}
			return nil, nil
		},
	}
	topo := fakeTopology{selinuxErr: errors.New("findmnt missing")}
	m := newTestManager(tool, topo, runner, nil, &bytes.Buffer{})

	root, err := m.Mount(context.Background(), "fedora40", "/tmp/be")
	require.NoError(t, err)
	require.Len(t, root.Warnings, 3)
	assert.Contains(t, root.Warnings[0], "/proc")
	assert.Contains(t, root.Warnings[1], "efivars")
	assert.Contains(t, root.Warnings[2], "SELinux")
}

func TestMountPrimaryFailure(t *testing.T) {
	cause := errors.New("exit status 1")
	tool := &fakeTool{MountFunc: func(string, string) (string, error) { return "", cause }}
	runner := &testutil.FakeRunner{}
	m := newTestManager(tool, fakeTopology{}, runner, nil, &bytes.Buffer{})

	_, err := m.Mount(context.Background(), "fedora40", "/tmp/be")
	assert.ErrorIs(t, err, ErrMountFailed)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, runner.Calls, "no special mounts without a root")
}

func TestMountEmptyRoot(t *testing.T) {
	tool := &fakeTool{MountFunc: func(string, string) (string, error) { return "", nil }}
	runner := &testutil.FakeRunner{}
	m := newTestManager(tool, fakeTopology{}, runner, nil, &bytes.Buffer{})

	_, err := m.Mount(context.Background(), "fedora40", "/tmp/be")
	assert.ErrorIs(t, err, ErrMountFailed)
	assert.Empty(t, runner.Calls)
}

func TestUnmount(t *testing.T) {
	tool := &fakeTool{}
	m := newTestManager(tool, fakeTopology{}, &testutil.FakeRunner{}, nil, &bytes.Buffer{})
	require.NoError(t, m.Unmount(context.Background(), "fedora40"))
	assert.Equal(t, []string{"fedora40"}, tool.unmounts)

	tool.UnmountFunc = func(string) error { return errors.New("busy") }
	assert.Error(t, m.Unmount(context.Background(), "fedora40"))
}
