package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t0fik/dnf-plugin-beadm/internal/config"
	"github.com/t0fik/dnf-plugin-beadm/internal/doctor"
	"github.com/t0fik/dnf-plugin-beadm/internal/mounttable"
)

type doctorRegistry struct{}

func (doctorRegistry) Active(context.Context) (string, bool) { return "fedora40", true }

type doctorEFI struct{}

func (doctorEFI) FindEFI(context.Context) (mounttable.Entry, bool, error) {
	return mounttable.Entry{Source: "/dev/nvme0n1p1", Target: "/boot/efi"}, true, nil
}

func stubDoctorProbes(t *testing.T) {
	t.Helper()
	orig := newDoctorProbes
	t.Cleanup(func() { newDoctorProbes = orig })
	newDoctorProbes = func(*config.Config) (doctor.ActiveReporter, doctor.EFIFinder) {
		return doctorRegistry{}, doctorEFI{}
	}
}

func TestDoctorReportsConfigFailure(t *testing.T) {
	stubDoctorProbes(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not toml ["), 0o644))

	out, err := runCLI(t, "", "doctor", "--config", path)
	assert.EqualError(t, err, "doctor found problems")
	assert.Contains(t, out, "[FAIL]")
	assert.Contains(t, out, "Some checks failed.")
	assert.NotContains(t, out, "fedora40")
}

func TestDoctorRunsHostChecks(t *testing.T) {
	stubDoctorProbes(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := "[tools]\nbeadm = \"" + filepath.Join(dir, "no-such-beadm") + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	out, err := runCLI(t, "", "doctor", "--config", path)
	assert.Error(t, err)
	assert.Contains(t, out, "no-such-beadm")
	assert.Contains(t, out, "Active boot environment is 'fedora40'")
	assert.Contains(t, out, "/dev/nvme0n1p1")
}
