package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/t0fik/dnf-plugin-beadm/internal/config"
	"github.com/t0fik/dnf-plugin-beadm/internal/mounttable"
)

type fakeRegistry struct {
	name string
	ok   bool
}

func (f fakeRegistry) Active(context.Context) (string, bool) { return f.name, f.ok }

type fakeEFI struct {
	entry mounttable.Entry
	found bool
	err   error
}

func (f fakeEFI) FindEFI(context.Context) (mounttable.Entry, bool, error) {
	return f.entry, f.found, f.err
}

func TestCheckConfig(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.toml")
	require.NoError(t, os.WriteFile(good, []byte("[update]\nsettle_delay = \"1s\"\n"), 0o644))
	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[tools]\nbeadmm = \"x\"\n"), 0o644))

	r, cfg, source := CheckConfig(good)
	assert.Equal(t, StatusOK, r.Status)
	assert.Equal(t, good, source)
	require.NotNil(t, cfg)
	assert.Contains(t, r.Message, good)

	r, cfg, _ = CheckConfig(bad)
	assert.Equal(t, StatusFail, r.Status)
	assert.Nil(t, cfg)
	assert.NotEmpty(t, r.Recommendation)
}

func TestCheckConfigDefaults(t *testing.T) {
	orig := loadConfigFunc
	t.Cleanup(func() { loadConfigFunc = orig })
	loadConfigFunc = func(string) (*config.Config, string, error) { return config.Defaults(), "", nil }

	r, cfg, _ := CheckConfig("")
	assert.Equal(t, StatusOK, r.Status)
	assert.NotNil(t, cfg)
	assert.Contains(t, r.Message, "built-in defaults")
}

func TestCheckTools(t *testing.T) {
	orig := lookPathFunc
	t.Cleanup(func() { lookPathFunc = orig })
	lookPathFunc = func(file string) (string, error) {
		if file == "/usr/sbin/beadm" {
			return "", errors.New("not found")
		}
		return file, nil
	}

	tools := config.Defaults().Tools
	tools.Beadm = "/usr/sbin/beadm"
	results := CheckTools(tools)
	require.Len(t, results, 6)
	assert.Equal(t, StatusFail, results[0].Status)
	assert.Contains(t, results[0].Message, "beadm")
	for _, r := range results[1:] {
		assert.Equal(t, StatusOK, r.Status, r.Message)
	}
	assert.True(t, HasFailure(results))
	assert.False(t, HasFailure(results[1:]))
}

func TestCheckPrivileges(t *testing.T) {
	orig := geteuidFunc
	t.Cleanup(func() { geteuidFunc = orig })

	geteuidFunc = func() int { return 0 }
	assert.Equal(t, StatusOK, CheckPrivileges().Status)

	geteuidFunc = func() int { return 1000 }
	r := CheckPrivileges()
	assert.Equal(t, StatusWarn, r.Status)
	assert.Contains(t, r.Message, "1000")
}

func TestCheckLockDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	assert.Equal(t, StatusWarn, CheckLockDir(filepath.Join(dir, "missing")).Status)
	assert.Equal(t, StatusFail, CheckLockDir(file).Status)

	orig := accessFunc
	t.Cleanup(func() { accessFunc = orig })
	accessFunc = func(string, uint32) error { return nil }
	assert.Equal(t, StatusOK, CheckLockDir(dir).Status)

	accessFunc = func(string, uint32) error { return unix.EACCES }
	r := CheckLockDir(dir)
	assert.Equal(t, StatusFail, r.Status)
	assert.Contains(t, r.Message, "not writable")
}

func TestCheckActiveBE(t *testing.T) {
	r := CheckActiveBE(context.Background(), fakeRegistry{name: "fedora40", ok: true})
	assert.Equal(t, StatusOK, r.Status)
	assert.Contains(t, r.Message, "fedora40")

	r = CheckActiveBE(context.Background(), fakeRegistry{})
	assert.Equal(t, StatusWarn, r.Status)
	assert.Contains(t, r.Recommendation, "--source-be")
}

func TestCheckEFI(t *testing.T) {
	ctx := context.Background()
	r := CheckEFI(ctx, fakeEFI{entry: mounttable.Entry{Source: "/dev/sda1", Target: "/boot/efi"}, found: true}, "/boot/efi")
	assert.Equal(t, StatusOK, r.Status)
	assert.Contains(t, r.Message, "/dev/sda1")

	assert.Equal(t, StatusWarn, CheckEFI(ctx, fakeEFI{}, "/boot/efi").Status)
	assert.Equal(t, StatusWarn, CheckEFI(ctx, fakeEFI{err: errors.New("findmnt: exit 1")}, "/boot/efi").Status)
}
