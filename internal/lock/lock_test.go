package lock

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestAcquireAndRelease(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "locks")
	locker := New(dir, time.Second)

	lk, err := locker.Acquire("fedora40")
	require.NoError(t, err)
	assert.Equal(t, "fedora40", lk.Name())
	assert.FileExists(t, filepath.Join(dir, "fedora40.lock"))

	require.NoError(t, lk.Release())
	require.NoError(t, lk.Release(), "second release is a no-op")

	again, err := locker.Acquire("fedora40")
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestAcquireContendedTimesOut(t *testing.T) {
	origSleep := lockSleep
	t.Cleanup(func() { lockSleep = origSleep })
	lockSleep = func(time.Duration) {}

	locker := New(t.TempDir(), 50*time.Millisecond)
	held, err := locker.Acquire("fedora40")
	require.NoError(t, err)
	t.Cleanup(func() { _ = held.Release() })

	_, err = locker.Acquire("fedora40")
	var timeout *TimeoutError
	require.True(t, errors.As(err, &timeout), "got %v", err)
	assert.Equal(t, "fedora40", timeout.Name)
	assert.Contains(t, err.Error(), "fedora40")
}

func TestDifferentNamesDoNotContend(t *testing.T) {
	locker := New(t.TempDir(), 50*time.Millisecond)
	a, err := locker.Acquire("fedora40")
	require.NoError(t, err)
	defer a.Release()

	b, err := locker.Acquire("fedora41")
	require.NoError(t, err)
	require.NoError(t, b.Release())
}

func TestAcquireWaitsForRelease(t *testing.T) {
	origFlock := flockFn
	t.Cleanup(func() { flockFn = origFlock })
	origSleep := lockSleep
	t.Cleanup(func() { lockSleep = origSleep })

	attempts := 0
	flockFn = func(fd int, how int) error {
		if how&unix.LOCK_EX != 0 {
			attempts++
			if attempts < 3 {
				return unix.EWOULDBLOCK
			}
		}
		return nil
	}
	sleeps := 0
	lockSleep = func(time.Duration) { sleeps++ }

	lk, err := New(t.TempDir(), time.Minute).Acquire("fedora40")
	require.NoError(t, err)
	require.NoError(t, lk.Release())
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, sleeps)
}

func TestAcquireUnexpectedFlockError(t *testing.T) {
	origFlock := flockFn
	t.Cleanup(func() { flockFn = origFlock })
	flockFn = func(int, int) error { return unix.EBADF }

	_, err := New(t.TempDir(), time.Second).Acquire("fedora40")
	require.Error(t, err)
	assert.True(t, errors.Is(err, unix.EBADF))
}

func TestPathSanitizesSeparators(t *testing.T) {
	locker := New("/run/dnf-beadm", 0)
	assert.Equal(t, "/run/dnf-beadm/rpool_ROOT_fedora40.lock", locker.Path("rpool/ROOT/fedora40"))
	assert.Equal(t, DefaultWait, locker.Wait)
	assert.Equal(t, DefaultDir, New("", 0).Dir)
}

func TestNilLock(t *testing.T) {
	var lk *Lock
	assert.NoError(t, lk.Release())
	assert.Equal(t, "", lk.Name())
}
