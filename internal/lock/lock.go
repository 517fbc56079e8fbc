// Package lock serialises invocations that operate on the same boot environment.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

// DefaultDir holds the per-BE lock files.
const DefaultDir = "/run/dnf-beadm"

// DefaultWait bounds how long Acquire waits for a held lock.
const DefaultWait = 30 * time.Second

const pollEvery = 100 * time.Millisecond

var flockFn = unix.Flock
var lockSleep = time.Sleep

// TimeoutError reports a lock that stayed held for the whole wait.
type TimeoutError struct {
	Name string
	Path string
	Wait time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf(messages.LockTimeoutFmt, e.Name, e.Wait, e.Path)
}

// Locker hands out exclusive advisory locks keyed by BE name.
type Locker struct {
	Dir  string
	Wait time.Duration
}

// Lock is a held advisory lock.
type Lock struct {
	name string
	file *os.File
}

// New returns a Locker keeping its lock files in dir.
func New(dir string, wait time.Duration) *Locker {
	if dir == "" {
		dir = DefaultDir
	}
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Locker{Dir: dir, Wait: wait}
}

// Path returns the lock file used for the BE name.
func (l *Locker) Path(name string) string {
	return filepath.Join(l.Dir, fileName(name))
}

// fileName keeps BE names that contain path separators inside the lock dir.
func fileName(name string) string {
	return strings.NewReplacer("/", "_", string(os.PathSeparator), "_").Replace(name) + ".lock"
}

// Acquire opens or creates the lock file for name and takes an exclusive lock,
// polling until the wait elapses.
func (l *Locker) Acquire(name string) (*Lock, error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return nil, fmt.Errorf(messages.LockCreateDirFmt, l.Dir, err)
	}
	path := l.Path(name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.LockOpenFmt, path, err)
	}
	if err := l.lockFile(file, name); err != nil {
		_ = file.Close()
		return nil, err
	}
	return &Lock{name: name, file: file}, nil
}

func (l *Locker) lockFile(file *os.File, name string) error {
	deadline := time.Now().Add(l.Wait)
	for {
		err := flockFn(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			return fmt.Errorf(messages.LockFmt, file.Name(), err)
		}
		if time.Now().After(deadline) {
			return &TimeoutError{Name: name, Path: file.Name(), Wait: l.Wait}
		}
		lockSleep(pollEvery)
	}
}

// Name returns the BE name the lock was taken for.
func (l *Lock) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

// Release unlocks and closes the lock file. The file itself is left in place;
// removing it would race with a waiter that already opened it.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	file := l.file
	l.file = nil
	if err := flockFn(int(file.Fd()), unix.LOCK_UN); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
