//go:build unix

package lock

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// FileLock is a Guard based on an exclusive advisory lock (flock) held on an
// open handle. The kernel drops the lock when the process dies, so a crashed
// holder never blocks later runs. The file itself is left in place.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a guard for path
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// New returns the platform guard: flock on unix
func New(path string, _ time.Duration) Guard {
	return NewFileLock(path)
}

// TryAcquire implements Guard
func (l *FileLock) TryAcquire() (bool, error) {
	if l.file != nil {
		return false, fmt.Errorf("lock %s is already held by this guard", l.path)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return false, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return false, nil
		}
		return false, fmt.Errorf("failed to lock %s: %w", l.path, err)
	}

	l.file = f
	return true, nil
}

// Release implements Guard
func (l *FileLock) Release() error {
	if l.file == nil {
		return nil
	}

	f := l.file
	l.file = nil

	unlockErr := unix.Flock(int(f.Fd()), unix.LOCK_UN)
	closeErr := f.Close()
	if unlockErr != nil {
		return fmt.Errorf("failed to unlock %s: %w", l.path, unlockErr)
	}
	return closeErr
}
