package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the lock file name inside the system temp directory
const FileName = "pzl_reports.lock"

// Guard is a cross-process, non-blocking mutual exclusion primitive
type Guard interface {
	// TryAcquire returns false, nil when another process holds the guard
	TryAcquire() (bool, error)
	// Release frees the guard. Safe to call when not held.
	Release() error
}

// DefaultPath returns the well-known lock file path
func DefaultPath() string {
	return filepath.Join(os.TempDir(), FileName)
}

// Run executes fn while holding the guard. It never waits: if the guard is
// taken ran is false and err is nil. An I/O fault while acquiring is returned
// with ran=false. The guard is released on every path, panics included.
func Run(guard Guard, fn func()) (ran bool, err error) {
	acquired, err := guard.TryAcquire()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return false, nil
	}

	defer func() {
		if releaseErr := guard.Release(); releaseErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to release lock: %w", releaseErr))
		}
	}()

	fn()
	return true, nil
}
