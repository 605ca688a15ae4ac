package lock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
)

// ExclusiveFile is a Guard based on atomic exclusive creation of the lock
// file. The file exists only while the guard is held.
type ExclusiveFile struct {
	path       string
	staleAfter time.Duration
	file       *os.File
}

// NewExclusiveFile creates a guard for path. A lock file older than
// staleAfter is considered left over by a killed process and is replaced.
// Zero disables the staleness check.
func NewExclusiveFile(path string, staleAfter time.Duration) *ExclusiveFile {
	return &ExclusiveFile{path: path, staleAfter: staleAfter}
}

// TryAcquire implements Guard
func (l *ExclusiveFile) TryAcquire() (bool, error) {
	if l.file != nil {
		return false, fmt.Errorf("lock %s is already held by this guard", l.path)
	}

	f, err := l.create()
	if errors.Is(err, fs.ErrExist) {
		if !l.removeStale() {
			return false, nil
		}
		f, err = l.create()
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
	}
	if err != nil {
		return false, fmt.Errorf("failed to create lock file: %w", err)
	}

	if _, err := f.WriteString(strconv.Itoa(os.Getpid()) + "\n"); err != nil {
		f.Close()
		os.Remove(l.path)
		return false, fmt.Errorf("failed to write lock file: %w", err)
	}

	l.file = f
	return true, nil
}

// Release implements Guard. A lock file that is already gone is not an error.
func (l *ExclusiveFile) Release() error {
	if l.file == nil {
		return nil
	}

	closeErr := l.file.Close()
	l.file = nil

	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return closeErr
}

func (l *ExclusiveFile) create() (*os.File, error) {
	return os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
}

// removeStale deletes the lock file when it is older than staleAfter.
// Returns true when a retry makes sense.
func (l *ExclusiveFile) removeStale() bool {
	if l.staleAfter <= 0 {
		return false
	}

	info, err := os.Stat(l.path)
	if err != nil {
		// Holder released it in between
		return errors.Is(err, fs.ErrNotExist)
	}
	if time.Since(info.ModTime()) < l.staleAfter {
		return false
	}

	// Claim by rename and re-check the age: a second contender may have
	// recreated the lock after our Stat. On Windows the holder's open handle
	// blocks the rename.
	claimed := fmt.Sprintf("%s.stale.%d", l.path, os.Getpid())
	if err := os.Rename(l.path, claimed); err != nil {
		return errors.Is(err, fs.ErrNotExist)
	}

	info, err = os.Stat(claimed)
	if err == nil && time.Since(info.ModTime()) < l.staleAfter {
		// Moved a live lock recreated in between, put it back
		_ = os.Link(claimed, l.path)
		_ = os.Remove(claimed)
		return false
	}

	err = os.Remove(claimed)
	return err == nil || errors.Is(err, fs.ErrNotExist)
}
