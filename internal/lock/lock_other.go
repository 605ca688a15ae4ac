//go:build !unix

package lock

import "time"

// New returns the platform guard: exclusive creation where flock is unavailable (Windows)
func New(path string, staleAfter time.Duration) Guard {
	return NewExclusiveFile(path, staleAfter)
}
