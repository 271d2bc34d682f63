package flock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mrz1836/customizer/internal/constants"
	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// Lock is a held exclusive lock on a lock file.
type Lock struct {
	f    *os.File
	path string
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire opens (creating if needed) the lock file at path and polls for an
// exclusive lock until it succeeds, ctx is done, or timeout elapses.
// A timeout yields an error wrapping ErrLockTimeout.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600) //#nosec G302,G304 -- lock file needs write access, path is built from validated keys
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, ctx.Err()
		default:
		}

		if err := Exclusive(f.Fd()); err == nil {
			return &Lock{f: f, path: path}, nil
		}

		if time.Now().After(deadline) {
			_ = f.Close()
			return nil, fmt.Errorf("failed to acquire lock %s: %w", filepath.Base(path), cerrors.ErrLockTimeout)
		}

		time.Sleep(constants.LockRetryInterval)
	}
}

// Release unlocks and closes the lock file. Safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}

	if err := Unlock(l.f.Fd()); err != nil {
		_ = l.f.Close()
		l.f = nil
		return fmt.Errorf("failed to unlock: %w", err)
	}

	err := l.f.Close()
	l.f = nil
	if err != nil {
		return fmt.Errorf("failed to close lock file: %w", err)
	}
	return nil
}
