// Package flock provides cross-platform advisory file locks.
//
// Exclusive and Unlock are thin non-blocking primitives over flock(2) on Unix
// and LockFileEx on Windows. Acquire builds a polling, context-aware lock on a
// lock file path and is what the configuration store uses to serialize
// read-modify-write cycles on a module directory.
//
// Usage:
//
//	lock, err := flock.Acquire(ctx, dir+".lock", 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	defer func() { _ = lock.Release() }()
package flock
