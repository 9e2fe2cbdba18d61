package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// LockPath returns the lock file guarding a data file.
func LockPath(dataPath string) string {
	return dataPath + ".lock"
}

// WithLock runs fn while holding an exclusive flock on LockPath(dataPath).
// Other prj processes updating the same file wait for fn to return.
// The parent directory of dataPath is created if needed.
func WithLock(dataPath string, fn func() error) (err error) {
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return err
	}

	f, err := lockFile(LockPath(dataPath))
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer func() {
		if uerr := unlockFile(f); uerr != nil && err == nil {
			err = fmt.Errorf("release lock: %w", uerr)
		}
	}()

	return fn()
}

// lockFile opens path and blocks until it holds an exclusive lock on it.
func lockFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, err
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func unlockFile(f *os.File) error {
	err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	return errors.Join(err, f.Close())
}
