package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockRetry is how often a waiting snapshot re-checks the lock file.
const lockRetry = 250 * time.Millisecond

// ErrSnapshotBusy is returned by Acquire when ctx ends before the running
// snapshot releases the lock.
var ErrSnapshotBusy = errors.New("another snapshot is writing to this database")

// SnapshotLock keeps two snapshot runs from writing the same SQLite file.
// The lock lives next to the database as <db>.lock.
type SnapshotLock struct {
	fl   *flock.Flock
	file string
}

func NewSnapshotLock(dbPath string) (*SnapshotLock, error) {
	abs, err := GetAbsDBPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("resolving snapshot db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot db directory: %w", err)
	}
	return &SnapshotLock{fl: flock.New(abs + ".lock"), file: abs + ".lock"}, nil
}

// Acquire takes the lock, waiting for a concurrent snapshot until ctx is done.
func (l *SnapshotLock) Acquire(ctx context.Context) error {
	ok, err := l.fl.TryLock()
	if err != nil {
		return fmt.Errorf("locking %s: %w", l.file, err)
	}
	if ok {
		return nil
	}

	Component("snapshot").WithField("lock", l.file).Warn("waiting for the running snapshot to finish")
	ok, err = l.fl.TryLockContext(ctx, lockRetry)
	if !ok {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w (%s): %v", ErrSnapshotBusy, l.file, ctxErr)
		}
		if err != nil {
			return fmt.Errorf("locking %s: %w", l.file, err)
		}
		return ErrSnapshotBusy
	}
	return nil
}

// Release drops the lock. Releasing a lock that was never taken is a no-op.
func (l *SnapshotLock) Release() error {
	if !l.fl.Locked() {
		return nil
	}
	if err := l.fl.Unlock(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unlocking %s: %w", l.file, err)
	}
	return nil
}

// GetAbsDBPath resolves the database path. An empty path means the default
// location under the user's config directory.
func GetAbsDBPath(dbPath string) (string, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "sheetshop", "sheetshop.sqlite"), nil
	}
	return filepath.Abs(dbPath)
}
