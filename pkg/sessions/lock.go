package sessions

import (
	"bytes"
	"os"
	"time"

	"github.com/grovetools/vibediary/errors"
	"github.com/grovetools/vibediary/pkg/process"
)

const (
	lockRetry      = 10 * time.Millisecond
	lockTimeout    = 2 * time.Second
	lockStaleAfter = 2 * time.Minute
)

// withFileLock runs fn while holding <path>.lock, created exclusively. The
// lock holds a token unique to this acquisition. A lock whose holder has
// exited, or that is older than lockStaleAfter, is assumed abandoned and
// broken.
func withFileLock(path string, timeout time.Duration, fn func() error) error {
	lockPath := path + ".lock"
	token := process.NewOwnerToken()
	start := time.Now()
	for {
		lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			_, _ = lockFile.WriteString(token)
			_ = lockFile.Close()
			defer releaseLock(lockPath, token)
			return fn()
		}
		if !isLockContention(err, lockPath) {
			return errors.Wrap(err, errors.ErrCodeSessionWrite, "failed to acquire session lock").
				WithDetail("lock", lockPath)
		}
		if seen, stale := staleLock(lockPath, time.Now()); stale {
			breakStaleLock(lockPath, seen)
			continue
		}
		if time.Since(start) >= timeout {
			return errors.New(errors.ErrCodeSessionLocked, "timed out waiting for session lock").
				WithDetail("lock", lockPath).
				WithDetail("timeout", timeout.String())
		}
		time.Sleep(lockRetry)
	}
}

// releaseLock removes the lock only while it still holds token. A lock
// broken as stale and re-taken by another writer is left alone.
func releaseLock(lockPath, token string) {
	data, err := os.ReadFile(lockPath)
	if err != nil || string(data) != token {
		return
	}
	_ = os.Remove(lockPath)
}

func isLockContention(acquireErr error, lockPath string) bool {
	if os.IsExist(acquireErr) {
		return true
	}
	if !os.IsPermission(acquireErr) {
		return false
	}
	_, statErr := os.Stat(lockPath)
	return statErr == nil
}

// lockSnapshot identifies one incarnation of a lock file.
type lockSnapshot struct {
	content []byte
	modTime time.Time
}

func (s lockSnapshot) matches(other lockSnapshot) bool {
	return bytes.Equal(s.content, other.content) && s.modTime.Equal(other.modTime)
}

func readLock(lockPath string) (lockSnapshot, bool) {
	info, err := os.Stat(lockPath)
	if err != nil {
		return lockSnapshot{}, false
	}
	data, err := os.ReadFile(lockPath)
	if err != nil {
		return lockSnapshot{}, false
	}
	return lockSnapshot{content: data, modTime: info.ModTime()}, true
}

func staleLock(lockPath string, now time.Time) (lockSnapshot, bool) {
	snap, ok := readLock(lockPath)
	if !ok {
		return lockSnapshot{}, false
	}
	if now.Sub(snap.modTime) > lockStaleAfter {
		return snap, true
	}
	return snap, process.Abandoned(snap.content)
}

// breakStaleLock removes the lock seen as stale, unless it was replaced in
// the meantime. Breakers serialize on <lock>.break so two waiters cannot
// both act on the same observation.
func breakStaleLock(lockPath string, seen lockSnapshot) {
	breakPath := lockPath + ".break"
	guard, err := os.OpenFile(breakPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if info, statErr := os.Stat(breakPath); statErr == nil && time.Since(info.ModTime()) > lockStaleAfter {
			_ = os.Remove(breakPath)
		}
		time.Sleep(lockRetry)
		return
	}
	_ = guard.Close()
	defer os.Remove(breakPath)

	current, ok := readLock(lockPath)
	if !ok || !current.matches(seen) {
		return
	}
	_ = os.Remove(lockPath)
}
