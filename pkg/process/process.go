// Package process identifies the process holding a lock file.
package process

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
)

// IsProcessAlive checks if a process with the given PID is still running.
// Sending signal 0 probes for existence without delivering anything; EPERM
// still means the process exists.
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	return err == nil || os.IsPermission(err)
}

// NewOwnerToken returns the content a lock holder writes into its lock
// file: the current pid followed by a random UUID, so two holders in the
// same process never share a token.
func NewOwnerToken() string {
	return fmt.Sprintf("%d %s\n", os.Getpid(), uuid.NewString())
}

// ParseOwner reads the pid from lock file content. ok is false when the
// content is empty or does not start with a valid pid.
func ParseOwner(data []byte) (pid int, ok bool) {
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, false
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// Abandoned reports whether lock content names an owner that is no longer
// running. Content without a recorded owner is never considered abandoned.
func Abandoned(data []byte) bool {
	pid, ok := ParseOwner(data)
	return ok && !IsProcessAlive(pid)
}
