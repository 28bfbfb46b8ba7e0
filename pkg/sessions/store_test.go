package sessions

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/grovetools/vibediary/errors"
	"github.com/grovetools/vibediary/pkg/diary"
	"github.com/grovetools/vibediary/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activity(tool string) models.Record {
	return models.NewActivityRecord(models.Activity{
		Timestamp: "2026-10-17T09:00:00.000000",
		Tool:      tool,
		Action:    "created file",
		File:      "main.go",
	})
}

func TestAppendCreatesDirectoryAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "sessions")
	store := NewStore(dir)

	require.NoError(t, store.Append("abc", activity("Write")))
	require.NoError(t, store.Append("abc", activity("Write")))

	data, err := os.ReadFile(filepath.Join(dir, "abc.jsonl"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, store.Exists("abc"))

	_, err = os.Stat(filepath.Join(dir, "abc.jsonl.lock"))
	assert.True(t, os.IsNotExist(err), "lock file must be released")
}

func TestReadSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	content := `{"type": "session_start", "timestamp": "2026-10-17T09:00:00", "session_id": "abc", "project": "api", "cwd": "/x/api", "transcript_path": ""}
this is not json

[1, 2, 3]
{"tool": "Bash", "action": "ran command", "command": "make", "description": "", "type": "activity", "timestamp": "2026-10-17T09:05:00"}
{"type": "custom", "timestamp": "2026-10-17T09:06:00"}
{"truncated": `
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.jsonl"), []byte(content), 0o644))

	log, err := NewStore(dir).Read("abc")
	require.NoError(t, err)
	require.Len(t, log.Records, 3)
	assert.Equal(t, 3, log.Malformed)
	assert.Equal(t, models.RecordSessionStart, log.Records[0].Type)
	assert.Equal(t, "api", log.Records[0].SessionStart.Project)
	assert.Equal(t, "make", log.Records[1].Activity.Command)
	assert.Equal(t, models.RecordType("custom"), log.Records[2].Type)
}

func TestReadIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Append("abc", models.NewSessionStartRecord(models.SessionStart{
		Timestamp: "2026-10-17T09:00:00.000000",
		SessionID: "abc",
		Project:   "api",
		Cwd:       "/src/api",
	})))
	require.NoError(t, store.Append("abc", models.NewActivityRecord(models.Activity{
		Timestamp: "2026-10-17T09:02:00.000000", Tool: "Write", Action: "created file", File: "main.go",
	})))
	require.NoError(t, store.Append("abc", models.NewActivityRecord(models.Activity{
		Timestamp: "2026-10-17T09:05:00.000000", Tool: "Bash", Action: "ran command", Command: "go test ./...", HadError: true,
	})))
	before, err := os.ReadFile(store.Path("abc"))
	require.NoError(t, err)

	first, err := store.Read("abc")
	require.NoError(t, err)
	second, err := store.Read("abc")
	require.NoError(t, err)

	after, err := os.ReadFile(store.Path("abc"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, first.Records, second.Records)

	firstDigest := diary.Analyze(first.Records)
	assert.Equal(t, firstDigest, diary.Analyze(second.Records))
	assert.Equal(t, "5 minutes", firstDigest.Duration)
	assert.Equal(t, "- Created file: main.go\n- Ran command: go test ./...\n  (encountered an error)", firstDigest.Summary)
}

func TestReadMissingSession(t *testing.T) {
	_, err := NewStore(t.TempDir()).Read("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeSessionNotFound))
}

func TestSessionIDIsSanitized(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	assert.Equal(t, filepath.Join(dir, "..-..-etc.jsonl"), store.Path("../../etc"))
	assert.Equal(t, filepath.Join(dir, "unknown.jsonl"), store.Path(""))
}

func TestConcurrentAppends(t *testing.T) {
	store := NewStore(t.TempDir())

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := models.NewActivityRecord(models.Activity{
				Timestamp: "t", Tool: "Write", Action: "created file", File: fmt.Sprintf("f%d.go", i),
			})
			errs <- store.Append("abc", rec)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	log, err := store.Read("abc")
	require.NoError(t, err)
	assert.Len(t, log.Records, writers)
	assert.Zero(t, log.Malformed)
}

func TestLockTimeout(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	store.lockTimeout = 50 * time.Millisecond

	require.NoError(t, os.WriteFile(store.Path("abc")+".lock", nil, 0o600))

	err := store.Append("abc", activity("Write"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeSessionLocked))
}

func TestStaleLockIsRecovered(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	lockPath := store.Path("abc") + ".lock"

	require.NoError(t, os.WriteFile(lockPath, nil, 0o600))
	old := time.Now().Add(-3 * time.Minute)
	require.NoError(t, os.Chtimes(lockPath, old, old))

	require.NoError(t, store.Append("abc", activity("Write")))
	assert.True(t, store.Exists("abc"))
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, store.Append("older", activity("Write")))
	require.NoError(t, store.Append("newer", activity("Write")))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(store.Path("older"), past, past))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	infos, err := store.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "newer", infos[0].SessionID)
	assert.Equal(t, "older", infos[1].SessionID)

	empty, err := NewStore(filepath.Join(dir, "missing")).List()
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLockOfExitedProcessIsRecovered(t *testing.T) {
	store := NewStore(t.TempDir())

	holder := exec.Command("true")
	require.NoError(t, holder.Run())
	require.NoError(t, os.WriteFile(store.Path("abc")+".lock", []byte(strconv.Itoa(holder.Process.Pid)), 0o600))

	require.NoError(t, store.Append("abc", activity("Write")))
	assert.True(t, store.Exists("abc"))
}
