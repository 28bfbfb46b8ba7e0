// Package sessions stores per-session activity logs as append-only JSONL files.
package sessions

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/grovetools/vibediary/errors"
	"github.com/grovetools/vibediary/pkg/models"
	"github.com/grovetools/vibediary/util/sanitize"
)

// Extension is the file extension of session logs.
const Extension = ".jsonl"

// Store manages the session logs in one directory.
type Store struct {
	dir         string
	lockTimeout time.Duration
}

// NewStore returns a store rooted at dir. The directory is created lazily on
// the first append.
func NewStore(dir string) *Store {
	return &Store{dir: dir, lockTimeout: lockTimeout}
}

// Dir returns the directory holding the session logs.
func (s *Store) Dir() string {
	return s.dir
}

// FileName returns the log file name for a session id. The id is reduced to
// a single safe path component.
func FileName(sessionID string) string {
	return sanitize.ForPathComponent(sessionID, models.UnknownSessionID) + Extension
}

// Path returns the log path for a session id.
func (s *Store) Path(sessionID string) string {
	return filepath.Join(s.dir, FileName(sessionID))
}

// Exists reports whether a log file exists for the session.
func (s *Store) Exists(sessionID string) bool {
	info, err := os.Stat(s.Path(sessionID))
	return err == nil && !info.IsDir()
}

// Append writes one record as a single line, creating the directory and
// file if needed. Concurrent appenders are serialized by a lock file.
func (s *Store) Append(sessionID string, rec models.Record) error {
	line, err := rec.Line()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to encode session record")
	}

	path := s.Path(sessionID)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.SessionWriteFailed(path, err)
	}

	return withFileLock(path, s.lockTimeout, func() error {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return errors.SessionWriteFailed(path, err)
		}
		defer file.Close()

		if _, err := file.Write(line); err != nil {
			return errors.SessionWriteFailed(path, err)
		}
		if err := file.Sync(); err != nil {
			return errors.SessionWriteFailed(path, err)
		}
		return nil
	})
}

// Log is the parsed content of a session file.
type Log struct {
	SessionID string
	Path      string
	Records   []models.Record
	// Malformed counts lines that were not valid records and were skipped.
	Malformed int
}

// Read parses every line of the session log. Malformed lines are skipped.
// The file is never modified.
func (s *Store) Read(sessionID string) (*Log, error) {
	path := s.Path(sessionID)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.SessionNotFound(sessionID, path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to open session log").
			WithDetail("path", path)
	}
	defer file.Close()

	log := &Log{SessionID: sessionID, Path: path}
	if err := ReadRecords(file, func(rec models.Record) {
		log.Records = append(log.Records, rec)
	}, func() {
		log.Malformed++
	}); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read session log").
			WithDetail("path", path)
	}
	return log, nil
}

// ReadRecords scans r line by line, calling onRecord for each valid record
// and onMalformed (if set) for each non-blank line that is not one.
func ReadRecords(r io.Reader, onRecord func(models.Record), onMalformed func()) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			if rec, ok := ParseLine(line); ok {
				onRecord(rec)
			} else if onMalformed != nil {
				onMalformed()
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// ParseLine decodes one session file line.
func ParseLine(line []byte) (models.Record, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return models.Record{}, false
	}
	var rec models.Record
	if err := json.Unmarshal(line, &rec); err != nil {
		return models.Record{}, false
	}
	return rec, true
}

// Info describes a session file on disk.
type Info struct {
	SessionID string    `json:"session_id"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"mod_time"`
}

// List returns the session files in the store, most recently modified first.
// A missing directory yields an empty list.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	infos := make([]Info, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, Extension) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			SessionID: strings.TrimSuffix(name, Extension),
			Path:      filepath.Join(s.dir, name),
			Size:      fi.Size(),
			ModTime:   fi.ModTime(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ModTime.After(infos[j].ModTime)
	})
	return infos, nil
}
