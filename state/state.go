// Package state keeps the generation ledger: which diary posts each session
// produced. The ledger is informational and never gates generation.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/grovetools/vibediary/pkg/paths"
	"gopkg.in/yaml.v3"
)

// Entry records one generated post.
type Entry struct {
	Path        string    `yaml:"path" json:"path"`
	Provider    string    `yaml:"provider" json:"provider"`
	GeneratedAt time.Time `yaml:"generated_at" json:"generated_at"`
}

// State maps a session id to the posts generated for it, oldest first.
type State map[string][]Entry

// Ledger reads and writes the state file at a fixed path.
type Ledger struct {
	path string
}

// NewLedger returns a ledger stored at path.
func NewLedger(path string) *Ledger {
	return &Ledger{path: path}
}

// DefaultLedger returns the ledger in the vibediary home directory.
func DefaultLedger() *Ledger {
	return NewLedger(paths.StateFile())
}

// Path returns the state file location.
func (l *Ledger) Path() string {
	return l.path
}

// Load loads the state from the state file.
// Returns an empty state if the file doesn't exist.
func (l *Ledger) Load() (State, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(State), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}

	if state == nil {
		state = make(State)
	}

	return state, nil
}

// Save writes the state file, replacing it atomically.
func (l *Ledger) Save(state State) error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.yml")
	if err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	return nil
}

// Record appends an entry for sessionID.
func (l *Ledger) Record(sessionID string, entry Entry) error {
	state, err := l.Load()
	if err != nil {
		return err
	}

	state[sessionID] = append(state[sessionID], entry)
	return l.Save(state)
}

// Get returns the entries recorded for sessionID.
func (l *Ledger) Get(sessionID string) ([]Entry, error) {
	state, err := l.Load()
	if err != nil {
		return nil, err
	}
	return state[sessionID], nil
}

// Delete removes a session from the ledger.
func (l *Ledger) Delete(sessionID string) error {
	state, err := l.Load()
	if err != nil {
		return err
	}

	delete(state, sessionID)
	return l.Save(state)
}

// Sessions returns the session ids with at least one entry, sorted.
func (s State) Sessions() []string {
	ids := make([]string, 0, len(s))
	for id, entries := range s {
		if len(entries) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
