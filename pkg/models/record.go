package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RecordType discriminates the lines of a session file.
type RecordType string

const (
	RecordSessionStart RecordType = "session_start"
	RecordActivity     RecordType = "activity"
)

// UnknownProject is the project name used when none can be determined.
const UnknownProject = "unknown"

// SessionStart is written once when a session begins.
type SessionStart struct {
	Timestamp      string `json:"timestamp"`
	SessionID      string `json:"session_id"`
	Project        string `json:"project"`
	Cwd            string `json:"cwd"`
	TranscriptPath string `json:"transcript_path"`
}

// Activity is the summarized form of one tool use. Which detail fields are
// serialized depends on the tool; see DetailKeys.
type Activity struct {
	Timestamp   string   `json:"timestamp"`
	Tool        string   `json:"tool"`
	Action      string   `json:"action"`
	File        string   `json:"file,omitempty"`
	Command     string   `json:"command,omitempty"`
	Description string   `json:"description,omitempty"`
	Pattern     string   `json:"pattern,omitempty"`
	Path        string   `json:"path,omitempty"`
	Query       string   `json:"query,omitempty"`
	InputKeys   []string `json:"input_keys,omitempty"`
	HadError    bool     `json:"had_error,omitempty"`
}

// Detail keys of an activity record.
const (
	KeyFile        = "file"
	KeyCommand     = "command"
	KeyDescription = "description"
	KeyPattern     = "pattern"
	KeyPath        = "path"
	KeyQuery       = "query"
	KeyInputKeys   = "input_keys"
)

// DetailKeys returns the detail fields recorded for a tool, in the order
// they are written. Tools without a dedicated projection record input_keys.
func DetailKeys(tool string) []string {
	switch tool {
	case "Write", "Edit":
		return []string{KeyFile}
	case "Bash":
		return []string{KeyCommand, KeyDescription}
	case "Grep":
		return []string{KeyPattern, KeyPath}
	case "Glob":
		return []string{KeyPattern}
	case "WebSearch", "WebFetch":
		return []string{KeyQuery}
	case "Task":
		return []string{KeyDescription}
	}
	return []string{KeyInputKeys}
}

func (a *Activity) detail(key string) interface{} {
	switch key {
	case KeyFile:
		return a.File
	case KeyCommand:
		return a.Command
	case KeyDescription:
		return a.Description
	case KeyPattern:
		return a.Pattern
	case KeyPath:
		return a.Path
	case KeyQuery:
		return a.Query
	case KeyInputKeys:
		if a.InputKeys == nil {
			return []string{}
		}
		return a.InputKeys
	}
	return nil
}

// Record is one line of a session file. Exactly one of SessionStart and
// Activity is set for the known types; records of any other type keep only
// their type and timestamp.
type Record struct {
	Type         RecordType
	Timestamp    string
	SessionStart *SessionStart
	Activity     *Activity
}

// NewSessionStartRecord wraps s in a Record.
func NewSessionStartRecord(s SessionStart) Record {
	return Record{Type: RecordSessionStart, Timestamp: s.Timestamp, SessionStart: &s}
}

// NewActivityRecord wraps a in a Record.
func NewActivityRecord(a Activity) Record {
	return Record{Type: RecordActivity, Timestamp: a.Timestamp, Activity: &a}
}

// MarshalJSON writes the record with a stable key order.
func (r Record) MarshalJSON() ([]byte, error) {
	var w objectWriter
	switch {
	case r.Type == RecordSessionStart && r.SessionStart != nil:
		s := r.SessionStart
		w.field("type", r.Type)
		w.field("timestamp", s.Timestamp)
		w.field("session_id", s.SessionID)
		w.field("project", s.Project)
		w.field("cwd", s.Cwd)
		w.field("transcript_path", s.TranscriptPath)
	case r.Type == RecordActivity && r.Activity != nil:
		a := r.Activity
		w.field("tool", a.Tool)
		w.field("action", a.Action)
		for _, key := range DetailKeys(a.Tool) {
			w.field(key, a.detail(key))
		}
		if a.HadError {
			w.field("had_error", true)
		}
		w.field("type", r.Type)
		w.field("timestamp", a.Timestamp)
	default:
		w.field("type", r.Type)
		w.field("timestamp", r.Timestamp)
	}
	return w.bytes()
}

// UnmarshalJSON decodes any JSON object. Unknown types are accepted.
func (r *Record) UnmarshalJSON(data []byte) error {
	var head struct {
		Type      interface{} `json:"type"`
		Timestamp interface{} `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return fmt.Errorf("session record is not a JSON object")
	}

	*r = Record{}
	if t, ok := head.Type.(string); ok {
		r.Type = RecordType(t)
	}
	if ts, ok := head.Timestamp.(string); ok {
		r.Timestamp = ts
	}

	switch r.Type {
	case RecordSessionStart:
		// Project defaults to "unknown" only when the key is absent.
		s := SessionStart{Project: UnknownProject}
		if err := json.Unmarshal(data, &lenient{&s}); err != nil {
			return err
		}
		s.Timestamp = r.Timestamp
		r.SessionStart = &s
	case RecordActivity:
		var a Activity
		if err := json.Unmarshal(data, &lenient{&a}); err != nil {
			return err
		}
		a.Timestamp = r.Timestamp
		r.Activity = &a
	}
	return nil
}

// lenient decodes a JSON object into a struct field by field, skipping
// fields whose value has the wrong type instead of failing the whole record.
type lenient struct {
	target interface{}
}

func (l *lenient) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for key, value := range fields {
		single, err := json.Marshal(map[string]json.RawMessage{key: value})
		if err != nil {
			continue
		}
		// A type mismatch leaves the field at its current value.
		_ = json.Unmarshal(single, l.target)
	}
	return nil
}

// objectWriter builds a JSON object with keys in insertion order.
type objectWriter struct {
	buf bytes.Buffer
	err error
	n   int
}

func (w *objectWriter) field(key string, value interface{}) {
	if w.err != nil {
		return
	}
	if w.n == 0 {
		w.buf.WriteByte('{')
	} else {
		w.buf.WriteString(", ")
	}
	w.n++

	k, _ := json.Marshal(key)
	v, err := json.Marshal(value)
	if err != nil {
		w.err = err
		return
	}
	w.buf.Write(k)
	w.buf.WriteString(": ")
	w.buf.Write(v)
}

func (w *objectWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.n == 0 {
		return []byte("{}"), nil
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}

// Line returns the record as a single newline-terminated JSON line.
func (r Record) Line() ([]byte, error) {
	data, err := r.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
