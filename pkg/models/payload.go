package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/grovetools/vibediary/errors"
	"github.com/mitchellh/mapstructure"
)

// HookEvent names the host event that triggered a hook invocation.
type HookEvent string

const (
	EventSessionStart HookEvent = "SessionStart"
	EventPostToolUse  HookEvent = "PostToolUse"
	EventSessionEnd   HookEvent = "SessionEnd"
)

// UnknownSessionID is used when a payload carries no session id.
const UnknownSessionID = "unknown"

// SessionStartPayload is the stdin payload of the session-start hook.
type SessionStartPayload struct {
	SessionID      string    `mapstructure:"session_id"`
	Cwd            string    `mapstructure:"cwd"`
	TranscriptPath string    `mapstructure:"transcript_path"`
	HookEventName  HookEvent `mapstructure:"hook_event_name"`
}

// ToolUsePayload is the stdin payload of the post-tool-use hook.
type ToolUsePayload struct {
	SessionID     string    `mapstructure:"session_id"`
	ToolName      string    `mapstructure:"tool_name"`
	Cwd           string    `mapstructure:"cwd"`
	HookEventName HookEvent `mapstructure:"hook_event_name"`

	// ToolInput is the raw tool_input object; key order is significant.
	ToolInput json.RawMessage `mapstructure:"-"`
	// ToolResponse is the raw tool_response value, which may be any JSON value.
	ToolResponse json.RawMessage `mapstructure:"-"`
}

// SessionEndPayload is the stdin payload of the session-end hook.
type SessionEndPayload struct {
	SessionID     string    `mapstructure:"session_id"`
	Reason        string    `mapstructure:"reason"`
	HookEventName HookEvent `mapstructure:"hook_event_name"`
}

// ParseSessionStart decodes a session-start payload.
func ParseSessionStart(data []byte) (*SessionStartPayload, error) {
	var p SessionStartPayload
	if _, err := decodePayload(data, &p); err != nil {
		return nil, err
	}
	if p.SessionID == "" {
		p.SessionID = UnknownSessionID
	}
	return &p, nil
}

// ParseToolUse decodes a post-tool-use payload, keeping tool_input and
// tool_response as raw JSON.
func ParseToolUse(data []byte) (*ToolUsePayload, error) {
	var p ToolUsePayload
	raw, err := decodePayload(data, &p)
	if err != nil {
		return nil, err
	}
	if p.SessionID == "" {
		p.SessionID = UnknownSessionID
	}
	p.ToolInput = raw["tool_input"]
	p.ToolResponse = raw["tool_response"]
	return &p, nil
}

// ParseSessionEnd decodes a session-end payload.
func ParseSessionEnd(data []byte) (*SessionEndPayload, error) {
	var p SessionEndPayload
	if _, err := decodePayload(data, &p); err != nil {
		return nil, err
	}
	if p.SessionID == "" {
		p.SessionID = UnknownSessionID
	}
	return &p, nil
}

// decodePayload requires data to be a JSON object and decodes its scalar
// fields into target. Scalars of the wrong type are converted to strings
// rather than rejected.
func decodePayload(data []byte, target interface{}) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.PayloadInvalid(err)
	}
	if raw == nil {
		return nil, errors.PayloadInvalid(fmt.Errorf("payload is null"))
	}

	values := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		var v interface{}
		dec := json.NewDecoder(bytes.NewReader(value))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, errors.PayloadInvalid(err)
		}
		switch v.(type) {
		case map[string]interface{}, []interface{}, nil:
			// Only scalars map onto the typed fields.
			continue
		}
		values[key] = v
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payload decoder: %w", err)
	}
	if err := decoder.Decode(values); err != nil {
		return nil, errors.PayloadInvalid(err)
	}
	return raw, nil
}
