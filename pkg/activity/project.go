// Package activity turns tool-use payloads into activity records.
package activity

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/grovetools/vibediary/pkg/models"
	"github.com/mitchellh/mapstructure"
)

const (
	// maxCommandRunes bounds the recorded Bash command.
	maxCommandRunes = 200
	// maxInputKeys bounds the keys recorded for tools without a projection.
	maxInputKeys = 5
	// errorScanRunes is the prefix of the response searched for "error".
	errorScanRunes = 100
)

// Action labels. The label depends only on the tool name.
const (
	ActionCreatedFile   = "created file"
	ActionEditedFile    = "edited file"
	ActionRanCommand    = "ran command"
	ActionSearchedCode  = "searched code"
	ActionFoundFiles    = "found files"
	ActionSearchedWeb   = "searched web"
	ActionFetchedURL    = "fetched url"
	ActionLaunchedAgent = "launched agent"
	ActionUsedTool      = "used tool"
)

// ActionFor returns the action label recorded for a tool.
func ActionFor(tool string) string {
	switch tool {
	case "Write":
		return ActionCreatedFile
	case "Edit":
		return ActionEditedFile
	case "Bash":
		return ActionRanCommand
	case "Grep":
		return ActionSearchedCode
	case "Glob":
		return ActionFoundFiles
	case "WebSearch":
		return ActionSearchedWeb
	case "WebFetch":
		return ActionFetchedURL
	case "Task":
		return ActionLaunchedAgent
	}
	return ActionUsedTool
}

// Project builds the activity record for one tool use. The timestamp is
// left for the caller to set.
func Project(tool string, toolInput, toolResponse json.RawMessage) models.Activity {
	input := decodeInput(toolInput)
	a := models.Activity{
		Tool:   tool,
		Action: ActionFor(tool),
	}

	switch tool {
	case "Write", "Edit":
		a.File = input.text("file_path")
	case "Bash":
		a.Command = truncateRunes(input.text("command"), maxCommandRunes)
		a.Description = input.text("description")
	case "Grep":
		a.Pattern = input.text("pattern")
		a.Path = input.text("path")
	case "Glob":
		a.Pattern = input.text("pattern")
	case "WebSearch", "WebFetch":
		if input.has("query") {
			a.Query = input.text("query")
		} else {
			a.Query = input.text("url")
		}
	case "Task":
		a.Description = input.text("description")
	default:
		keys := OrderedKeys(toolInput)
		if len(keys) > maxInputKeys {
			keys = keys[:maxInputKeys]
		}
		a.InputKeys = keys
	}

	a.HadError = ResponseHasError(toolResponse)
	return a
}

// ResponseHasError reports whether "error" appears in the first 100
// characters of the lowercased response text.
func ResponseHasError(toolResponse json.RawMessage) bool {
	text := ResponseText(toolResponse)
	if text == "" {
		return false
	}
	window := truncateRunes(strings.ToLower(text), errorScanRunes)
	return strings.Contains(window, "error")
}

// ResponseText returns the tool response as text: the string itself for a
// JSON string, the compact JSON for any other value, "" for null or absent.
func ResponseText(toolResponse json.RawMessage) string {
	trimmed := bytes.TrimSpace(toolResponse)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}

// toolInput is the decoded tool_input object.
type toolInput map[string]interface{}

func decodeInput(raw json.RawMessage) toolInput {
	var m map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil || m == nil {
		return toolInput{}
	}
	return m
}

func (in toolInput) has(key string) bool {
	_, ok := in[key]
	return ok
}

// text returns the field as a string. Scalars are converted weakly; objects
// and arrays fall back to their JSON text.
func (in toolInput) text(key string) string {
	v, ok := in[key]
	if !ok || v == nil {
		return ""
	}
	var s string
	if err := mapstructure.WeakDecode(v, &s); err == nil {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
