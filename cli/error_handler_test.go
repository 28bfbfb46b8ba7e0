package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/grovetools/vibediary/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config not found", errors.ConfigNotFound("/x/config.yml"), "Configuration not found: /x/config.yml"},
		{"session not found", errors.SessionNotFound("abc", "/s/abc.jsonl"), "Session 'abc' has no activity log"},
		{"wrapped session not found", fmt.Errorf("show: %w", errors.SessionNotFound("abc", "/s/abc.jsonl")), "Session 'abc'"},
		{"generation failed", errors.GenerationFailed(fmt.Errorf("boom")), "ANTHROPIC_API_KEY"},
		{"post write", errors.PostWriteFailed("/p/a.md", fmt.Errorf("denied")), "/p/a.md"},
		{"plain error", fmt.Errorf("something broke"), "Error: something broke"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &ErrorHandler{Out: &buf}
			assert.Equal(t, tt.err, h.Handle(tt.err))
			assert.Contains(t, buf.String(), tt.want)
			assert.NotContains(t, buf.String(), "Error details")
		})
	}
}

func TestErrorHandlerVerbose(t *testing.T) {
	var buf bytes.Buffer
	h := &ErrorHandler{Verbose: true, Out: &buf}
	h.Handle(errors.PostWriteFailed("/p/a.md", fmt.Errorf("denied")))

	assert.Contains(t, buf.String(), "Error details")
	assert.Contains(t, buf.String(), `"code": "POST_WRITE"`)
}

func TestErrorHandlerNil(t *testing.T) {
	assert.NoError(t, NewErrorHandler(false).Handle(nil))
}
