package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/vibediary/config"
	"github.com/grovetools/vibediary/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}

	out := h.Out
	if out == nil {
		out = os.Stderr
	}

	diaryErr := asDiaryError(err)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(out, "❌ Configuration not found: %v\n", detail(diaryErr, "path"))
		fmt.Fprintf(out, "Run 'vibediary config show' to see the defaults in effect.\n")

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(out, "❌ Invalid configuration: %v\n", err)
		fmt.Fprintf(out, "Run 'vibediary config validate' for details.\n")

	case errors.ErrCodeSessionNotFound:
		fmt.Fprintf(out, "❌ Session '%v' has no activity log\n", detail(diaryErr, "session"))
		fmt.Fprintf(out, "Run 'vibediary sessions list' to see recorded sessions.\n")

	case errors.ErrCodeGenerationFailed, errors.ErrCodeProviderUnavailable:
		fmt.Fprintf(out, "❌ No generation provider produced a diary entry\n")
		fmt.Fprintf(out, "Set %s, %s or %s and check providers.order.\n",
			config.EnvAnthropicKey, config.EnvGeminiKey, config.EnvOpenAIKey)

	case errors.ErrCodePostWrite:
		fmt.Fprintf(out, "❌ Could not write the diary post to %v\n", detail(diaryErr, "path"))

	default:
		// Generic error handling
		fmt.Fprintf(out, "❌ Error: %v\n", err)
	}

	// If verbose mode, show full error details
	if h.Verbose && diaryErr != nil {
		fmt.Fprintf(out, "\nError details:\n%s\n", diaryErr.ToJSON())
	}
	return err
}

func asDiaryError(err error) *errors.DiaryError {
	for err != nil {
		if de, ok := err.(*errors.DiaryError); ok {
			return de
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil
		}
		err = unwrapper.Unwrap()
	}
	return nil
}

func detail(err *errors.DiaryError, key string) interface{} {
	if err == nil || err.Details == nil {
		return "unknown"
	}
	if v, ok := err.Details[key]; ok {
		return v
	}
	return "unknown"
}
