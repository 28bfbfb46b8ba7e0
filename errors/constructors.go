package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *DiaryError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *DiaryError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// PayloadInvalid creates an error for a hook payload that is not a JSON object
func PayloadInvalid(err error) *DiaryError {
	return Wrap(err, ErrCodePayloadInvalid, "hook payload is not valid JSON")
}

// SessionNotFound creates a session log not found error
func SessionNotFound(sessionID, path string) *DiaryError {
	return New(ErrCodeSessionNotFound, fmt.Sprintf("session '%s' has no activity log", sessionID)).
		WithDetail("session", sessionID).
		WithDetail("path", path)
}

// SessionWriteFailed creates an error for a failed append to a session log
func SessionWriteFailed(path string, err error) *DiaryError {
	return Wrap(err, ErrCodeSessionWrite, "failed to append to session log").
		WithDetail("path", path)
}

// ProviderUnavailable creates an error for a provider that cannot be used
// (missing credential or client construction failure).
func ProviderUnavailable(provider, reason string) *DiaryError {
	return New(ErrCodeProviderUnavailable, fmt.Sprintf("provider '%s' unavailable: %s", provider, reason)).
		WithDetail("provider", provider)
}

// ProviderFailed creates an error for a provider call that failed
func ProviderFailed(provider string, err error) *DiaryError {
	return Wrap(err, ErrCodeProviderFailed, fmt.Sprintf("provider '%s' call failed", provider)).
		WithDetail("provider", provider)
}

// GenerationFailed creates an error for a prompt no provider could answer
func GenerationFailed(err error) *DiaryError {
	return Wrap(err, ErrCodeGenerationFailed, "no generation provider produced a diary entry")
}

// PostWriteFailed creates an error for a diary post that could not be written
func PostWriteFailed(path string, err error) *DiaryError {
	return Wrap(err, ErrCodePostWrite, "failed to write diary post").
		WithDetail("path", path)
}
