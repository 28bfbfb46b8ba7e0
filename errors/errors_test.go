package errors

import (
	"fmt"
	"testing"
)

func TestDiaryError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeSessionNotFound, "session not found")
	if err.Code != ErrCodeSessionNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeSessionNotFound, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeSessionWrite, "append failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeSessionWrite) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeSessionNotFound) {
		t.Error("Is should return false for non-matching code")
	}

	// Test Is through fmt wrapping
	if !Is(fmt.Errorf("context: %w", wrapped), ErrCodeSessionWrite) {
		t.Error("Is should see through fmt.Errorf wrapping")
	}

	// Test WithDetail
	detailed := err.WithDetail("session", "abc").WithDetail("records", 2)
	if detailed.Details["session"] != "abc" {
		t.Error("WithDetail should add details")
	}
}

func TestNestedCodes(t *testing.T) {
	inner := ProviderUnavailable("anthropic", "ANTHROPIC_API_KEY not set")
	outer := GenerationFailed(inner)

	if GetCode(outer) != ErrCodeGenerationFailed {
		t.Errorf("expected outer code %s, got %s", ErrCodeGenerationFailed, GetCode(outer))
	}
	if !Is(outer, ErrCodeProviderUnavailable) {
		t.Error("Is should match a wrapped DiaryError code")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := SessionNotFound("abc", "/tmp/abc.jsonl")
	if err.Code != ErrCodeSessionNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeSessionNotFound, err.Code)
	}
	if err.Details["path"] != "/tmp/abc.jsonl" {
		t.Error("SessionNotFound should include path detail")
	}

	err = ProviderFailed("gemini", fmt.Errorf("boom"))
	if err.Code != ErrCodeProviderFailed {
		t.Errorf("expected code %s, got %s", ErrCodeProviderFailed, err.Code)
	}
	if err.Details["provider"] != "gemini" {
		t.Error("ProviderFailed should include provider detail")
	}
}
