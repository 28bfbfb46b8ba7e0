// Package llm wraps the text generation providers used to write diary
// entries.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/grovetools/vibediary/config"
	"github.com/grovetools/vibediary/errors"
)

// Generator produces text for a prompt.
type Generator interface {
	// Name returns the provider name used in logs and the ledger.
	Name() string

	// Generate returns the generated text. A generator without
	// credentials returns a PROVIDER_UNAVAILABLE error without making a
	// network call.
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewGenerator creates the generator for a named provider.
func NewGenerator(name string, cfg config.ProviderConfig) (Generator, error) {
	switch name {
	case config.ProviderAnthropic:
		return NewAnthropicGenerator(cfg), nil
	case config.ProviderGemini:
		return NewGeminiGenerator(cfg), nil
	case config.ProviderOpenAI:
		return NewOpenAIGenerator(cfg), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unsupported provider: %s", name))
	}
}

// NewGenerators creates one generator per entry of cfg.Order, in order.
func NewGenerators(cfg config.ProvidersConfig) ([]Generator, error) {
	generators := make([]Generator, 0, len(cfg.Order))
	for _, name := range cfg.Order {
		name = strings.ToLower(strings.TrimSpace(name))
		settings, ok := cfg.Provider(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unsupported provider: %s", name))
		}
		g, err := NewGenerator(name, settings)
		if err != nil {
			return nil, err
		}
		generators = append(generators, g)
	}
	return generators, nil
}
