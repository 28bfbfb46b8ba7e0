package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/grovetools/vibediary/config"
	"github.com/grovetools/vibediary/errors"
	"google.golang.org/genai"
)

// GeminiGenerator calls the Gemini API through the genai SDK.
type GeminiGenerator struct {
	config config.ProviderConfig
}

// NewGeminiGenerator creates a Gemini generator.
func NewGeminiGenerator(cfg config.ProviderConfig) *GeminiGenerator {
	return &GeminiGenerator{config: cfg}
}

// Name implements Generator.
func (g *GeminiGenerator) Name() string {
	return config.ProviderGemini
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.config.APIKey == "" {
		return "", errors.ProviderUnavailable(g.Name(), "no API key configured")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  g.config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.config.BaseURL != "" {
		clientConfig.HTTPOptions.BaseURL = g.config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return "", errors.ProviderUnavailable(g.Name(), fmt.Sprintf("failed to create client: %v", err))
	}

	var genConfig *genai.GenerateContentConfig
	if g.config.MaxTokens > 0 {
		genConfig = &genai.GenerateContentConfig{MaxOutputTokens: int32(g.config.MaxTokens)}
	}

	resp, err := client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), genConfig)
	if err != nil {
		return "", errors.ProviderFailed(g.Name(), err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.ProviderFailed(g.Name(), fmt.Errorf("response contained no text"))
	}
	return text, nil
}
