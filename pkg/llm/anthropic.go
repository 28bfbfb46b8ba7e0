package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/grovetools/vibediary/config"
	"github.com/grovetools/vibediary/errors"
)

const defaultAnthropicMaxTokens = 1024

// AnthropicGenerator calls the Anthropic Messages API.
type AnthropicGenerator struct {
	config config.ProviderConfig
}

// NewAnthropicGenerator creates an Anthropic generator. The client is built
// on each call so a missing key costs nothing.
func NewAnthropicGenerator(cfg config.ProviderConfig) *AnthropicGenerator {
	return &AnthropicGenerator{config: cfg}
}

// Name implements Generator.
func (g *AnthropicGenerator) Name() string {
	return config.ProviderAnthropic
}

// Generate implements Generator.
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.config.APIKey == "" {
		return "", errors.ProviderUnavailable(g.Name(), "no API key configured")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(g.config.APIKey),
		option.WithMaxRetries(0),
	}
	if g.config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(g.config.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	maxTokens := g.config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.config.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", errors.ProviderFailed(g.Name(), err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", errors.ProviderFailed(g.Name(), fmt.Errorf("response contained no text"))
	}
	return text.String(), nil
}
