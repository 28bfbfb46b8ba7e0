package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/grovetools/vibediary/config"
	"github.com/grovetools/vibediary/errors"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIGenerator calls the OpenAI Chat Completions API.
type OpenAIGenerator struct {
	config config.ProviderConfig
}

// NewOpenAIGenerator creates an OpenAI generator.
func NewOpenAIGenerator(cfg config.ProviderConfig) *OpenAIGenerator {
	return &OpenAIGenerator{config: cfg}
}

// Name implements Generator.
func (g *OpenAIGenerator) Name() string {
	return config.ProviderOpenAI
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
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
	client := openai.NewClient(opts...)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if g.config.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(g.config.MaxTokens))
	}

	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errors.ProviderFailed(g.Name(), err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.ProviderFailed(g.Name(), fmt.Errorf("response contained no choices"))
	}

	text := completion.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", errors.ProviderFailed(g.Name(), fmt.Errorf("response contained no text"))
	}
	return text, nil
}
