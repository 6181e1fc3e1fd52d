package llm

import (
	"context"
	"fmt"
	"strings"
	"yara_assistant/src/logger"
	appmodel "yara_assistant/src/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicGenerator generates continuations with the Messages API
type AnthropicGenerator struct {
	client      anthropic.Client
	model       string
	maxLength   int
	temperature float64
}

// NewAnthropicGenerator creates a generator. Extra client options (HTTP
// client, base URL) are applied after the configured API key.
func NewAnthropicGenerator(config appmodel.ModelConfig, opts ...option.RequestOption) (*AnthropicGenerator, error) {
	config = Resolve(config)

	var clientOpts []option.RequestOption
	if config.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(config.APIKey))
	}
	if config.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(config.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)

	logger.Info().Str("provider", "anthropic").Str("model", config.Name).Msg("✅ Generation model ready")

	return &AnthropicGenerator{
		client:      anthropic.NewClient(clientOpts...),
		model:       config.Name,
		maxLength:   config.MaxLength,
		temperature: config.Temperature,
	}, nil
}

// Generate sends prompt as a single user message and returns prompt plus the text reply
func (g *AnthropicGenerator) Generate(ctx context.Context, promptText string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = g.maxLength
	}

	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   int64(maxLength),
		Temperature: anthropic.Float(g.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(promptText)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude API error: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return Continue(promptText, text.String()), nil
}
