// Package llm adapts external model providers to the generation and
// embedding capabilities the decision engine consumes.
package llm

import (
	"context"
	"fmt"
	"strings"
	"yara_assistant/src/logger"
	appmodel "yara_assistant/src/model"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// Generator produces a continuation of prompt. The returned text contains the
// prompt followed by the continuation, bounded by maxLength.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxLength int) (string, error)
}

// SizePreset is the generation budget and sampling temperature for a model size
type SizePreset struct {
	MaxLength   int
	Temperature float64
}

// SizePresets maps the configured model size to its defaults
var SizePresets = map[string]SizePreset{
	"small":  {MaxLength: 512, Temperature: 0.7},
	"medium": {MaxLength: 1024, Temperature: 0.7},
	"large":  {MaxLength: 2048, Temperature: 0.7},
}

// defaultModels is used when no model name is configured
var defaultModels = map[string]string{
	"openai":    "gpt-4o-mini",
	"ollama":    "llama3.2",
	"deepseek":  "deepseek-chat",
	"anthropic": "claude-3-5-haiku-latest",
}

// Resolve fills model name, max length and temperature from the size preset
// and provider defaults where the config leaves them unset.
func Resolve(config appmodel.ModelConfig) appmodel.ModelConfig {
	preset, ok := SizePresets[config.Size]
	if !ok {
		preset = SizePresets["small"]
	}
	if config.MaxLength <= 0 {
		config.MaxLength = preset.MaxLength
	}
	if config.Temperature <= 0 {
		config.Temperature = preset.Temperature
	}
	if config.Name == "" {
		config.Name = defaultModels[config.Provider]
	}
	return config
}

// NewGenerator builds the generator for the configured provider. It returns
// (nil, nil) when generation is disabled.
func NewGenerator(ctx context.Context, config appmodel.ModelConfig) (Generator, error) {
	config = Resolve(config)

	switch config.Provider {
	case "", "none":
		logger.Info().Msg("💤 Generation disabled, fallbacks only")
		return nil, nil
	case "anthropic":
		return NewAnthropicGenerator(config)
	}

	chatModel, err := NewChatModel(ctx, config)
	if err != nil {
		return nil, err
	}
	return NewChatGenerator(ctx, chatModel, config)
}

// NewChatModel creates the eino chat model for the configured provider
func NewChatModel(ctx context.Context, config appmodel.ModelConfig) (model.BaseChatModel, error) {
	config = Resolve(config)

	switch config.Provider {
	case "openai":
		maxTokens := config.MaxLength
		temperature := float32(config.Temperature)
		m, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      config.APIKey,
			BaseURL:     config.BaseURL,
			Model:       config.Name,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating openai chat model: %w", err)
		}
		return m, nil

	case "ollama":
		baseURL := config.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		m, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   config.Name,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating ollama chat model: %w", err)
		}
		return m, nil

	case "deepseek":
		m, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:  config.APIKey,
			BaseURL: config.BaseURL,
			Model:   config.Name,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating deepseek chat model: %w", err)
		}
		return m, nil

	case "ark":
		m, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
			APIKey:  config.APIKey,
			BaseURL: config.BaseURL,
			Model:   config.Name,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating ark chat model: %w", err)
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unsupported model provider: %s", config.Provider)
	}
}

// ChatGenerator runs prompts through an eino Template → ChatModel chain
type ChatGenerator struct {
	chain       compose.Runnable[map[string]any, *schema.Message]
	temperature float32
	maxLength   int
}

// NewChatGenerator compiles the generation chain once
func NewChatGenerator(ctx context.Context, chatModel model.BaseChatModel, config appmodel.ModelConfig) (*ChatGenerator, error) {
	config = Resolve(config)

	template := prompt.FromMessages(schema.FString, schema.UserMessage("{prompt}"))

	// Create the Eino chain: Template → ChatModel
	chain, err := compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(template).
		AppendChatModel(chatModel).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating Eino chain: %w", err)
	}

	logger.Info().Str("provider", config.Provider).Str("model", config.Name).Msg("✅ Generation model ready")

	return &ChatGenerator{
		chain:       chain,
		temperature: float32(config.Temperature),
		maxLength:   config.MaxLength,
	}, nil
}

// Generate invokes the chain once and returns prompt plus continuation
func (g *ChatGenerator) Generate(ctx context.Context, promptText string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = g.maxLength
	}

	result, err := g.chain.Invoke(ctx,
		map[string]any{"prompt": promptText},
		compose.WithChatModelOption(
			model.WithMaxTokens(maxLength),
			model.WithTemperature(g.temperature),
		),
	)
	if err != nil {
		return "", fmt.Errorf("error generating response: %w", err)
	}
	return Continue(promptText, result.Content), nil
}

// Continue appends a model continuation to its prompt
func Continue(promptText, continuation string) string {
	return promptText + " " + strings.TrimSpace(continuation)
}
