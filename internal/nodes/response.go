package nodes

import (
	"context"
	"time"
	"yara_assistant/internal/core"
	"yara_assistant/pkg"
	"yara_assistant/src/conversation"
	"yara_assistant/src/llm"
	"yara_assistant/src/logger"
)

// GenerationNode produces a free-form reply with the generator. Every failure
// (no generator, model error, rejected candidate) ends in the fallback text.
type GenerationNode struct {
	generator llm.Generator
	validator *Validator
	strategy  conversation.ContextStrategy
	timeout   time.Duration
}

// NewGenerationNode creates the last node of the chain. generator may be nil.
func NewGenerationNode(generator llm.Generator, validator *Validator, timeout time.Duration) *GenerationNode {
	if validator == nil {
		validator = NewValidator(true, DefaultMinResponseLength, DefaultMaxResponseLength)
	}
	return &GenerationNode{
		generator: generator,
		validator: validator,
		strategy:  conversation.NewPromptStrategy(),
		timeout:   timeout,
	}
}

func (g *GenerationNode) Execute(ctx context.Context, turn *core.Turn) (core.NodeOutput, error) {
	fallback := func(reason string) core.NodeOutput {
		output := turn.Respond(Fallback(turn.Intent.Label, turn.Utterance), pkg.SourceFallback)
		output.Data["reason"] = reason
		return output
	}

	if g.generator == nil {
		return fallback("no_generator"), nil
	}

	prompt := BuildPrompt(PromptInput{
		Utterance: turn.Utterance,
		Context:   turn.Context,
		Memory:    turn.Session.Memory.Context(),
		History:   turn.Session.History.Context(g.strategy),
	})

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	startTime := time.Now()
	output, err := g.generator.Generate(ctx, prompt, MaxLength(prompt))
	if err != nil {
		logger.Warn().Err(err).Msg("⚠️ Generation failed, using fallback")
		turn.Errors = append(turn.Errors, "generation: "+err.Error())
		return fallback("error"), nil
	}

	candidate := ExtractResponse(output)
	if !g.validator.IsValid(candidate, turn.Utterance, turn.Intent.Label) {
		logger.Debug().Str("candidate", candidate).Msg("🚫 Generated response rejected")
		return fallback("invalid"), nil
	}

	logger.Debug().
		Int("length", len(candidate)).
		Dur("elapsed", time.Since(startTime)).
		Msg("✅ Response generated")
	return turn.Respond(candidate, pkg.SourceGenerated), nil
}

func (g *GenerationNode) GetName() string {
	return "generation"
}

func (g *GenerationNode) GetType() core.NodeType {
	return core.NodeTypeGeneration
}
