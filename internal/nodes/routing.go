package nodes

import (
	"context"
	"yara_assistant/internal/core"
	"yara_assistant/internal/services"
	"yara_assistant/pkg"
	"yara_assistant/src/logger"
)

// LowConfidenceNode falls back when the classifier is unsure
type LowConfidenceNode struct {
	threshold float64
}

func NewLowConfidenceNode(threshold float64) *LowConfidenceNode {
	return &LowConfidenceNode{threshold: threshold}
}

func (l *LowConfidenceNode) Execute(ctx context.Context, turn *core.Turn) (core.NodeOutput, error) {
	if turn.Intent.Confidence >= l.threshold {
		return core.NodeOutput{}, nil
	}

	logger.Debug().
		Float64("confidence", turn.Intent.Confidence).
		Float64("threshold", l.threshold).
		Msg("🤷 Low confidence, using fallback")
	return turn.Respond(Fallback(turn.Intent.Label, turn.Utterance), pkg.SourceFallback), nil
}

func (l *LowConfidenceNode) GetName() string {
	return "low_confidence"
}

func (l *LowConfidenceNode) GetType() core.NodeType {
	return core.NodeTypeFallback
}

// ForcedFallbackNode answers conversational and memory intents from the canned
// table, and data intents when no store is connected.
type ForcedFallbackNode struct {
	data services.BusinessData
}

func NewForcedFallbackNode(data services.BusinessData) *ForcedFallbackNode {
	if data == nil {
		data = services.Unavailable{}
	}
	return &ForcedFallbackNode{data: data}
}

func (f *ForcedFallbackNode) Execute(ctx context.Context, turn *core.Turn) (core.NodeOutput, error) {
	label := turn.Intent.Label
	if !conversational(label) && !(label.IsDatabase() && !f.data.Available()) {
		return core.NodeOutput{}, nil
	}
	return turn.Respond(Fallback(label, turn.Utterance), pkg.SourceFallback), nil
}

func (f *ForcedFallbackNode) GetName() string {
	return "forced_fallback"
}

func (f *ForcedFallbackNode) GetType() core.NodeType {
	return core.NodeTypeFallback
}
