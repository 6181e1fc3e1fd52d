package nodes

import (
	"context"
	"yara_assistant/internal/core"
	"yara_assistant/pkg"
)

// IntentClassifier decides the intent of one utterance
type IntentClassifier interface {
	Classify(ctx context.Context, text string) pkg.IntentResult
	Threshold() float64
}

// NLUNode classifies the utterance. It never completes the turn.
type NLUNode struct {
	classifier IntentClassifier
}

func NewNLUNode(classifier IntentClassifier) *NLUNode {
	return &NLUNode{classifier: classifier}
}

func (n *NLUNode) Execute(ctx context.Context, turn *core.Turn) (core.NodeOutput, error) {
	turn.Intent = n.classifier.Classify(ctx, turn.Utterance)
	turn.Classified = true

	return core.NodeOutput{
		Data: map[string]any{
			"intent":     turn.Intent.Label,
			"confidence": turn.Intent.Confidence,
		},
	}, nil
}

func (n *NLUNode) GetName() string {
	return "nlu"
}

func (n *NLUNode) GetType() core.NodeType {
	return core.NodeTypeNLU
}
