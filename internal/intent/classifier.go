package intent

import (
	"context"
	"yara_assistant/pkg"
	"yara_assistant/src/logger"
)

// DefaultThreshold is the minimum confidence an intent needs to be returned
const DefaultThreshold = 0.7

// Classifier fuses pattern and semantic scores into one intent decision
type Classifier struct {
	pattern   *PatternScorer
	semantic  *SemanticScorer
	threshold float64
}

// NewClassifier creates a classifier. A nil embedder disables semantic scoring.
func NewClassifier(embedder Embedder, threshold float64) *Classifier {
	return &Classifier{
		pattern:   NewPatternScorer(),
		semantic:  NewSemanticScorer(embedder),
		threshold: threshold,
	}
}

// Threshold returns the configured confidence threshold
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Semantic returns the embedding-backed scorer
func (c *Classifier) Semantic() *SemanticScorer {
	return c.semantic
}

// Classify sums the per-intent scores of both scorers and returns the best
// intent with confidence capped at 1.0. A best guess below the threshold is
// discarded and the flat default (general_chat, 0.5) is returned instead.
func (c *Classifier) Classify(ctx context.Context, text string) pkg.IntentResult {
	merged := Merge(c.pattern.Score(text), c.semantic.Score(ctx, text))
	if len(merged) == 0 {
		return pkg.DefaultIntentResult
	}

	best, score := argmax(merged)
	confidence := min(score, 1.0)

	logger.Debug().
		Str("intent", string(best)).
		Float64("confidence", confidence).
		Msg("🎯 Intent scored")

	if confidence >= c.threshold {
		return pkg.IntentResult{Label: best, Confidence: confidence}
	}
	return pkg.DefaultIntentResult
}

// Merge sums score maps per intent. An intent present in only one map keeps its value.
func Merge(maps ...map[pkg.Intent]float64) map[pkg.Intent]float64 {
	merged := make(map[pkg.Intent]float64)
	for _, m := range maps {
		for intent, score := range m {
			merged[intent] += score
		}
	}
	return merged
}

// argmax picks the highest score; ties go to the intent declared first
func argmax(scores map[pkg.Intent]float64) (pkg.Intent, float64) {
	var (
		best  pkg.Intent
		score float64
		found bool
	)
	for _, intent := range pkg.AllIntents {
		s, ok := scores[intent]
		if !ok {
			continue
		}
		if !found || s > score {
			best, score, found = intent, s, true
		}
	}
	return best, score
}
