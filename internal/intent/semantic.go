package intent

import (
	"context"
	"fmt"
	"sync"
	"yara_assistant/pkg"
	"yara_assistant/src/logger"

	chromem "github.com/philippgille/chromem-go"
)

// SemanticWeight scales the best exemplar similarity of each intent
const SemanticWeight = 0.7

// Embedder turns text into a fixed-size vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SemanticScorer scores utterances by cosine similarity to exemplar utterances.
// Exemplar vectors are encoded on first use and kept in an in-process chromem
// index with one collection per intent.
type SemanticScorer struct {
	embedder Embedder

	mu          sync.Mutex
	db          *chromem.DB
	collections map[pkg.Intent]*chromem.Collection
}

// NewSemanticScorer creates a scorer. A nil embedder produces a scorer that
// is not Available and contributes nothing.
func NewSemanticScorer(embedder Embedder) *SemanticScorer {
	return &SemanticScorer{embedder: embedder}
}

// Available reports whether an embedding capability was supplied
func (s *SemanticScorer) Available() bool {
	return s != nil && s.embedder != nil
}

// Score returns SemanticWeight times the best exemplar similarity per intent.
// Any failure degrades to an empty map.
func (s *SemanticScorer) Score(ctx context.Context, text string) map[pkg.Intent]float64 {
	scores := make(map[pkg.Intent]float64)
	if !s.Available() {
		return scores
	}

	collections, err := s.index(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("⚠️ Semantic similarity unavailable")
		return scores
	}

	query, err := s.embedder.Embed(ctx, text)
	if err != nil {
		logger.Warn().Err(err).Msg("⚠️ Semantic similarity failed")
		return scores
	}

	for _, intent := range pkg.AllIntents {
		col, ok := collections[intent]
		if !ok {
			continue
		}
		results, err := col.QueryEmbedding(ctx, query, 1, nil, nil)
		if err != nil {
			logger.Warn().Err(err).Str("intent", string(intent)).Msg("⚠️ Semantic similarity failed")
			return make(map[pkg.Intent]float64)
		}
		if len(results) == 0 {
			continue
		}
		scores[intent] = float64(results[0].Similarity) * SemanticWeight
	}
	return scores
}

// Warmup builds the exemplar index ahead of the first request
func (s *SemanticScorer) Warmup(ctx context.Context) error {
	if !s.Available() {
		return nil
	}
	_, err := s.index(ctx)
	return err
}

// index encodes every exemplar once. A failed build is retried on the next call.
func (s *SemanticScorer) index(ctx context.Context) (map[pkg.Intent]*chromem.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections != nil {
		return s.collections, nil
	}

	db := chromem.NewDB()
	collections := make(map[pkg.Intent]*chromem.Collection, len(exemplars))

	for _, intent := range pkg.AllIntents {
		utterances := exemplars[intent]
		if len(utterances) == 0 {
			continue
		}

		// Embeddings are always supplied, so no embedding func is configured
		col, err := db.CreateCollection(string(intent), nil, nil)
		if err != nil {
			return nil, fmt.Errorf("create collection %s: %w", intent, err)
		}

		for i, utterance := range utterances {
			vector, err := s.embedder.Embed(ctx, utterance)
			if err != nil {
				return nil, fmt.Errorf("encode exemplar %q: %w", utterance, err)
			}
			doc := chromem.Document{
				ID:        fmt.Sprintf("%s-%d", intent, i),
				Content:   utterance,
				Embedding: vector,
				Metadata:  map[string]string{"intent": string(intent)},
			}
			if err := col.AddDocument(ctx, doc); err != nil {
				return nil, fmt.Errorf("add exemplar %q: %w", utterance, err)
			}
		}
		collections[intent] = col
	}

	s.db = db
	s.collections = collections
	logger.Info().Int("intents", len(collections)).Msg("✅ Exemplar index built")
	return collections, nil
}
