package mock

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Embedder is a deterministic offline embedder for tests and local runs.
// Each lowercased word is hashed into one dimension, so utterances sharing
// words land close together.
type Embedder struct {
	dimensions int
}

// New creates a mock embedder with the all-MiniLM dimension count
func New() *Embedder {
	return &Embedder{dimensions: 384}
}

// Embed hashes the words of text into a unit vector
func (m *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	embedding := make([]float32, m.dimensions)

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	for _, word := range words {
		h := fnv.New32a()
		h.Write([]byte(word))
		embedding[h.Sum32()%uint32(m.dimensions)]++
	}

	// Empty text still needs a non-zero vector for cosine similarity
	if len(words) == 0 {
		embedding[0] = 1
	}

	return normalize(embedding), nil
}

// Dimensions returns the embedding size
func (m *Embedder) Dimensions() int {
	return m.dimensions
}

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}

	if norm == 0 {
		return vec
	}

	norm = float32(math.Sqrt(float64(norm)))
	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = v / norm
	}
	return normalized
}
