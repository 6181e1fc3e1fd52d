package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"yara_assistant/src/llm/mock"
	"yara_assistant/src/logger"
	appmodel "yara_assistant/src/model"

	"github.com/ollama/ollama/api"
)

// Embedder turns text into a fixed-size vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// OllamaEmbedder calls the Ollama embeddings endpoint
type OllamaEmbedder struct {
	client     *api.Client
	model      string
	dimensions atomic.Int64
}

// NewOllamaEmbedder creates an embedder for model served at baseURL
func NewOllamaEmbedder(baseURL, model string) (*OllamaEmbedder, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "all-minilm"
	}

	uri, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL: %w", err)
	}

	return &OllamaEmbedder{
		client: api.NewClient(uri, http.DefaultClient),
		model:  model,
	}, nil
}

// Embed encodes text with the configured model
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	req := &api.EmbeddingRequest{
		Model:  e.model,
		Prompt: text,
	}
	resp, err := e.client.Embeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("ollama embeddings: empty vector for model %s", e.model)
	}

	vec := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vec[i] = float32(v)
	}
	e.dimensions.Store(int64(len(vec)))
	return vec, nil
}

// Dimensions returns the vector size seen so far, 0 before the first call
func (e *OllamaEmbedder) Dimensions() int {
	return int(e.dimensions.Load())
}

// NewEmbedder builds the configured embedder, wrapped in the in-process
// cache and, when l2 is non-nil, the shared cache. It returns (nil, nil)
// when semantic scoring is disabled.
func NewEmbedder(config appmodel.EmbeddingConfig, l2 VectorStore) (Embedder, error) {
	var base Embedder
	switch config.Provider {
	case "", "none":
		logger.Info().Msg("💤 Embeddings disabled, pattern scoring only")
		return nil, nil
	case "mock":
		base = mock.New()
	case "ollama":
		e, err := NewOllamaEmbedder(config.BaseURL, config.Model)
		if err != nil {
			return nil, err
		}
		base = e
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", config.Provider)
	}

	cached, err := NewCachedEmbedder(base, config.Provider+":"+config.Model, CacheOptions{
		MaxCost: config.CacheSize,
		TTL:     config.CacheTTL,
		L2:      l2,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("provider", config.Provider).Str("model", config.Model).Msg("✅ Embedder ready")
	return cached, nil
}
