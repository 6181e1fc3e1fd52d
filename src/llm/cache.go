package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
	"yara_assistant/src/logger"
	"yara_assistant/src/storage"

	"github.com/dgraph-io/ristretto"
)

// VectorStore is a shared second-level vector cache
type VectorStore interface {
	GetVector(ctx context.Context, hash string) ([]float32, error)
	SetVector(ctx context.Context, hash string, vector []float32) error
}

// CacheOptions tunes CachedEmbedder
type CacheOptions struct {
	MaxCost int64         // L1 budget in bytes of vector data
	TTL     time.Duration // L1 entry lifetime, 0 keeps entries until evicted
	L2      VectorStore   // optional
}

// CachedEmbedder memoizes embeddings keyed by a hash of the model and text.
// Cache failures never fail the embedding call.
type CachedEmbedder struct {
	base      Embedder
	namespace string
	l1        *ristretto.Cache
	ttl       time.Duration
	l2        VectorStore
}

// NewCachedEmbedder wraps base with an in-process ristretto cache
func NewCachedEmbedder(base Embedder, namespace string, opts CacheOptions) (*CachedEmbedder, error) {
	if opts.MaxCost <= 0 {
		opts.MaxCost = 1 << 24
	}

	l1, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     opts.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating embedding cache: %w", err)
	}

	return &CachedEmbedder{
		base:      base,
		namespace: namespace,
		l1:        l1,
		ttl:       opts.TTL,
		l2:        opts.L2,
	}, nil
}

// Embed returns the cached vector for text, encoding it on a miss
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.Key(text)

	if v, ok := c.l1.Get(key); ok {
		if vec, ok := v.([]float32); ok {
			return vec, nil
		}
	}

	if c.l2 != nil {
		vec, err := c.l2.GetVector(ctx, key)
		switch {
		case err == nil:
			c.remember(key, vec)
			return vec, nil
		case !errors.Is(err, storage.ErrCacheMiss):
			logger.Warn().Err(err).Msg("⚠️ Shared embedding cache read failed")
		}
	}

	vec, err := c.base.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.remember(key, vec)
	if c.l2 != nil {
		if err := c.l2.SetVector(ctx, key, vec); err != nil {
			logger.Warn().Err(err).Msg("⚠️ Shared embedding cache write failed")
		}
	}
	return vec, nil
}

func (c *CachedEmbedder) remember(key string, vec []float32) {
	cost := int64(len(vec) * 4)
	if c.ttl > 0 {
		c.l1.SetWithTTL(key, vec, cost, c.ttl)
	} else {
		c.l1.Set(key, vec, cost)
	}
}

// Dimensions delegates to the wrapped embedder
func (c *CachedEmbedder) Dimensions() int {
	return c.base.Dimensions()
}

// Key is the content hash a text is cached under
func (c *CachedEmbedder) Key(text string) string {
	sum := sha256.Sum256([]byte(c.namespace + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// Wait blocks until pending L1 writes are applied
func (c *CachedEmbedder) Wait() {
	c.l1.Wait()
}

// Close releases the L1 cache
func (c *CachedEmbedder) Close() {
	c.l1.Close()
}
