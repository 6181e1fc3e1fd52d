package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const (
	// VectorTTL is the default lifetime of a cached embedding
	VectorTTL    = 24 * time.Hour
	vectorPrefix = "embedding:"
)

// ErrCacheMiss is returned when no vector is stored under a key
var ErrCacheMiss = errors.New("cache miss")

// RedisStorage caches embedding vectors in Redis
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage connects to redisURL and verifies the connection
func NewRedisStorage(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStorage, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	rs := NewRedisStorageWithClient(redis.NewClient(opts), ttl)
	if err := rs.Ping(ctx); err != nil {
		rs.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rs, nil
}

// NewRedisStorageWithClient wraps an existing client
func NewRedisStorageWithClient(client *redis.Client, ttl time.Duration) *RedisStorage {
	if ttl <= 0 {
		ttl = VectorTTL
	}
	return &RedisStorage{client: client, ttl: ttl}
}

// key generates a Redis key for the given content hash
func (r *RedisStorage) key(hash string) string {
	return vectorPrefix + hash
}

// SetVector stores a vector under hash with the configured TTL
func (r *RedisStorage) SetVector(ctx context.Context, hash string, vector []float32) error {
	data, err := EncodeVector(vector)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, r.key(hash), data, r.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set vector: %w", err)
	}
	return nil
}

// GetVector reads the vector stored under hash, refreshing its TTL
func (r *RedisStorage) GetVector(ctx context.Context, hash string) ([]float32, error) {
	data, err := r.client.GetEx(ctx, r.key(hash), r.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get vector: %w", err)
	}
	return DecodeVector(data)
}

// Close closes the Redis connection
func (r *RedisStorage) Close() error {
	return r.client.Close()
}

// Ping checks the connection
func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// EncodeVector serializes a vector for storage
func EncodeVector(vector []float32) ([]byte, error) {
	data, err := sonic.Marshal(vector)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vector: %w", err)
	}
	return data, nil
}

// DecodeVector parses a stored vector
func DecodeVector(data []byte) ([]float32, error) {
	var vector []float32
	if err := sonic.Unmarshal(data, &vector); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vector: %w", err)
	}
	if len(vector) == 0 {
		return nil, ErrCacheMiss
	}
	return vector, nil
}
