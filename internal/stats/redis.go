package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey holds the ledger document when no key is configured.
const DefaultRedisKey = "autobtd6:playthrough_stats"

// RedisBackend keeps the ledger document under a single Redis key so several
// machines can share one record.
type RedisBackend struct {
	client *redis.Client
	key    string
}

// NewRedisBackend wraps an existing client.
func NewRedisBackend(client *redis.Client, key string) *RedisBackend {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisBackend{client: client, key: key}
}

// ConnectRedis creates a Redis client from a URL.
func ConnectRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Load fetches the document. A missing key is an empty ledger.
func (b *RedisBackend) Load(ctx context.Context) (Document, error) {
	raw, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", b.key, err)
	}
	return DecodeDocument(raw)
}

// Save overwrites the key with doc.
func (b *RedisBackend) Save(ctx context.Context, doc Document) error {
	raw, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := b.client.Set(ctx, b.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", b.key, err)
	}
	return nil
}

// Close releases the client.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
