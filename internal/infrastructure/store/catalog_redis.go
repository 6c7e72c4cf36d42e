package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hinote/backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "hinote:catalog:"

// RedisCatalogStore keeps catalog snapshots in Redis as JSON with a TTL, so
// several server instances share the merchants' menus
type RedisCatalogStore struct {
	client *redis.Client
}

// NewRedisCatalogStore connects to the Redis server at url
// (redis://[user:password@]host:port[/db]) and checks it answers
func NewRedisCatalogStore(ctx context.Context, url string) (*RedisCatalogStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisCatalogStoreWithClient(client), nil
}

// NewRedisCatalogStoreWithClient wraps an existing client
func NewRedisCatalogStoreWithClient(client *redis.Client) *RedisCatalogStore {
	return &RedisCatalogStore{client: client}
}

func catalogKey(merchantID string) string {
	return redisKeyPrefix + merchantID
}

// Get returns the merchant's snapshot
func (s *RedisCatalogStore) Get(ctx context.Context, merchantID string) ([]domain.Product, error) {
	data, err := s.client.Get(ctx, catalogKey(merchantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCatalogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode catalog snapshot: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// Put stores products for the merchant, replacing any previous snapshot
func (s *RedisCatalogStore) Put(ctx context.Context, merchantID string, products []domain.Product, ttl time.Duration) error {
	if merchantID == "" || ttl <= 0 {
		return domain.ErrInvalidRequest
	}
	if products == nil {
		products = []domain.Product{}
	}

	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode catalog snapshot: %w", err)
	}

	if err := s.client.Set(ctx, catalogKey(merchantID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a merchant's snapshot
func (s *RedisCatalogStore) Delete(ctx context.Context, merchantID string) error {
	if err := s.client.Del(ctx, catalogKey(merchantID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close closes the underlying client
func (s *RedisCatalogStore) Close() {
	_ = s.client.Close()
}
