package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appledger "github.com/stockledger/backend/internal/application/ledger"
	"github.com/stockledger/backend/internal/infrastructure/config"
)

// defaultBalanceTTL bounds staleness if a refresh is ever lost
const defaultBalanceTTL = 5 * time.Minute

// RedisBalanceCache caches balance projections in Redis, keyed per
// (item, location) pair. Suitable for distributed deployments where multiple
// instances serve balance reads.
type RedisBalanceCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisBalanceCache creates a Redis-backed balance cache
func NewRedisBalanceCache(cfg config.RedisConfig) (*RedisBalanceCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisBalanceCache{
		client:    client,
		keyPrefix: "ledger:balance:",
		ttl:       defaultBalanceTTL,
	}, nil
}

// NewRedisBalanceCacheWithClient creates a cache with an existing Redis client
func NewRedisBalanceCacheWithClient(client *redis.Client, keyPrefix string) *RedisBalanceCache {
	if keyPrefix == "" {
		keyPrefix = "ledger:balance:"
	}
	return &RedisBalanceCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       defaultBalanceTTL,
	}
}

// Get returns the cached balance, or (nil, nil) on a miss
func (c *RedisBalanceCache) Get(ctx context.Context, itemID, locationID uuid.UUID) (*appledger.BalanceResponse, error) {
	data, err := c.client.Get(ctx, c.key(itemID, locationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached balance: %w", err)
	}

	var balance appledger.BalanceResponse
	if err := json.Unmarshal(data, &balance); err != nil {
		// Treat a corrupt entry as a miss
		return nil, nil
	}
	return &balance, nil
}

// Set stores a balance with the cache TTL
func (c *RedisBalanceCache) Set(ctx context.Context, balance appledger.BalanceResponse) error {
	data, err := json.Marshal(balance)
	if err != nil {
		return fmt.Errorf("failed to encode balance: %w", err)
	}
	return c.client.Set(ctx, c.key(balance.ItemID, balance.LocationID), data, c.ttl).Err()
}

// Invalidate drops the cached balance for a key
func (c *RedisBalanceCache) Invalidate(ctx context.Context, itemID, locationID uuid.UUID) error {
	return c.client.Del(ctx, c.key(itemID, locationID)).Err()
}

// Close closes the underlying Redis client
func (c *RedisBalanceCache) Close() error {
	return c.client.Close()
}

func (c *RedisBalanceCache) key(itemID, locationID uuid.UUID) string {
	return c.keyPrefix + itemID.String() + ":" + locationID.String()
}

// Ensure RedisBalanceCache implements the cache interface
var _ appledger.BalanceCache = (*RedisBalanceCache)(nil)
