package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	appledger "github.com/stockledger/backend/internal/application/ledger"
)

// InMemoryBalanceCache is a process-local balance cache for single-instance
// deployments and tests
type InMemoryBalanceCache struct {
	mu      sync.RWMutex
	entries map[string]inMemoryEntry
	ttl     time.Duration
}

type inMemoryEntry struct {
	balance   appledger.BalanceResponse
	expiresAt time.Time
}

// NewInMemoryBalanceCache creates an in-memory balance cache
func NewInMemoryBalanceCache() *InMemoryBalanceCache {
	return &InMemoryBalanceCache{
		entries: make(map[string]inMemoryEntry),
		ttl:     defaultBalanceTTL,
	}
}

// Get returns the cached balance, or (nil, nil) on a miss
func (c *InMemoryBalanceCache) Get(_ context.Context, itemID, locationID uuid.UUID) (*appledger.BalanceResponse, error) {
	c.mu.RLock()
	entry, ok := c.entries[key(itemID, locationID)]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	balance := entry.balance
	return &balance, nil
}

// Set stores a balance with the cache TTL
func (c *InMemoryBalanceCache) Set(_ context.Context, balance appledger.BalanceResponse) error {
	c.mu.Lock()
	c.entries[key(balance.ItemID, balance.LocationID)] = inMemoryEntry{
		balance:   balance,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
	return nil
}

// Invalidate drops the cached balance for a key
func (c *InMemoryBalanceCache) Invalidate(_ context.Context, itemID, locationID uuid.UUID) error {
	c.mu.Lock()
	delete(c.entries, key(itemID, locationID))
	c.mu.Unlock()
	return nil
}

func key(itemID, locationID uuid.UUID) string {
	return itemID.String() + ":" + locationID.String()
}

// Ensure InMemoryBalanceCache implements the cache interface
var _ appledger.BalanceCache = (*InMemoryBalanceCache)(nil)
