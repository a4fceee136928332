package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appledger "github.com/stockledger/backend/internal/application/ledger"
	"github.com/stockledger/backend/internal/infrastructure/config"
)

func TestInMemoryBalanceCache(t *testing.T) {
	ctx := context.Background()
	itemID := uuid.New()
	locationID := uuid.New()

	balance := appledger.BalanceResponse{
		ItemID:       itemID,
		LocationID:   locationID,
		Quantity:     decimal.NewFromInt(42),
		LastSequence: 7,
	}

	t.Run("miss returns nil without error", func(t *testing.T) {
		c := NewInMemoryBalanceCache()
		got, err := c.Get(ctx, itemID, locationID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("set then get", func(t *testing.T) {
		c := NewInMemoryBalanceCache()
		require.NoError(t, c.Set(ctx, balance))

		got, err := c.Get(ctx, itemID, locationID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Quantity.Equal(decimal.NewFromInt(42)))
		assert.Equal(t, int64(7), got.LastSequence)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		c := NewInMemoryBalanceCache()
		require.NoError(t, c.Set(ctx, balance))
		require.NoError(t, c.Invalidate(ctx, itemID, locationID))

		got, err := c.Get(ctx, itemID, locationID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("expired entries read as misses", func(t *testing.T) {
		c := NewInMemoryBalanceCache()
		c.ttl = time.Millisecond
		require.NoError(t, c.Set(ctx, balance))

		time.Sleep(5 * time.Millisecond)
		got, err := c.Get(ctx, itemID, locationID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("keys are per item and location", func(t *testing.T) {
		c := NewInMemoryBalanceCache()
		require.NoError(t, c.Set(ctx, balance))

		got, err := c.Get(ctx, itemID, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestNewBalanceCacheFactory(t *testing.T) {
	t.Run("disabled redis uses in-memory cache", func(t *testing.T) {
		c := NewBalanceCache(config.RedisConfig{Enabled: false}, zap.NewNop())
		_, ok := c.(*InMemoryBalanceCache)
		assert.True(t, ok)
	})

	t.Run("unreachable redis falls back to in-memory cache", func(t *testing.T) {
		c := NewBalanceCache(config.RedisConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    1, // nothing listens here
		}, zap.NewNop())
		_, ok := c.(*InMemoryBalanceCache)
		assert.True(t, ok)
	})
}
