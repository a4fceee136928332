package cache

import (
	"go.uber.org/zap"

	appledger "github.com/stockledger/backend/internal/application/ledger"
	"github.com/stockledger/backend/internal/infrastructure/config"
)

// NewBalanceCache creates the configured balance cache. Redis is used when
// enabled; connection failures fall back to the in-memory cache so a missing
// Redis never blocks startup.
func NewBalanceCache(cfg config.RedisConfig, logger *zap.Logger) appledger.BalanceCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		return NewInMemoryBalanceCache()
	}

	redisCache, err := NewRedisBalanceCache(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory balance cache",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return NewInMemoryBalanceCache()
	}

	logger.Info("Using Redis balance cache", zap.String("addr", cfg.Addr()))
	return redisCache
}
