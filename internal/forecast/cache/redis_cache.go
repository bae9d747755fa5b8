package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"radagast/internal/forecast/service"
)

const portfolioKeyPrefix = "forecast:portfolio:"

// RedisCache stores serialized portfolio forecasts with a TTL. Cache
// failures are logged and treated as misses; the forecast path never
// depends on Redis availability.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisCache) GetPortfolio(ctx context.Context, horizonDays int) (*service.PortfolioForecast, bool) {
	key := portfolioKey(horizonDays)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("forecast cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var portfolio service.PortfolioForecast
	if err := json.Unmarshal(data, &portfolio); err != nil {
		c.logger.Warn("forecast cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return &portfolio, true
}

func (c *RedisCache) SetPortfolio(ctx context.Context, horizonDays int, portfolio *service.PortfolioForecast) {
	key := portfolioKey(horizonDays)

	data, err := json.Marshal(portfolio)
	if err != nil {
		c.logger.Warn("forecast cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("forecast cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func portfolioKey(horizonDays int) string {
	return fmt.Sprintf("%s%d", portfolioKeyPrefix, horizonDays)
}
