package forecast

import (
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"radagast/internal/config"
	"radagast/internal/forecast/cache"
	"radagast/internal/forecast/controller"
	"radagast/internal/forecast/service"
	ledgerrepo "radagast/internal/ledger/repository"
	productrepo "radagast/internal/product/repository"
)

// NewModule wires the forecast engine. A nil redis client disables
// portfolio caching.
func NewModule(db *sql.DB, redisClient *redis.Client, cfg *config.Config, logger *zap.Logger) *controller.ForecastController {
	productRepo := productrepo.NewMySQLProductRepository(db)
	eventRepo := ledgerrepo.NewMySQLLedgerEventRepository(db)

	var forecastCache service.Cache
	if redisClient != nil {
		forecastCache = cache.NewRedisCache(redisClient, cfg.Redis.ForecastTTL, logger)
	}

	svc := service.NewForecastService(productRepo, eventRepo, forecastCache, logger)

	return controller.NewForecastController(svc, logger)
}
