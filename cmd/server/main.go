package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"radagast/internal/analytics"
	"radagast/internal/commons"
	"radagast/internal/config"
	"radagast/internal/forecast"
	"radagast/internal/infrastructure/logger"
	"radagast/internal/infrastructure/mysql"
	redisinfra "radagast/internal/infrastructure/redis"
	"radagast/internal/ledger"
	"radagast/internal/purchase"
	"radagast/internal/replenish"
	"radagast/internal/server"
)

func main() {
	// .env is for local development; absence is not an error.
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	redisClient, err := redisinfra.NewClient(cfg.Redis)
	if err != nil {
		// Forecast caching degrades gracefully without redis.
		zapLogger.Warn("redis unavailable, forecast caching disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		zapLogger.Info("redis connected")
	}

	ledgerSvc, ledgerCtrl := ledger.NewModule(db, cfg, zapLogger)
	forecastCtrl := forecast.NewModule(db, redisClient, cfg, zapLogger)
	purchaseSvc, purchaseCtrl := purchase.NewModule(db, cfg, zapLogger)
	replenishSvc, replenishCtrl := replenish.NewModule(db, cfg, purchaseSvc, zapLogger)
	analyticsCtrl := analytics.NewModule(db, zapLogger)

	// Every committed sale flows into the replenishment check.
	ledgerSvc.SetNotifier(replenishSvc)

	router := server.NewRouter(ledgerCtrl, forecastCtrl, replenishCtrl, purchaseCtrl, analyticsCtrl, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

// loadConfig prefers an explicit YAML file, falling back to environment
// variables with sensible defaults.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return commons.LoadConfig(path)
	}
	return config.Load()
}
