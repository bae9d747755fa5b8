package analytics

import (
	"database/sql"

	"go.uber.org/zap"

	"radagast/internal/analytics/controller"
	"radagast/internal/analytics/service"
	ledgerrepo "radagast/internal/ledger/repository"
	productrepo "radagast/internal/product/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.AnalyticsController {
	productRepo := productrepo.NewMySQLProductRepository(db)
	eventRepo := ledgerrepo.NewMySQLLedgerEventRepository(db)

	svc := service.NewAnalyticsService(productRepo, eventRepo, logger)

	return controller.NewAnalyticsController(svc, logger)
}
