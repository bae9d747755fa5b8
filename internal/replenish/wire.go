package replenish

import (
	"database/sql"

	"go.uber.org/zap"

	"radagast/internal/advisory"
	"radagast/internal/config"
	ledgerrepo "radagast/internal/ledger/repository"
	productrepo "radagast/internal/product/repository"
	"radagast/internal/replenish/controller"
	"radagast/internal/replenish/service"
	userrepo "radagast/internal/user/repository"
)

// NewModule wires replenishment on top of the purchase service, which
// it drives to place and receive automatic orders.
func NewModule(db *sql.DB, cfg *config.Config, orders service.OrderPlacer, logger *zap.Logger) (*service.ReplenishmentService, *controller.ReplenishmentController) {
	productRepo := productrepo.NewMySQLProductRepository(db)
	eventRepo := ledgerrepo.NewMySQLLedgerEventRepository(db)
	userRepo := userrepo.NewMySQLUserRepository(db)

	svc := service.NewReplenishmentService(
		productRepo,
		eventRepo,
		userRepo,
		orders,
		advisory.NewHTTPClient(cfg.Advisory, logger),
		service.FirstBuyerPicker{},
		logger,
	)

	return svc, controller.NewReplenishmentController(svc, logger)
}
