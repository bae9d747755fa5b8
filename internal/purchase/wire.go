package purchase

import (
	"database/sql"

	"go.uber.org/zap"

	"radagast/internal/config"
	ledgerrepo "radagast/internal/ledger/repository"
	productrepo "radagast/internal/product/repository"
	"radagast/internal/purchase/controller"
	purchaserepo "radagast/internal/purchase/repository"
	"radagast/internal/purchase/service"
	"radagast/internal/storage"
	userrepo "radagast/internal/user/repository"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) (*service.PurchaseOrderService, *controller.PurchaseOrderController) {
	orderRepo := purchaserepo.NewMySQLPurchaseOrderRepository(db)
	productRepo := productrepo.NewMySQLProductRepository(db)
	userRepo := userrepo.NewMySQLUserRepository(db)
	eventRepo := ledgerrepo.NewMySQLLedgerEventRepository(db)

	svc := service.NewPurchaseOrderService(
		storage.NewTransactionManager(db),
		db,
		orderRepo,
		productRepo,
		userRepo,
		eventRepo,
		logger,
		cfg.Database.TxTimeout,
	)

	return svc, controller.NewPurchaseOrderController(svc, logger)
}
