package ledger

import (
	"database/sql"

	"go.uber.org/zap"

	"radagast/internal/config"
	"radagast/internal/ledger/controller"
	ledgerrepo "radagast/internal/ledger/repository"
	"radagast/internal/ledger/service"
	productrepo "radagast/internal/product/repository"
	"radagast/internal/storage"
)

// NewModule wires the ledger. The replenishment hook is installed
// later via SetNotifier, once the replenishment module exists.
func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) (*service.LedgerService, *controller.LedgerController) {
	productRepo := productrepo.NewMySQLProductRepository(db)
	eventRepo := ledgerrepo.NewMySQLLedgerEventRepository(db)

	svc := service.NewLedgerService(
		storage.NewTransactionManager(db),
		productRepo,
		eventRepo,
		nil,
		logger,
		cfg.Database.TxTimeout,
	)

	return svc, controller.NewLedgerController(svc, logger)
}
