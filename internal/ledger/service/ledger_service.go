package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
	"radagast/internal/storage"
)

type ProductRepository interface {
	FindByIDForUpdate(ctx context.Context, q storage.Querier, id uint) (*domain.Product, error)
	UpdateQuantity(ctx context.Context, q storage.Querier, id uint, quantity int) error
}

type EventRepository interface {
	Insert(ctx context.Context, q storage.Querier, event domain.LedgerEvent) (uint, error)
	FindAll(ctx context.Context) ([]domain.LedgerEvent, error)
	FindByProduct(ctx context.Context, productID uint) ([]domain.LedgerEvent, error)
	FindByWarehouse(ctx context.Context, warehouse string) ([]domain.LedgerEvent, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]domain.LedgerEvent, error)
	FindByWarehouseAndDateRange(ctx context.Context, warehouse string, from, to time.Time) ([]domain.LedgerEvent, error)
}

// Notifier is told about a committed sale so replenishment can react.
// It runs after the sale transaction commits and before the sale call
// returns, so callers observe a consistent post-sale state. A nil
// notifier disables the hook, e.g. for bulk imports.
type Notifier interface {
	ProductSold(ctx context.Context, product domain.Product)
}

// LedgerService owns all stock mutation. Each record operation runs the
// row lock, the quantity update and the event append in one
// transaction, so a failure in either leaves neither applied.
type LedgerService struct {
	txManager   storage.TransactionManager
	productRepo ProductRepository
	eventRepo   EventRepository
	notifier    Notifier
	logger      *zap.Logger
	txTimeout   time.Duration
}

func NewLedgerService(
	txManager storage.TransactionManager,
	productRepo ProductRepository,
	eventRepo EventRepository,
	notifier Notifier,
	logger *zap.Logger,
	txTimeout time.Duration,
) *LedgerService {
	return &LedgerService{
		txManager:   txManager,
		productRepo: productRepo,
		eventRepo:   eventRepo,
		notifier:    notifier,
		logger:      logger,
		txTimeout:   txTimeout,
	}
}

// SetNotifier installs the post-commit sale hook. The replenishment
// module registers itself here after construction, which keeps the two
// modules free of a constructor cycle.
func (s *LedgerService) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

func (s *LedgerService) RecordShipment(ctx context.Context, productID uint, quantity int, warehouse, handler string) (*domain.LedgerEvent, error) {
	event, _, err := s.record(ctx, productID, quantity, domain.EventShipment, warehouse, handler)
	return event, err
}

// RecordSale decrements stock and, after commit, synchronously notifies
// the replenishment hook. Replenishment triggered by the sale completes
// before this method returns.
func (s *LedgerService) RecordSale(ctx context.Context, productID uint, quantity int, warehouse, handler string) (*domain.LedgerEvent, error) {
	event, product, err := s.record(ctx, productID, quantity, domain.EventSale, warehouse, handler)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ProductSold(ctx, *product)
	}

	return event, nil
}

func (s *LedgerService) RecordReturn(ctx context.Context, productID uint, quantity int, warehouse, handler string) (*domain.LedgerEvent, error) {
	event, _, err := s.record(ctx, productID, quantity, domain.EventReturn, warehouse, handler)
	return event, err
}

func (s *LedgerService) record(ctx context.Context, productID uint, quantity int, kind domain.EventKind, warehouse, handler string) (*domain.LedgerEvent, *domain.Product, error) {
	if quantity <= 0 {
		return nil, nil, apperrors.NewValidationError("quantity must be positive", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be greater than zero",
		})
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.txManager.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, nil, err
	}
	// Rollback is a no-op once the transaction has committed.
	defer tx.Rollback()

	product, err := s.productRepo.FindByIDForUpdate(txCtx, tx, productID)
	if err != nil {
		return nil, nil, err
	}

	event := domain.NewLedgerEvent(*product, quantity, kind, warehouse, handler)
	newQuantity := product.Quantity + event.QuantityDelta()

	if newQuantity < 0 {
		s.logger.Warn("sale rejected for insufficient stock",
			zap.Uint("productId", productID),
			zap.Int("requested", quantity),
			zap.Int("available", product.Quantity),
		)
		return nil, nil, apperrors.NewInsufficientStockError(productID, quantity, product.Quantity)
	}

	eventID, err := s.eventRepo.Insert(txCtx, tx, event)
	if err != nil {
		s.logger.Error("failed to append ledger event", zap.Uint("productId", productID), zap.Error(err))
		return nil, nil, err
	}
	event.ID = eventID

	if err := s.productRepo.UpdateQuantity(txCtx, tx, productID, newQuantity); err != nil {
		s.logger.Error("failed to update product quantity", zap.Uint("productId", productID), zap.Error(err))
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("productId", productID), zap.Error(err))
		return nil, nil, err
	}

	product.Quantity = newQuantity

	s.logger.Info("ledger event recorded",
		zap.Uint("eventId", event.ID),
		zap.Uint("productId", productID),
		zap.String("kind", string(kind)),
		zap.Int("quantity", quantity),
		zap.Int("newStock", newQuantity),
	)

	return &event, product, nil
}

func (s *LedgerService) GetAllEvents(ctx context.Context) ([]domain.LedgerEvent, error) {
	return s.eventRepo.FindAll(ctx)
}

func (s *LedgerService) GetEventsByProduct(ctx context.Context, productID uint) ([]domain.LedgerEvent, error) {
	return s.eventRepo.FindByProduct(ctx, productID)
}

func (s *LedgerService) GetEventsByWarehouse(ctx context.Context, warehouse string) ([]domain.LedgerEvent, error) {
	return s.eventRepo.FindByWarehouse(ctx, warehouse)
}

func (s *LedgerService) GetEventsByDateRange(ctx context.Context, from, to time.Time) ([]domain.LedgerEvent, error) {
	return s.eventRepo.FindByDateRange(ctx, from, to)
}

func (s *LedgerService) GetEventsByWarehouseAndDateRange(ctx context.Context, warehouse string, from, to time.Time) ([]domain.LedgerEvent, error) {
	return s.eventRepo.FindByWarehouseAndDateRange(ctx, warehouse, from, to)
}
