package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
	"radagast/internal/storage"
)

// Purchase order completion credits stock back into the main warehouse
// under the system handler, mirroring how auto-replenishment receives
// goods.
const (
	CompletionWarehouse = "Main Warehouse"
	SystemHandler       = "Auto-Buyer System"
)

type OrderRepository interface {
	Insert(ctx context.Context, q storage.Querier, order domain.PurchaseOrder) (uint, error)
	FindByID(ctx context.Context, id uint) (*domain.PurchaseOrder, error)
	FindByIDForUpdate(ctx context.Context, q storage.Querier, id uint) (*domain.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, q storage.Querier, id uint, status domain.OrderStatus, completionDate *time.Time) error
	FindByBuyer(ctx context.Context, buyerID uint) ([]domain.PurchaseOrder, error)
	FindByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.PurchaseOrder, error)
	FindAutoTriggered(ctx context.Context) ([]domain.PurchaseOrder, error)
	FindAll(ctx context.Context) ([]domain.PurchaseOrder, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Product, error)
	FindByIDForUpdate(ctx context.Context, q storage.Querier, id uint) (*domain.Product, error)
	UpdateQuantity(ctx context.Context, q storage.Querier, id uint, quantity int) error
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}

type EventRepository interface {
	Insert(ctx context.Context, q storage.Querier, event domain.LedgerEvent) (uint, error)
}

// PurchaseOrderService drives the order lifecycle. Status changes go
// through the domain transition table; completion is the only operation
// that touches stock, and it does so in a single transaction.
type PurchaseOrderService struct {
	txManager   storage.TransactionManager
	db          storage.Querier
	orderRepo   OrderRepository
	productRepo ProductRepository
	userRepo    UserRepository
	eventRepo   EventRepository
	logger      *zap.Logger
	txTimeout   time.Duration
}

func NewPurchaseOrderService(
	txManager storage.TransactionManager,
	db storage.Querier,
	orderRepo OrderRepository,
	productRepo ProductRepository,
	userRepo UserRepository,
	eventRepo EventRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		txManager:   txManager,
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		eventRepo:   eventRepo,
		logger:      logger,
		txTimeout:   txTimeout,
	}
}

// CreateManual creates a PENDING order on behalf of a buyer. The unit
// price is the product's current price with the bulk discount applied,
// frozen on the order.
func (s *PurchaseOrderService) CreateManual(ctx context.Context, productID, buyerID uint, quantity int, notes string) (*domain.PurchaseOrder, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be greater than zero",
		})
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	buyer, err := s.userRepo.FindByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if !buyer.IsBuyer() {
		return nil, apperrors.NewInvalidRoleError(
			fmt.Sprintf("user %d has role %s, purchase orders require role %s", buyerID, buyer.Role, domain.RoleBuyer))
	}

	order := domain.NewPurchaseOrder(*product, *buyer, quantity, false)
	if notes != "" {
		order.Notes = notes
	}

	id, err := s.orderRepo.Insert(ctx, s.db, order)
	if err != nil {
		s.logger.Error("failed to insert purchase order", zap.Uint("productId", productID), zap.Error(err))
		return nil, err
	}
	order.ID = id

	s.logger.Info("purchase order created",
		zap.Uint("orderId", order.ID),
		zap.Uint("productId", productID),
		zap.Uint("buyerId", buyerID),
		zap.Int("quantity", quantity),
		zap.Float64("totalAmount", order.TotalAmount),
	)

	return &order, nil
}

// CreateAutoApproved creates an APPROVED, auto-triggered order in one
// step. The replenishment module uses it for orders that need no human
// approval.
func (s *PurchaseOrderService) CreateAutoApproved(ctx context.Context, product domain.Product, buyer domain.User, quantity int, notes string) (*domain.PurchaseOrder, error) {
	order := domain.NewPurchaseOrder(product, buyer, quantity, true)
	order.Status = domain.OrderStatusApproved
	order.SupplierInfo = "AI-Replenishment System"
	if notes != "" {
		order.Notes = notes
	}

	id, err := s.orderRepo.Insert(ctx, s.db, order)
	if err != nil {
		s.logger.Error("failed to insert auto purchase order", zap.Uint("productId", product.ID), zap.Error(err))
		return nil, err
	}
	order.ID = id

	s.logger.Info("auto purchase order created",
		zap.Uint("orderId", order.ID),
		zap.Uint("productId", product.ID),
		zap.Int("quantity", quantity),
	)

	return &order, nil
}

// Approve moves a PENDING order to APPROVED.
func (s *PurchaseOrderService) Approve(ctx context.Context, orderID uint) (*domain.PurchaseOrder, error) {
	return s.transition(ctx, orderID, domain.OrderStatusApproved)
}

// Cancel moves a PENDING or APPROVED order to CANCELLED.
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uint) (*domain.PurchaseOrder, error) {
	return s.transition(ctx, orderID, domain.OrderStatusCancelled)
}

func (s *PurchaseOrderService) transition(ctx context.Context, orderID uint, to domain.OrderStatus) (*domain.PurchaseOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(order.Status, to) {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("purchase order %d cannot move from %s to %s", orderID, order.Status, to))
	}

	if err := s.orderRepo.UpdateStatus(ctx, s.db, orderID, to, nil); err != nil {
		return nil, err
	}
	order.Status = to

	s.logger.Info("purchase order status changed",
		zap.Uint("orderId", orderID),
		zap.String("status", string(to)),
	)

	return order, nil
}

// Complete receives an APPROVED order: it credits the ordered quantity
// onto the product, marks the order COMPLETED with a completion date,
// and appends a SHIPMENT ledger event, all in one transaction. Calling
// it on an order in any other status is a no-op that returns the order
// unchanged, so repeated completion attempts are harmless.
func (s *PurchaseOrderService) Complete(ctx context.Context, orderID uint) (*domain.PurchaseOrder, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.txManager.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// Rollback is a no-op once the transaction has committed.
	defer tx.Rollback()

	order, err := s.orderRepo.FindByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.OrderStatusApproved {
		s.logger.Info("completion skipped, order not approved",
			zap.Uint("orderId", orderID),
			zap.String("status", string(order.Status)),
		)
		return order, nil
	}

	product, err := s.productRepo.FindByIDForUpdate(txCtx, tx, order.ProductID)
	if err != nil {
		return nil, err
	}

	newQuantity := product.Quantity + order.Quantity
	if err := s.productRepo.UpdateQuantity(txCtx, tx, product.ID, newQuantity); err != nil {
		s.logger.Error("failed to credit stock", zap.Uint("orderId", orderID), zap.Error(err))
		return nil, err
	}

	completedAt := time.Now()
	if err := s.orderRepo.UpdateStatus(txCtx, tx, orderID, domain.OrderStatusCompleted, &completedAt); err != nil {
		s.logger.Error("failed to complete purchase order", zap.Uint("orderId", orderID), zap.Error(err))
		return nil, err
	}

	event := domain.NewLedgerEvent(*product, order.Quantity, domain.EventShipment, CompletionWarehouse, SystemHandler)
	if _, err := s.eventRepo.Insert(txCtx, tx, event); err != nil {
		s.logger.Error("failed to append shipment event", zap.Uint("orderId", orderID), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit completion", zap.Uint("orderId", orderID), zap.Error(err))
		return nil, err
	}

	order.Status = domain.OrderStatusCompleted
	order.CompletionDate = &completedAt

	s.logger.Info("purchase order completed",
		zap.Uint("orderId", orderID),
		zap.Uint("productId", product.ID),
		zap.Int("quantityReceived", order.Quantity),
		zap.Int("newStock", newQuantity),
	)

	return order, nil
}

func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uint) (*domain.PurchaseOrder, error) {
	return s.orderRepo.FindByID(ctx, orderID)
}

func (s *PurchaseOrderService) GetAll(ctx context.Context) ([]domain.PurchaseOrder, error) {
	return s.orderRepo.FindAll(ctx)
}

func (s *PurchaseOrderService) GetByBuyer(ctx context.Context, buyerID uint) ([]domain.PurchaseOrder, error) {
	return s.orderRepo.FindByBuyer(ctx, buyerID)
}

func (s *PurchaseOrderService) GetByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.PurchaseOrder, error) {
	return s.orderRepo.FindByStatus(ctx, status)
}

func (s *PurchaseOrderService) GetAutoTriggered(ctx context.Context) ([]domain.PurchaseOrder, error) {
	return s.orderRepo.FindAutoTriggered(ctx)
}
