package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"radagast/internal/advisory"
	"radagast/internal/domain"
)

// salesWindowDays bounds how much sales history feeds the advisory
// prompt.
const salesWindowDays = 90

// reactiveOrderMargin is added to the reorder threshold when sizing a
// reactive order, so the product lands comfortably above its threshold.
const reactiveOrderMargin = 10

// nearThresholdMargin widens the batch sweep to products that are close
// to their reorder point, not only those already below it.
const nearThresholdMargin = 10

type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
}

type EventRepository interface {
	FindByProductSince(ctx context.Context, productID uint, since time.Time) ([]domain.LedgerEvent, error)
}

type UserRepository interface {
	FindByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

// OrderPlacer is the slice of the purchase module that replenishment
// drives: create a pre-approved order and receive it.
type OrderPlacer interface {
	CreateAutoApproved(ctx context.Context, product domain.Product, buyer domain.User, quantity int, notes string) (*domain.PurchaseOrder, error)
	Complete(ctx context.Context, orderID uint) (*domain.PurchaseOrder, error)
}

// ReplenishmentService restocks products two ways: a reactive check
// fired after every sale, and an advisory-driven recommendation that
// consults the AI client. Both place auto-approved orders and complete
// them immediately, so stock is credited in the same flow.
type ReplenishmentService struct {
	productRepo ProductRepository
	eventRepo   EventRepository
	userRepo    UserRepository
	orders      OrderPlacer
	advisor     advisory.Client
	picker      BuyerPicker
	logger      *zap.Logger
}

func NewReplenishmentService(
	productRepo ProductRepository,
	eventRepo EventRepository,
	userRepo UserRepository,
	orders OrderPlacer,
	advisor advisory.Client,
	picker BuyerPicker,
	logger *zap.Logger,
) *ReplenishmentService {
	return &ReplenishmentService{
		productRepo: productRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		orders:      orders,
		advisor:     advisor,
		picker:      picker,
		logger:      logger,
	}
}

// ProductSold is the post-sale hook. The sale has already committed, so
// replenishment failures are logged and swallowed rather than surfaced
// to the seller.
func (s *ReplenishmentService) ProductSold(ctx context.Context, product domain.Product) {
	if !product.BelowReorderPoint() {
		return
	}

	quantity := product.ReorderThreshold + reactiveOrderMargin
	if _, ok := s.placeOrder(ctx, product, quantity, ""); ok {
		s.logger.Info("reactive replenishment triggered",
			zap.Uint("productId", product.ID),
			zap.Int("currentStock", product.Quantity),
			zap.Int("reorderThreshold", product.ReorderThreshold),
			zap.Int("quantityOrdered", quantity),
		)
	}
}

// placeOrder picks a buyer, creates an approved auto order and receives
// it. It reports false without an error value: callers in the sale path
// must not fail, and callers in the advisory path report the miss in
// the recommendation message.
func (s *ReplenishmentService) placeOrder(ctx context.Context, product domain.Product, quantity int, notes string) (*domain.PurchaseOrder, bool) {
	buyers, err := s.userRepo.FindByRole(ctx, domain.RoleBuyer)
	if err != nil {
		s.logger.Error("failed to look up buyers", zap.Uint("productId", product.ID), zap.Error(err))
		return nil, false
	}

	buyer, err := s.picker.PickBuyer(buyers)
	if err != nil {
		s.logger.Warn("replenishment skipped, no buyer available", zap.Uint("productId", product.ID))
		return nil, false
	}

	order, err := s.orders.CreateAutoApproved(ctx, product, buyer, quantity, notes)
	if err != nil {
		s.logger.Error("failed to create auto purchase order", zap.Uint("productId", product.ID), zap.Error(err))
		return nil, false
	}

	completed, err := s.orders.Complete(ctx, order.ID)
	if err != nil {
		s.logger.Error("failed to complete auto purchase order",
			zap.Uint("orderId", order.ID),
			zap.Uint("productId", product.ID),
			zap.Error(err),
		)
		return nil, false
	}

	return completed, true
}

// GetRecommendation asks the advisory client about one product and, if
// the verdict demands action or the product is already below its
// reorder point, places the recommended order immediately.
func (s *ReplenishmentService) GetRecommendation(ctx context.Context, productID uint) (*Recommendation, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.recommend(ctx, *product), nil
}

func (s *ReplenishmentService) recommend(ctx context.Context, product domain.Product) *Recommendation {
	since := time.Now().AddDate(0, 0, -salesWindowDays)
	events, err := s.eventRepo.FindByProductSince(ctx, product.ID, since)
	if err != nil {
		s.logger.Warn("failed to load sales history, advising without it",
			zap.Uint("productId", product.ID), zap.Error(err))
		events = nil
	}
	sales := salesOnly(events)

	prompt := advisory.BuildPrompt(product, sales)
	raw := s.advisor.Advise(ctx, prompt)

	quantity := advisory.ParseQuantity(raw, product)
	urgency := advisory.ParseUrgency(raw)
	reasoning := advisory.ParseReasoning(raw)

	rec := &Recommendation{
		ProductID:           product.ID,
		ProductName:         product.Name,
		CurrentStock:        product.Quantity,
		ReorderThreshold:    product.ReorderThreshold,
		RecommendedQuantity: quantity,
		Urgency:             string(urgency),
		Reasoning:           reasoning,
		RawAdvice:           raw,
		GeneratedAt:         time.Now(),
	}

	if !urgency.RequiresAction() && !product.BelowReorderPoint() {
		rec.Message = "no action required"
		return rec
	}

	notes := fmt.Sprintf("AI-triggered replenishment. Urgency: %s. Reason: %s", urgency, truncate(reasoning, 200))
	order, ok := s.placeOrder(ctx, product, quantity, notes)
	if !ok {
		rec.Message = "replenishment recommended but no order could be placed"
		return rec
	}

	rec.AutoTriggered = true
	rec.OrderID = order.ID
	rec.Message = fmt.Sprintf("ordered %d units, order %d completed", quantity, order.ID)

	s.logger.Info("advisory replenishment triggered",
		zap.Uint("productId", product.ID),
		zap.Uint("orderId", order.ID),
		zap.String("urgency", string(urgency)),
		zap.Int("quantityOrdered", quantity),
	)

	return rec
}

// CheckAll sweeps every product at or near its reorder point through
// the advisory flow.
func (s *ReplenishmentService) CheckAll(ctx context.Context) (*BatchResult, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		CheckedProducts: len(products),
		GeneratedAt:     time.Now(),
	}

	for _, product := range products {
		if product.Quantity > product.ReorderThreshold+nearThresholdMargin {
			continue
		}
		result.LowStockProducts++

		rec := s.recommend(ctx, product)
		if rec.AutoTriggered {
			result.AutoTriggeredCount++
		}
		result.Recommendations = append(result.Recommendations, *rec)
	}

	return result, nil
}

func salesOnly(events []domain.LedgerEvent) []domain.LedgerEvent {
	var sales []domain.LedgerEvent
	for _, e := range events {
		if e.Kind == domain.EventSale {
			sales = append(sales, e)
		}
	}
	return sales
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// Back up to a rune boundary so a multibyte character is never split.
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
