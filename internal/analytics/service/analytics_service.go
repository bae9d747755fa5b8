package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"radagast/internal/domain"
)

const recentProductCount = 5

type ProductRepository interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
}

type EventRepository interface {
	FindSalesSince(ctx context.Context, since time.Time) ([]domain.LedgerEvent, error)
	FindByWarehouseAndDateRange(ctx context.Context, warehouse string, from, to time.Time) ([]domain.LedgerEvent, error)
}

// AnalyticsService aggregates the dashboard figures from the product
// table and today's slice of the ledger.
type AnalyticsService struct {
	productRepo ProductRepository
	eventRepo   EventRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewAnalyticsService(productRepo ProductRepository, eventRepo EventRepository, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		productRepo: productRepo,
		eventRepo:   eventRepo,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *AnalyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	dashboard := &Dashboard{
		TotalProducts: len(products),
		GeneratedAt:   now,
	}

	for _, p := range products {
		dashboard.InventoryValue += p.InventoryValue()
		switch {
		case p.OutOfStock():
			dashboard.OutOfStockProducts++
		case p.Quantity <= p.ReorderThreshold:
			dashboard.LowStockProducts++
		}
	}

	dashboard.RecentProducts = recentProducts(products)

	sales, err := s.eventRepo.FindSalesSince(ctx, startOfDay(now))
	if err != nil {
		return nil, err
	}
	for _, sale := range sales {
		dashboard.ItemsSoldToday += sale.Quantity
	}

	return dashboard, nil
}

// WarehouseTurnover sums today's sales in one warehouse.
func (s *AnalyticsService) WarehouseTurnover(ctx context.Context, warehouse string) (*WarehouseTurnover, error) {
	now := s.now()
	events, err := s.eventRepo.FindByWarehouseAndDateRange(ctx, warehouse, startOfDay(now), now)
	if err != nil {
		return nil, err
	}

	turnover := &WarehouseTurnover{
		Warehouse:   warehouse,
		GeneratedAt: now,
	}
	for _, e := range events {
		if e.Kind != domain.EventSale {
			continue
		}
		turnover.SalesCount++
		turnover.UnitsSold += e.Quantity
		turnover.Turnover += e.Amount
	}

	return turnover, nil
}

func recentProducts(products []domain.Product) []ProductSummary {
	sorted := make([]domain.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if len(sorted) > recentProductCount {
		sorted = sorted[:recentProductCount]
	}

	summaries := make([]ProductSummary, 0, len(sorted))
	for _, p := range sorted {
		summaries = append(summaries, toProductSummary(p))
	}
	return summaries
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func toProductSummary(p domain.Product) ProductSummary {
	return ProductSummary{
		ID:       p.ID,
		Name:     p.Name,
		Quantity: p.Quantity,
		Price:    p.Price,
	}
}
