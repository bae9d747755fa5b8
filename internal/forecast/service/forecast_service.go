package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"radagast/internal/domain"
)

// WindowDays is the sales history window feeding every forecast.
const WindowDays = 90

// InfiniteDays is the days-of-stock sentinel when there is no sales
// rate to divide by.
const InfiniteDays = math.MaxInt32

type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
}

type EventRepository interface {
	FindByProductSince(ctx context.Context, productID uint, since time.Time) ([]domain.LedgerEvent, error)
	FindSalesSince(ctx context.Context, since time.Time) ([]domain.LedgerEvent, error)
}

// Cache holds computed portfolio forecasts. A nil Cache disables
// caching. Misses and cache errors both fall through to recomputation.
type Cache interface {
	GetPortfolio(ctx context.Context, horizonDays int) (*PortfolioForecast, bool)
	SetPortfolio(ctx context.Context, horizonDays int, pf *PortfolioForecast)
}

type ForecastService struct {
	productRepo ProductRepository
	eventRepo   EventRepository
	cache       Cache
	logger      *zap.Logger
}

func NewForecastService(productRepo ProductRepository, eventRepo EventRepository, cache Cache, logger *zap.Logger) *ForecastService {
	return &ForecastService{
		productRepo: productRepo,
		eventRepo:   eventRepo,
		cache:       cache,
		logger:      logger,
	}
}

func (s *ForecastService) ForecastProduct(ctx context.Context, productID uint, horizonDays int) (*ProductForecast, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	sales, err := s.salesWindow(ctx, productID)
	if err != nil {
		return nil, err
	}

	pf := buildProductForecast(*product, sales, horizonDays)
	return &pf, nil
}

// ForecastAll forecasts every product, sorted most-at-risk first.
func (s *ForecastService) ForecastAll(ctx context.Context, horizonDays int) (*PortfolioForecast, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetPortfolio(ctx, horizonDays); ok {
			s.logger.Debug("portfolio forecast served from cache", zap.Int("horizonDays", horizonDays))
			return cached, nil
		}
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	forecasts := make([]ProductForecast, 0, len(products))
	for _, product := range products {
		sales, err := s.salesWindow(ctx, product.ID)
		if err != nil {
			return nil, err
		}
		forecasts = append(forecasts, buildProductForecast(product, sales, horizonDays))
	}

	sort.SliceStable(forecasts, func(i, j int) bool {
		return RiskPriority(forecasts[i].RiskLevel) > RiskPriority(forecasts[j].RiskLevel)
	})

	portfolio := &PortfolioForecast{
		ProductForecasts: forecasts,
		ForecastPeriod:   fmt.Sprintf("%d days", horizonDays),
		GeneratedAt:      time.Now(),
		TotalProducts:    len(products),
	}
	for _, pf := range forecasts {
		switch pf.RiskLevel {
		case RiskCritical:
			portfolio.CriticalRiskCount++
		case RiskHigh:
			portfolio.HighRiskCount++
		case RiskMedium:
			portfolio.MediumRiskCount++
		case RiskLow:
			portfolio.LowRiskCount++
		default:
			portfolio.SafeCount++
		}
	}

	if s.cache != nil {
		s.cache.SetPortfolio(ctx, horizonDays, portfolio)
	}

	return portfolio, nil
}

// FastMovers reports the top ten products by units sold over the last
// given days, with revenue at current prices.
func (s *ForecastService) FastMovers(ctx context.Context, days int) ([]FastMover, error) {
	since := time.Now().AddDate(0, 0, -days)
	sales, err := s.eventRepo.FindSalesSince(ctx, since)
	if err != nil {
		return nil, err
	}

	unitsByProduct := make(map[uint]int)
	for _, sale := range sales {
		unitsByProduct[sale.ProductID] += sale.Quantity
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	movers := make([]FastMover, 0, len(unitsByProduct))
	for _, product := range products {
		units, ok := unitsByProduct[product.ID]
		if !ok {
			continue
		}
		movers = append(movers, FastMover{
			ProductID:    product.ID,
			ProductName:  product.Name,
			UnitsSold:    units,
			CurrentStock: product.Quantity,
			Revenue:      float64(units) * product.Price,
		})
	}

	sort.SliceStable(movers, func(i, j int) bool {
		return movers[i].UnitsSold > movers[j].UnitsSold
	})

	if len(movers) > 10 {
		movers = movers[:10]
	}

	return movers, nil
}

// salesWindow returns SALE events for the product within the forecast
// window, chronologically ascending.
func (s *ForecastService) salesWindow(ctx context.Context, productID uint) ([]domain.LedgerEvent, error) {
	since := time.Now().AddDate(0, 0, -WindowDays)
	events, err := s.eventRepo.FindByProductSince(ctx, productID, since)
	if err != nil {
		return nil, err
	}

	sales := events[:0:0]
	for _, event := range events {
		if event.Kind == domain.EventSale {
			sales = append(sales, event)
		}
	}

	return sales, nil
}

func buildProductForecast(product domain.Product, sales []domain.LedgerEvent, horizonDays int) ProductForecast {
	avgDailySales := AverageDailySales(sales)
	trend := SalesTrend(sales)
	daysLeft := DaysOfStockLeft(product.Quantity, avgDailySales)
	demand := ForecastedDemand(avgDailySales, trend, horizonDays)
	risk := ClassifyRisk(product, daysLeft)

	return ProductForecast{
		ProductID:         product.ID,
		ProductName:       product.Name,
		CurrentStock:      product.Quantity,
		ReorderThreshold:  product.ReorderThreshold,
		AvgDailySales:     round2(avgDailySales),
		SalesTrend:        round2(trend),
		DaysOfStockLeft:   daysLeft,
		ForecastedDemand:  demand,
		RiskLevel:         risk,
		RecommendedAction: RecommendedAction(risk, demand, product),
		ForecastChart:     BuildChartData(avgDailySales, trend, horizonDays),
	}
}

// AverageDailySales is total units sold divided by the day span between
// the earliest and latest sale. A window spanning less than a full day
// treats its volume as the daily rate.
func AverageDailySales(sales []domain.LedgerEvent) float64 {
	if len(sales) == 0 {
		return 0
	}

	totalSold := 0
	for _, sale := range sales {
		totalSold += sale.Quantity
	}

	first := dateOf(sales[0].OccurredAt)
	last := dateOf(sales[len(sales)-1].OccurredAt)
	daysBetween := int(last.Sub(first).Hours() / 24)

	if daysBetween > 0 {
		return float64(totalSold) / float64(daysBetween)
	}
	return float64(totalSold)
}

// SalesTrend compares the earlier half of the sales list against the
// later half, as a percent change. The list is chronologically
// ascending, so the first half is always the earlier period.
func SalesTrend(sales []domain.LedgerEvent) float64 {
	if len(sales) < 2 {
		return 0
	}

	mid := len(sales) / 2
	firstAvg := averageQuantity(sales[:mid])
	secondAvg := averageQuantity(sales[mid:])

	if firstAvg <= 0 {
		return 0
	}
	return (secondAvg - firstAvg) / firstAvg * 100
}

// DaysOfStockLeft floors stock over daily rate, or InfiniteDays when
// there is no sales rate.
func DaysOfStockLeft(quantity int, avgDailySales float64) int {
	if avgDailySales <= 0 {
		return InfiniteDays
	}
	return int(float64(quantity) / avgDailySales)
}

func ForecastedDemand(avgDailySales, trend float64, horizonDays int) int {
	trendFactor := 1 + trend/100.0
	return int(math.Ceil(avgDailySales * trendFactor * float64(horizonDays)))
}

// ClassifyRisk evaluates the fixed-priority stockout classification;
// the first matching rule wins.
func ClassifyRisk(product domain.Product, daysOfStockLeft int) RiskLevel {
	switch {
	case product.Quantity <= 0:
		return RiskCritical
	case daysOfStockLeft <= 3:
		return RiskHigh
	case daysOfStockLeft <= 7:
		return RiskMedium
	case daysOfStockLeft <= product.ReorderThreshold:
		return RiskLow
	default:
		return RiskSafe
	}
}

func RecommendedAction(risk RiskLevel, forecastedDemand int, product domain.Product) string {
	switch risk {
	case RiskCritical:
		return fmt.Sprintf("URGENT: Order %d units immediately", max(forecastedDemand*2, product.ReorderThreshold+20))
	case RiskHigh:
		return fmt.Sprintf("Order %d units within 24 hours", max(forecastedDemand, product.ReorderThreshold+15))
	case RiskMedium:
		return fmt.Sprintf("Order %d units this week", max(forecastedDemand, product.ReorderThreshold+10))
	case RiskLow:
		return fmt.Sprintf("Monitor stock - consider ordering %d units", forecastedDemand)
	default:
		return "Stock levels adequate"
	}
}

// BuildChartData projects daily sales over the horizon, compounding the
// trend evenly across the horizon rather than applying it once.
func BuildChartData(avgDailySales, trend float64, horizonDays int) ChartData {
	points := make([]ChartPoint, 0, horizonDays)

	dailySales := avgDailySales
	for day := 1; day <= horizonDays; day++ {
		points = append(points, ChartPoint{
			Day:            day,
			ProjectedSales: round2(dailySales),
		})
		dailySales *= 1 + trend/100.0/float64(horizonDays)
	}

	return ChartData{
		DataPoints: points,
		Trend:      trend,
	}
}

func averageQuantity(sales []domain.LedgerEvent) float64 {
	if len(sales) == 0 {
		return 0
	}
	total := 0
	for _, sale := range sales {
		total += sale.Quantity
	}
	return float64(total) / float64(len(sales))
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
