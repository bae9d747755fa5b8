package service

import "time"

type RiskLevel string

const (
	RiskCritical RiskLevel = "CRITICAL"
	RiskHigh     RiskLevel = "HIGH"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskLow      RiskLevel = "LOW"
	RiskSafe     RiskLevel = "SAFE"
)

// RiskPriority orders risk levels for portfolio sorting, most severe
// first.
func RiskPriority(level RiskLevel) int {
	switch level {
	case RiskCritical:
		return 4
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

type ChartPoint struct {
	Day            int     `json:"day"`
	ProjectedSales float64 `json:"projectedSales"`
}

type ChartData struct {
	DataPoints []ChartPoint `json:"dataPoints"`
	Trend      float64      `json:"trend"`
}

type ProductForecast struct {
	ProductID         uint      `json:"productId"`
	ProductName       string    `json:"productName"`
	CurrentStock      int       `json:"currentStock"`
	ReorderThreshold  int       `json:"reorderThreshold"`
	AvgDailySales     float64   `json:"avgDailySales"`
	SalesTrend        float64   `json:"salesTrend"`
	DaysOfStockLeft   int       `json:"daysOfStockLeft"`
	ForecastedDemand  int       `json:"forecastedDemand"`
	RiskLevel         RiskLevel `json:"riskLevel"`
	RecommendedAction string    `json:"recommendedAction"`
	ForecastChart     ChartData `json:"forecastChart"`
}

type PortfolioForecast struct {
	ProductForecasts  []ProductForecast `json:"productForecasts"`
	ForecastPeriod    string            `json:"forecastPeriod"`
	GeneratedAt       time.Time         `json:"generatedAt"`
	TotalProducts     int               `json:"totalProducts"`
	CriticalRiskCount int               `json:"criticalRiskCount"`
	HighRiskCount     int               `json:"highRiskCount"`
	MediumRiskCount   int               `json:"mediumRiskCount"`
	LowRiskCount      int               `json:"lowRiskCount"`
	SafeCount         int               `json:"safeCount"`
}

type FastMover struct {
	ProductID    uint    `json:"productId"`
	ProductName  string  `json:"productName"`
	UnitsSold    int     `json:"unitsSold"`
	CurrentStock int     `json:"currentStock"`
	Revenue      float64 `json:"revenue"`
}
