package service

import "time"

type ProductSummary struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type Dashboard struct {
	TotalProducts      int              `json:"totalProducts"`
	LowStockProducts   int              `json:"lowStockProducts"`
	OutOfStockProducts int              `json:"outOfStockProducts"`
	InventoryValue     float64          `json:"inventoryValue"`
	ItemsSoldToday     int              `json:"itemsSoldToday"`
	RecentProducts     []ProductSummary `json:"recentProducts"`
	GeneratedAt        time.Time        `json:"generatedAt"`
}

// WarehouseTurnover is today's sales activity for one warehouse.
type WarehouseTurnover struct {
	Warehouse   string    `json:"warehouse"`
	SalesCount  int       `json:"salesCount"`
	UnitsSold   int       `json:"unitsSold"`
	Turnover    float64   `json:"turnover"`
	GeneratedAt time.Time `json:"generatedAt"`
}
