package service

import "time"

// Recommendation is the advisory verdict for one product, plus whether
// it caused an automatic order.
type Recommendation struct {
	ProductID           uint      `json:"productId"`
	ProductName         string    `json:"productName"`
	CurrentStock        int       `json:"currentStock"`
	ReorderThreshold    int       `json:"reorderThreshold"`
	RecommendedQuantity int       `json:"recommendedQuantity"`
	Urgency             string    `json:"urgency"`
	Reasoning           string    `json:"reasoning"`
	RawAdvice           string    `json:"rawAdvice"`
	AutoTriggered       bool      `json:"autoTriggered"`
	OrderID             uint      `json:"orderId,omitempty"`
	Message             string    `json:"message,omitempty"`
	GeneratedAt         time.Time `json:"generatedAt"`
}

// BatchResult summarizes a sweep over every product near or below its
// reorder point.
type BatchResult struct {
	CheckedProducts    int              `json:"checkedProducts"`
	LowStockProducts   int              `json:"lowStockProducts"`
	AutoTriggeredCount int              `json:"autoTriggeredCount"`
	Recommendations    []Recommendation `json:"recommendations"`
	GeneratedAt        time.Time        `json:"generatedAt"`
}
