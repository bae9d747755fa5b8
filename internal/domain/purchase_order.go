package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusApproved  OrderStatus = "APPROVED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// orderTransitions is the closed transition table for purchase orders.
// COMPLETED and CANCELLED are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:  {OrderStatusApproved, OrderStatusCancelled},
	OrderStatusApproved: {OrderStatusCompleted, OrderStatusCancelled},
}

// CanTransition reports whether a purchase order may move between the
// two statuses.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BulkDiscountRate is applied to the product unit price when a purchase
// order is created. The discounted price is frozen on the order.
const BulkDiscountRate = 0.8

type PurchaseOrder struct {
	ID             uint
	ProductID      uint
	BuyerID        uint
	Quantity       int
	UnitPrice      float64
	TotalAmount    float64
	Status         OrderStatus
	AutoTriggered  bool
	SupplierInfo   string
	Notes          string
	OrderDate      time.Time
	CompletionDate *time.Time
}

// NewPurchaseOrder prices the order at the bulk-discounted unit price of
// the product at creation time. UnitPrice and TotalAmount are never
// recomputed afterwards, even if the product price changes.
func NewPurchaseOrder(product Product, buyer User, quantity int, autoTriggered bool) PurchaseOrder {
	unitPrice := product.Price * BulkDiscountRate
	notes := "Manual purchase order"
	if autoTriggered {
		notes = "Automatically generated purchase order for low stock replenishment"
	}
	return PurchaseOrder{
		ProductID:     product.ID,
		BuyerID:       buyer.ID,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		TotalAmount:   unitPrice * float64(quantity),
		Status:        OrderStatusPending,
		AutoTriggered: autoTriggered,
		Notes:         notes,
		OrderDate:     time.Now(),
	}
}

func (o PurchaseOrder) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}
