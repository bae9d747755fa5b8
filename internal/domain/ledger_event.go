package domain

import "time"

type EventKind string

const (
	EventShipment EventKind = "SHIPMENT"
	EventSale     EventKind = "SALE"
	EventReturn   EventKind = "RETURN"
)

// LedgerEvent is an immutable record of a single stock-affecting
// transaction. Quantity is always the positive magnitude of the
// movement; the kind decides the direction.
type LedgerEvent struct {
	ID         uint
	ProductID  uint
	Quantity   int
	Kind       EventKind
	Warehouse  string
	Handler    string
	Amount     float64
	OccurredAt time.Time
}

// NewLedgerEvent values the movement at the product's unit price at
// event time. The amount is frozen here and never recomputed.
func NewLedgerEvent(product Product, quantity int, kind EventKind, warehouse, handler string) LedgerEvent {
	return LedgerEvent{
		ProductID:  product.ID,
		Quantity:   quantity,
		Kind:       kind,
		Warehouse:  warehouse,
		Handler:    handler,
		Amount:     product.Price * float64(quantity),
		OccurredAt: time.Now(),
	}
}

// QuantityDelta is the signed effect of the event on product stock.
// SHIPMENT and RETURN add stock, SALE removes it.
func (e LedgerEvent) QuantityDelta() int {
	if e.Kind == EventSale {
		return -e.Quantity
	}
	return e.Quantity
}
