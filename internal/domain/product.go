package domain

import "time"

type Product struct {
	ID               uint
	Name             string
	Description      string
	Quantity         int
	ReorderThreshold int
	Price            float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OutOfStock reports whether the product has no sellable units left.
func (p Product) OutOfStock() bool {
	return p.Quantity <= 0
}

// BelowReorderPoint reports whether on-hand stock has dropped to the
// level that triggers reactive auto-replenishment. The two-unit margin
// below the threshold avoids re-ordering on every borderline sale.
func (p Product) BelowReorderPoint() bool {
	return p.Quantity <= p.ReorderThreshold-2
}

// InventoryValue is the on-hand stock valued at the current unit price.
func (p Product) InventoryValue() float64 {
	if p.Quantity <= 0 {
		return 0
	}
	return p.Price * float64(p.Quantity)
}
