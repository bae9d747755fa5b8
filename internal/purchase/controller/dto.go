package controller

import (
	"time"

	"radagast/internal/domain"
)

type CreateOrderRequest struct {
	ProductID uint   `json:"productId"`
	BuyerID   uint   `json:"buyerId"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
}

type PurchaseOrderDTO struct {
	ID             uint       `json:"id"`
	ProductID      uint       `json:"productId"`
	BuyerID        uint       `json:"buyerId"`
	Quantity       int        `json:"quantity"`
	UnitPrice      float64    `json:"unitPrice"`
	TotalAmount    float64    `json:"totalAmount"`
	Status         string     `json:"status"`
	AutoTriggered  bool       `json:"autoTriggered"`
	SupplierInfo   string     `json:"supplierInfo,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	OrderDate      time.Time  `json:"orderDate"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
}

func ToPurchaseOrderDTO(o domain.PurchaseOrder) PurchaseOrderDTO {
	return PurchaseOrderDTO{
		ID:             o.ID,
		ProductID:      o.ProductID,
		BuyerID:        o.BuyerID,
		Quantity:       o.Quantity,
		UnitPrice:      o.UnitPrice,
		TotalAmount:    o.TotalAmount,
		Status:         string(o.Status),
		AutoTriggered:  o.AutoTriggered,
		SupplierInfo:   o.SupplierInfo,
		Notes:          o.Notes,
		OrderDate:      o.OrderDate,
		CompletionDate: o.CompletionDate,
	}
}

func ToPurchaseOrderDTOs(orders []domain.PurchaseOrder) []PurchaseOrderDTO {
	dtos := make([]PurchaseOrderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, ToPurchaseOrderDTO(o))
	}
	return dtos
}
