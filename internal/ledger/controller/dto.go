package controller

import (
	"time"

	"radagast/internal/domain"
)

type RecordEventRequest struct {
	ProductID uint   `json:"productId"`
	Quantity  int    `json:"quantity"`
	Warehouse string `json:"warehouse"`
	Handler   string `json:"handler"`
}

type LedgerEventDTO struct {
	ID         uint      `json:"id"`
	ProductID  uint      `json:"productId"`
	Quantity   int       `json:"quantity"`
	Kind       string    `json:"kind"`
	Warehouse  string    `json:"warehouse"`
	Handler    string    `json:"handler"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurredAt"`
}

func ToLedgerEventDTO(e domain.LedgerEvent) LedgerEventDTO {
	return LedgerEventDTO{
		ID:         e.ID,
		ProductID:  e.ProductID,
		Quantity:   e.Quantity,
		Kind:       string(e.Kind),
		Warehouse:  e.Warehouse,
		Handler:    e.Handler,
		Amount:     e.Amount,
		OccurredAt: e.OccurredAt,
	}
}

func ToLedgerEventDTOs(events []domain.LedgerEvent) []LedgerEventDTO {
	dtos := make([]LedgerEventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, ToLedgerEventDTO(e))
	}
	return dtos
}
