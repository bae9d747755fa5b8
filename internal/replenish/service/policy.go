package service

import (
	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
)

// BuyerPicker selects which buyer an automatic purchase order is placed
// on behalf of.
type BuyerPicker interface {
	PickBuyer(candidates []domain.User) (domain.User, error)
}

// FirstBuyerPicker takes the first candidate. Candidates arrive ordered
// by id, so the pick is stable across runs.
type FirstBuyerPicker struct{}

func (FirstBuyerPicker) PickBuyer(candidates []domain.User) (domain.User, error) {
	if len(candidates) == 0 {
		return domain.User{}, apperrors.NewNotFoundError("no buyer available for automatic replenishment")
	}
	return candidates[0], nil
}
