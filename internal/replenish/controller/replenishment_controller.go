package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/commons"
	"radagast/internal/replenish/service"
)

type ReplenishmentService interface {
	GetRecommendation(ctx context.Context, productID uint) (*service.Recommendation, error)
	CheckAll(ctx context.Context) (*service.BatchResult, error)
}

type ReplenishmentController struct {
	service ReplenishmentService
	logger  *zap.Logger
}

func NewReplenishmentController(service ReplenishmentService, logger *zap.Logger) *ReplenishmentController {
	return &ReplenishmentController{
		service: service,
		logger:  logger,
	}
}

// GetRecommendation runs the advisory flow for one product. A
// recommendation that demands action places the order before
// responding, so the response always reflects what actually happened.
func (c *ReplenishmentController) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	productID, err := strconv.ParseUint(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		commons.WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "productId must be a positive integer")
		return
	}

	rec, serviceErr := c.service.GetRecommendation(r.Context(), uint(productID))
	if serviceErr != nil {
		commons.WriteServiceError(w, logger, traceID, serviceErr)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, rec)
}

// CheckAll sweeps the whole catalog for products near their reorder
// point.
func (c *ReplenishmentController) CheckAll(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	result, err := c.service.CheckAll(r.Context())
	if err != nil {
		commons.WriteServiceError(w, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, result)
}
