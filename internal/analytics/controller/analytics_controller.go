package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/analytics/service"
	"radagast/internal/commons"
)

type AnalyticsService interface {
	Dashboard(ctx context.Context) (*service.Dashboard, error)
	WarehouseTurnover(ctx context.Context, warehouse string) (*service.WarehouseTurnover, error)
}

type AnalyticsController struct {
	service AnalyticsService
	logger  *zap.Logger
}

func NewAnalyticsController(service AnalyticsService, logger *zap.Logger) *AnalyticsController {
	return &AnalyticsController{
		service: service,
		logger:  logger,
	}
}

func (c *AnalyticsController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	dashboard, err := c.service.Dashboard(r.Context())
	if err != nil {
		commons.WriteServiceError(w, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, dashboard)
}

func (c *AnalyticsController) GetWarehouseTurnover(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	warehouse := chi.URLParam(r, "warehouse")
	if warehouse == "" {
		commons.WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "warehouse is required")
		return
	}

	turnover, err := c.service.WarehouseTurnover(r.Context(), warehouse)
	if err != nil {
		commons.WriteServiceError(w, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, turnover)
}
