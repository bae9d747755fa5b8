package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/commons"
	"radagast/internal/forecast/service"
)

// DefaultHorizonDays is used when the caller does not pass ?days=.
const DefaultHorizonDays = 30

type ForecastService interface {
	ForecastProduct(ctx context.Context, productID uint, horizonDays int) (*service.ProductForecast, error)
	ForecastAll(ctx context.Context, horizonDays int) (*service.PortfolioForecast, error)
	FastMovers(ctx context.Context, days int) ([]service.FastMover, error)
}

type ForecastController struct {
	service ForecastService
	logger  *zap.Logger
}

func NewForecastController(service ForecastService, logger *zap.Logger) *ForecastController {
	return &ForecastController{
		service: service,
		logger:  logger,
	}
}

func (c *ForecastController) GetPortfolioForecast(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	days, ok := c.parseDays(w, logger, traceID, r.URL.Query().Get("days"))
	if !ok {
		return
	}

	portfolio, err := c.service.ForecastAll(r.Context(), days)
	if err != nil {
		commons.WriteServiceError(w, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, portfolio)
}

func (c *ForecastController) GetProductForecast(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	productIDStr := chi.URLParam(r, "productId")
	productID, err := strconv.ParseUint(productIDStr, 10, 64)
	if err != nil {
		logger.Warn("invalid productId in path", zap.Error(err))
		commons.WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "productId must be a positive integer")
		return
	}

	days, ok := c.parseDays(w, logger, traceID, r.URL.Query().Get("days"))
	if !ok {
		return
	}

	productForecast, err := c.service.ForecastProduct(r.Context(), uint(productID), days)
	if err != nil {
		commons.WriteServiceError(w, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, productForecast)
}

func (c *ForecastController) GetFastMovers(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	days, ok := c.parseDays(w, logger, traceID, r.URL.Query().Get("days"))
	if !ok {
		return
	}

	movers, err := c.service.FastMovers(r.Context(), days)
	if err != nil {
		commons.WriteServiceError(w, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, movers)
}

func (c *ForecastController) parseDays(w http.ResponseWriter, logger *zap.Logger, traceID, raw string) (int, bool) {
	if raw == "" {
		return DefaultHorizonDays, true
	}

	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > 365 {
		commons.WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "days must be an integer between 1 and 365")
		return 0, false
	}

	return days, true
}
