package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/commons"
	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
)

type LedgerService interface {
	RecordShipment(ctx context.Context, productID uint, quantity int, warehouse, handler string) (*domain.LedgerEvent, error)
	RecordSale(ctx context.Context, productID uint, quantity int, warehouse, handler string) (*domain.LedgerEvent, error)
	RecordReturn(ctx context.Context, productID uint, quantity int, warehouse, handler string) (*domain.LedgerEvent, error)
	GetAllEvents(ctx context.Context) ([]domain.LedgerEvent, error)
	GetEventsByProduct(ctx context.Context, productID uint) ([]domain.LedgerEvent, error)
	GetEventsByWarehouse(ctx context.Context, warehouse string) ([]domain.LedgerEvent, error)
	GetEventsByDateRange(ctx context.Context, from, to time.Time) ([]domain.LedgerEvent, error)
	GetEventsByWarehouseAndDateRange(ctx context.Context, warehouse string, from, to time.Time) ([]domain.LedgerEvent, error)
}

type LedgerController struct {
	service LedgerService
	logger  *zap.Logger
}

func NewLedgerController(service LedgerService, logger *zap.Logger) *LedgerController {
	return &LedgerController{
		service: service,
		logger:  logger,
	}
}

func (c *LedgerController) RecordShipment(w http.ResponseWriter, r *http.Request) {
	c.recordEvent(w, r, c.service.RecordShipment)
}

func (c *LedgerController) RecordSale(w http.ResponseWriter, r *http.Request) {
	c.recordEvent(w, r, c.service.RecordSale)
}

func (c *LedgerController) RecordReturn(w http.ResponseWriter, r *http.Request) {
	c.recordEvent(w, r, c.service.RecordReturn)
}

func (c *LedgerController) recordEvent(
	w http.ResponseWriter,
	r *http.Request,
	record func(ctx context.Context, productID uint, quantity int, warehouse, handler string) (*domain.LedgerEvent, error),
) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req RecordEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON")
		return
	}

	if validationErr := validateRecordRequest(req); validationErr != nil {
		ve, _ := apperrors.IsValidationError(validationErr)
		commons.WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message, ve.Details...)
		return
	}

	event, err := record(r.Context(), req.ProductID, req.Quantity, req.Warehouse, req.Handler)
	if err != nil {
		commons.WriteServiceError(w, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusCreated, ToLedgerEventDTO(*event))
}

func validateRecordRequest(req RecordEventRequest) error {
	var details []apperrors.ValidationDetail

	if req.ProductID == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId is required",
		})
	}

	if req.Quantity <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be a positive integer",
		})
	}

	if req.Warehouse == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "warehouse",
			Message: "warehouse is required",
		})
	}

	if req.Handler == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "handler",
			Message: "handler is required",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

// ListEvents serves transaction history, filterable by product,
// warehouse and date range via query parameters.
func (c *LedgerController) ListEvents(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	query := r.URL.Query()
	warehouse := query.Get("warehouse")
	productIDStr := query.Get("productId")
	fromStr := query.Get("from")
	toStr := query.Get("to")

	var (
		events []domain.LedgerEvent
		err    error
	)

	switch {
	case productIDStr != "":
		productID, parseErr := strconv.ParseUint(productIDStr, 10, 64)
		if parseErr != nil {
			commons.WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "productId must be a positive integer")
			return
		}
		events, err = c.service.GetEventsByProduct(r.Context(), uint(productID))

	case fromStr != "" && toStr != "":
		from, to, parseErr := parseDateRange(fromStr, toStr)
		if parseErr != nil {
			commons.WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "from/to must be RFC 3339 timestamps")
			return
		}
		if warehouse != "" {
			events, err = c.service.GetEventsByWarehouseAndDateRange(r.Context(), warehouse, from, to)
		} else {
			events, err = c.service.GetEventsByDateRange(r.Context(), from, to)
		}

	case warehouse != "":
		events, err = c.service.GetEventsByWarehouse(r.Context(), warehouse)

	default:
		events, err = c.service.GetAllEvents(r.Context())
	}

	if err != nil {
		commons.WriteServiceError(w, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, ToLedgerEventDTOs(events))
}

func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
