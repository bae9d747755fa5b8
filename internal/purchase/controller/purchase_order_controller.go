package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/commons"
	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
)

type PurchaseOrderService interface {
	CreateManual(ctx context.Context, productID, buyerID uint, quantity int, notes string) (*domain.PurchaseOrder, error)
	Approve(ctx context.Context, orderID uint) (*domain.PurchaseOrder, error)
	Complete(ctx context.Context, orderID uint) (*domain.PurchaseOrder, error)
	Cancel(ctx context.Context, orderID uint) (*domain.PurchaseOrder, error)
	GetByID(ctx context.Context, orderID uint) (*domain.PurchaseOrder, error)
	GetAll(ctx context.Context) ([]domain.PurchaseOrder, error)
	GetByBuyer(ctx context.Context, buyerID uint) ([]domain.PurchaseOrder, error)
	GetByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.PurchaseOrder, error)
	GetAutoTriggered(ctx context.Context) ([]domain.PurchaseOrder, error)
}

type PurchaseOrderController struct {
	service PurchaseOrderService
	logger  *zap.Logger
}

func NewPurchaseOrderController(service PurchaseOrderService, logger *zap.Logger) *PurchaseOrderController {
	return &PurchaseOrderController{
		service: service,
		logger:  logger,
	}
}

func (c *PurchaseOrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON")
		return
	}

	if validationErr := validateCreateRequest(req); validationErr != nil {
		ve, _ := apperrors.IsValidationError(validationErr)
		commons.WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message, ve.Details...)
		return
	}

	order, err := c.service.CreateManual(r.Context(), req.ProductID, req.BuyerID, req.Quantity, req.Notes)
	if err != nil {
		commons.WriteServiceError(w, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusCreated, ToPurchaseOrderDTO(*order))
}

func validateCreateRequest(req CreateOrderRequest) error {
	var details []apperrors.ValidationDetail

	if req.ProductID == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId is required",
		})
	}

	if req.BuyerID == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "buyerId",
			Message: "buyerId is required",
		})
	}

	if req.Quantity <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be a positive integer",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func (c *PurchaseOrderController) ApproveOrder(w http.ResponseWriter, r *http.Request) {
	c.changeStatus(w, r, c.service.Approve)
}

func (c *PurchaseOrderController) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	c.changeStatus(w, r, c.service.Complete)
}

func (c *PurchaseOrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	c.changeStatus(w, r, c.service.Cancel)
}

func (c *PurchaseOrderController) changeStatus(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, orderID uint) (*domain.PurchaseOrder, error),
) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, err := parseOrderID(r)
	if err != nil {
		commons.WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "orderId must be a positive integer")
		return
	}

	order, serviceErr := change(r.Context(), orderID)
	if serviceErr != nil {
		commons.WriteServiceError(w, logger, traceID, serviceErr)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, ToPurchaseOrderDTO(*order))
}

func (c *PurchaseOrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, err := parseOrderID(r)
	if err != nil {
		commons.WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "orderId must be a positive integer")
		return
	}

	order, serviceErr := c.service.GetByID(r.Context(), orderID)
	if serviceErr != nil {
		commons.WriteServiceError(w, logger, traceID, serviceErr)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, ToPurchaseOrderDTO(*order))
}

// ListOrders filters by buyerId, status or autoTriggered query
// parameters; with no filter it returns every order.
func (c *PurchaseOrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	query := r.URL.Query()

	var (
		orders []domain.PurchaseOrder
		err    error
	)

	switch {
	case query.Get("buyerId") != "":
		buyerID, parseErr := strconv.ParseUint(query.Get("buyerId"), 10, 64)
		if parseErr != nil {
			commons.WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "buyerId must be a positive integer")
			return
		}
		orders, err = c.service.GetByBuyer(r.Context(), uint(buyerID))

	case query.Get("status") != "":
		status := domain.OrderStatus(query.Get("status"))
		switch status {
		case domain.OrderStatusPending, domain.OrderStatusApproved, domain.OrderStatusCompleted, domain.OrderStatusCancelled:
		default:
			commons.WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "status must be PENDING, APPROVED, COMPLETED or CANCELLED")
			return
		}
		orders, err = c.service.GetByStatus(r.Context(), status)

	case query.Get("autoTriggered") == "true":
		orders, err = c.service.GetAutoTriggered(r.Context())

	default:
		orders, err = c.service.GetAll(r.Context())
	}

	if err != nil {
		commons.WriteServiceError(w, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, ToPurchaseOrderDTOs(orders))
}

func parseOrderID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
