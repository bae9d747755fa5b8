package commons

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	apperrors "radagast/internal/errors"
)

type ErrorResponse struct {
	TraceID   string                       `json:"traceId"`
	Status    int                          `json:"status"`
	Code      string                       `json:"code"`
	Message   string                       `json:"message"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func WriteError(w http.ResponseWriter, logger *zap.Logger, traceID string, status int, code, message string, details ...apperrors.ValidationDetail) {
	WriteJSON(w, logger, status, ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}

// WriteServiceError maps typed service errors onto HTTP statuses.
// Unrecognized errors become an opaque 500.
func WriteServiceError(w http.ResponseWriter, logger *zap.Logger, traceID string, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message, ve.Details...)
		return
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		WriteError(w, logger, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsInsufficientStockError(err); ok {
		WriteError(w, logger, traceID, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK", err.Error())
		return
	}
	if _, ok := apperrors.IsInvalidRoleError(err); ok {
		WriteError(w, logger, traceID, http.StatusForbidden, "INVALID_ROLE", err.Error())
		return
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		WriteError(w, logger, traceID, http.StatusConflict, "CONFLICT", err.Error())
		return
	}

	logger.Error("unexpected error", zap.String("traceId", traceID), zap.Error(err))
	WriteError(w, logger, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}
