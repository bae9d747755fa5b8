package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "product not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestNotFoundError_ErrorInterface(t *testing.T) {
	var err error = NewNotFoundError("entity not found")
	assert.NotNil(t, err)
	assert.Equal(t, "entity not found", err.Error())
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "quantity", Message: "quantity must be positive"},
		{Field: "warehouse", Message: "required field"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestInsufficientStockError_Creation(t *testing.T) {
	err := NewInsufficientStockError(7, 10, 4)

	assert.Equal(t, uint(7), err.ProductID)
	assert.Equal(t, 10, err.Requested)
	assert.Equal(t, 4, err.Available)
	assert.Contains(t, err.Error(), "insufficient stock for product 7")
}

func TestInsufficientStockError_IsInsufficientStockError(t *testing.T) {
	var err error = NewInsufficientStockError(1, 5, 0)

	ise, ok := IsInsufficientStockError(err)
	assert.True(t, ok)
	assert.Equal(t, 5, ise.Requested)

	_, ok = IsInsufficientStockError(errors.New("other"))
	assert.False(t, ok)
}

func TestInvalidRoleError(t *testing.T) {
	var err error = NewInvalidRoleError("only buyers can create purchase orders")

	ire, ok := IsInvalidRoleError(err)
	assert.True(t, ok)
	assert.Equal(t, "only buyers can create purchase orders", ire.Error())

	_, ok = IsInvalidRoleError(errors.New("other"))
	assert.False(t, ok)
}

func TestConflictError(t *testing.T) {
	var err error = NewConflictError("order is not in PENDING status")

	ce, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, "order is not in PENDING status", ce.Error())
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
