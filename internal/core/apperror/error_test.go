package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactories(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"validation", NewValidation("bad"), CodeValidation, http.StatusBadRequest},
		{"not found", NewNotFound("product", "p-1"), CodeNotFound, http.StatusNotFound},
		{"insufficient stock", NewInsufficientStock("p-1", 5, 2), CodeInsufficientStock, http.StatusUnprocessableEntity},
		{"state transition", NewInvalidStateTransition("purchase order", "pending", "received"), CodeInvalidStateTransition, http.StatusConflict},
		{"concurrent", NewConcurrentModification("purchase order", "po-1"), CodeConcurrentModification, http.StatusConflict},
		{"internal", NewInternal(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
		{"unauthorized", NewUnauthorized("no token"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", NewForbidden("no"), CodeForbidden, http.StatusForbidden},
		{"duplicate", NewDuplicate("product", "sku", "HW-1"), CodeDuplicate, http.StatusConflict},
		{"idempotency conflict", NewIdempotencyConflict("k"), CodeIdempotencyConflict, http.StatusConflict},
		{"idempotency mismatch", NewIdempotencyMismatch("k"), CodeIdempotencyMismatch, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.status, GetHTTPStatus(tt.err))
			assert.True(t, IsCode(tt.err, tt.code))
		})
	}
}

func TestInsufficientStockDetails(t *testing.T) {
	err := NewInsufficientStock("p-1", 5, 2)
	assert.Equal(t, "p-1", err.Details["product_id"])
	assert.Equal(t, int64(5), err.Details["requested"])
	assert.Equal(t, int64(2), err.Details["available"])
}

func TestWrappedErrorsAreRecognised(t *testing.T) {
	wrapped := fmt.Errorf("create sale: %w", NewInsufficientStock("p-1", 3, 0))

	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsInsufficientStock(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(wrapped))

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeInsufficientStock, appErr.Code)
}

func TestPlainErrorIsInternal(t *testing.T) {
	err := errors.New("plain")
	assert.False(t, IsAppError(err))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(err))
	assert.False(t, IsDuplicate(err))
}

func TestCauseAndDetails(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternal(nil).WithCause(cause).WithDetail("op", "list")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, "list", err.Details["op"])
	assert.Equal(t, "VALIDATION_ERROR: bad", NewValidation("bad").Error())
	assert.True(t, IsInvalidStateTransition(NewInvalidStateTransition("po", "a", "b")))
}
