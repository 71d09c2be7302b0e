package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors_StatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    *HTTPError
		status int
		code   string
	}{
		{"bad request", NewBadRequestError("bad", true, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"unauthorized", NewUnauthorizedError("nope", false), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", NewForbiddenError("nope", false), http.StatusForbidden, "FORBIDDEN"},
		{"not found", NewNotFoundError("missing", true, nil), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", NewConflictError("busy", true, nil), http.StatusConflict, "CONFLICT"},
		{"unprocessable", NewUnprocessableEntityError("dup", true, nil), http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY"},
		{"too many requests", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestCustomCodeWins(t *testing.T) {
	code := "SHIPPING_OPTION_IN_USE"
	err := NewConflictError("in use", true, &code)
	assert.Equal(t, code, err.Code)
}

func TestHTTPError_IsAndAs(t *testing.T) {
	wrapped := fmt.Errorf("deleting: %w", NewNotFoundError("gone", true, nil))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, "gone", httpErr.Message)
}

func TestWithMessage_DoesNotMutate(t *testing.T) {
	base := NewUnauthorizedError("Unauthorized", false)
	custom := base.WithMessage("Invalid email or password")

	assert.Equal(t, "Unauthorized", base.Message)
	assert.Equal(t, "Invalid email or password", custom.Message)
	assert.Equal(t, base.Status, custom.Status)
}
