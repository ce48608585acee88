package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/drm/pkg/types"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("content c1: %w", types.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", types.ErrUnauthorized, http.StatusForbidden, "UNAUTHORIZED_SIGNER"},
		{"retry", types.ErrRetry, http.StatusConflict, "RETRY"},
		{"duplicate content", types.ErrDuplicateContent, http.StatusConflict, "DUPLICATE_CONTENT"},
		{"invalid capacity", types.ErrInvalidCapacity, http.StatusBadRequest, "INVALID_CAPACITY"},
		{"capacity exceeded", types.ErrCapacityExceeded, http.StatusUnprocessableEntity, "CAPACITY_EXCEEDED"},
		{"insufficient funds", types.ErrInsufficientFunds, http.StatusPaymentRequired, "INSUFFICIENT_FUNDS"},
		{"license expired", types.ErrLicenseExpired, http.StatusUnprocessableEntity, "LICENSE_EXPIRED"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, msg := mapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, msg, "disk")
			} else {
				assert.Equal(t, tt.err.Error(), msg)
			}
		})
	}
}
