package httpapi

import (
	"errors"
	"net/http"

	"github.com/mesh-intelligence/drm/pkg/types"
)

// errorMapping pairs a ledger error with its HTTP status and stable code.
type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{types.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{types.ErrUnauthorized, http.StatusForbidden, "UNAUTHORIZED_SIGNER"},
	{types.ErrRetry, http.StatusConflict, "RETRY"},
	{types.ErrAlreadyInitialized, http.StatusConflict, "ALREADY_INITIALIZED"},
	{types.ErrDuplicateContent, http.StatusConflict, "DUPLICATE_CONTENT"},
	{types.ErrDuplicateLicense, http.StatusConflict, "DUPLICATE_LICENSE"},
	{types.ErrDuplicatePackage, http.StatusConflict, "DUPLICATE_PACKAGE"},
	{types.ErrAlreadyRevoked, http.StatusConflict, "ALREADY_REVOKED"},
	{types.ErrInvalidParameters, http.StatusBadRequest, "INVALID_PARAMETERS"},
	{types.ErrInvalidCapacity, http.StatusBadRequest, "INVALID_CAPACITY"},
	{types.ErrInvalidFilter, http.StatusBadRequest, "INVALID_FILTER"},
	{types.ErrContentInactive, http.StatusUnprocessableEntity, "CONTENT_INACTIVE"},
	{types.ErrCapacityExceeded, http.StatusUnprocessableEntity, "CAPACITY_EXCEEDED"},
	{types.ErrLicenseInactive, http.StatusUnprocessableEntity, "LICENSE_INACTIVE"},
	{types.ErrLicenseExpired, http.StatusUnprocessableEntity, "LICENSE_EXPIRED"},
	{types.ErrInsufficientFunds, http.StatusPaymentRequired, "INSUFFICIENT_FUNDS"},
}

// mapError returns the status, code, and client message for err. Errors
// outside the ledger taxonomy are reported as internal without detail.
func mapError(err error) (int, string, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code, err.Error()
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
}
