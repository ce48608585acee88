package types

import "errors"

// Instruction errors. Every rejected instruction returns one of these,
// possibly wrapped with context.
var (
	ErrAlreadyInitialized = errors.New("registry already initialized")
	ErrDuplicateContent   = errors.New("content id already in use")
	ErrDuplicateLicense   = errors.New("license id already in use")
	ErrDuplicatePackage   = errors.New("package name already in use")
	ErrInvalidParameters  = errors.New("invalid parameters")
	ErrInvalidCapacity    = errors.New("max licenses below current licenses")
	ErrContentInactive    = errors.New("content is not active")
	ErrCapacityExceeded   = errors.New("no licenses available")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAlreadyRevoked     = errors.New("license already revoked")
	ErrLicenseInactive    = errors.New("license is not active")
	ErrLicenseExpired     = errors.New("license has expired")
	ErrNotFound           = errors.New("record not found")
)

// instructionErrors lists the errors that denote a semantic rejection, as
// opposed to a storage or transport failure.
var instructionErrors = []error{
	ErrAlreadyInitialized,
	ErrDuplicateContent,
	ErrDuplicateLicense,
	ErrDuplicatePackage,
	ErrInvalidParameters,
	ErrInvalidCapacity,
	ErrContentInactive,
	ErrCapacityExceeded,
	ErrInsufficientFunds,
	ErrUnauthorized,
	ErrAlreadyRevoked,
	ErrLicenseInactive,
	ErrLicenseExpired,
	ErrNotFound,
}

// IsRejection reports whether err is (or wraps) an instruction error.
// ErrRetry is not a rejection: the instruction may succeed when resubmitted.
func IsRejection(err error) bool {
	for _, target := range instructionErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
