package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrCompareLimit       = errors.New("COMPARE_LIMIT")
	ErrCompareTooFew      = errors.New("COMPARE_TOO_FEW")
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrUnknownGuide       = errors.New("UNKNOWN_GUIDE")
	ErrStateUnavailable   = errors.New("STATE_UNAVAILABLE")
)
