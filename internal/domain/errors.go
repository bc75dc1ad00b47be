package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrInvalidField indicates a request used an unrecognized parameter name
	ErrInvalidField = errors.New("invalid field")

	// ErrInvalidFieldValue indicates a recognized parameter had a malformed value
	ErrInvalidFieldValue = errors.New("invalid value for field")

	// ErrDuplicateField indicates a parameter was supplied more than once
	ErrDuplicateField = errors.New("duplicate value for field")

	// ErrNegativeFieldValue indicates a numeric parameter was below zero
	ErrNegativeFieldValue = errors.New("value for field must be non-negative")

	// ErrNotReady indicates no reload has completed successfully yet
	ErrNotReady = errors.New("server is not ready or unable to serve requests")

	// ErrReloadFailed indicates a reload was aborted; the previous generation stays live
	ErrReloadFailed = errors.New("reload failed")

	// ErrUnsupportedBackend indicates the configured record store is unavailable
	ErrUnsupportedBackend = errors.New("unsupported store backend")
)

// IsInvalidParameter reports whether err is any of the caller-error sentinels
func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidField) ||
		errors.Is(err, ErrInvalidFieldValue) ||
		errors.Is(err, ErrDuplicateField) ||
		errors.Is(err, ErrNegativeFieldValue)
}
