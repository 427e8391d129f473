package domain

import "errors"

var (
	// ErrInvalidInput covers malformed or out-of-range request fields. Not
	// retryable; the caller has to fix the payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientData signals a sample too small for the statistic to
	// mean anything. Retrying without more data cannot succeed, so the
	// adapter maps it away from the generic validation code.
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrRateLimited      = errors.New("rate limited")
	ErrTimeout          = errors.New("analysis deadline exceeded")
	// ErrModelFit is returned when the fitted pricing model violates its own
	// sanity constraints (e.g. a non-negative fraud coefficient).
	ErrModelFit = errors.New("pricing model fit failed")
)
