package apperrors

import (
	"errors"
)

var (
	ErrShutdown = errors.New("shutdown error")

	ErrInvalidRequest = errors.New("command or sheet context is missing")

	ErrAuthRequired = errors.New("auth key is required for premium tier")
	ErrAuthInvalid  = errors.New("auth key is unknown or inactive")

	ErrRateLimited         = errors.New("upstream rate limit exceeded")
	ErrUpstream            = errors.New("upstream request failed")
	ErrUnparseableResponse = errors.New("model response is not a valid operation")
	ErrUnknownOperation    = errors.New("operation is outside the vocabulary")

	ErrStoreUnavailable = errors.New("key-value store is unavailable")
	ErrKeyDoesNotExist  = errors.New("auth key does not exist")
	ErrCompanyRequired  = errors.New("company is required")
)
