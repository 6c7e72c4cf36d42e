package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProductNotFound is returned when no catalog entry matches a name
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrCatalogNotFound is returned when no catalog snapshot is stored for a merchant
	ErrCatalogNotFound = errors.New("catalog not found")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCompletionFailure is returned when the completion endpoint request fails
	ErrCompletionFailure = errors.New("completion request failed")

	// ErrEmptyCompletion is returned when the endpoint answers without any text
	ErrEmptyCompletion = errors.New("empty completion")

	// ErrNoJSONObject is returned when the completion text holds no {...} object
	ErrNoJSONObject = errors.New("no JSON object in completion")

	// ErrMalformedCompletion is returned when the JSON object does not fit the result shape
	ErrMalformedCompletion = errors.New("malformed completion")

	// ErrInvalidAmount is returned when a money string cannot be parsed
	ErrInvalidAmount = errors.New("invalid amount")
)
