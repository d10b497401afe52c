package errors

import "net/http"

var (
	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Latitude must be in [-90, 90] and longitude in [-180, 180]",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrDatasetError = New(
		"DATASET_ERROR",
		"Boundary dataset is malformed or unavailable",
		http.StatusInternalServerError,
	)

	ErrRemoteTimeout = New(
		"REMOTE_TIMEOUT",
		"Remote boundary service did not answer in time, retry later",
		http.StatusGatewayTimeout,
	)

	ErrRemoteUnavailable = New(
		"REMOTE_UNAVAILABLE",
		"Remote boundary service unavailable, retry later",
		http.StatusBadGateway,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
