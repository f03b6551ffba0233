package apperror

import "net/http"

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to perform this action",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"Server error",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	ErrVersionConflict = New(
		CodeVersionConflict,
		"The record was modified concurrently, please retry",
		http.StatusConflict,
	)

	ErrRateLimited = New(
		CodeRateLimited,
		"Too many requests, please try again later",
		http.StatusTooManyRequests,
	)

	ErrRequestTimeout = New(
		CodeRequestTimeout,
		"Request timed out",
		http.StatusServiceUnavailable,
	)
)
