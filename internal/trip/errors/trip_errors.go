package triperrors

import (
	"go-fleet/internal/shared/apperror"
	"net/http"
)

var (
	ErrTripNotFound = apperror.New(
		apperror.CodeNotFound,
		"Trip not found",
		http.StatusNotFound,
	)
	ErrTripAlreadyExists = apperror.New(
		apperror.CodeDuplicateKey,
		"Trip number already exists",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"Trip status transition is not allowed",
		http.StatusBadRequest,
	)
	ErrInvalidSchedule = apperror.New(
		apperror.CodeInvalidInput,
		"Scheduled end must be after scheduled start",
		http.StatusBadRequest,
	)
)
