package fuellogerrors

import (
	"go-fleet/internal/shared/apperror"
	"net/http"
)

var (
	ErrFuelLogNotFound = apperror.New(
		apperror.CodeNotFound,
		"Fuel log not found",
		http.StatusNotFound,
	)
	ErrVehicleNotFound = apperror.New(
		apperror.CodeNotFound,
		"Vehicle not found",
		http.StatusNotFound,
	)
	ErrDriverNotFound = apperror.New(
		apperror.CodeNotFound,
		"Driver not found",
		http.StatusNotFound,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"from and to must be dates (YYYY-MM-DD) with from not after to",
		http.StatusBadRequest,
	)
)
