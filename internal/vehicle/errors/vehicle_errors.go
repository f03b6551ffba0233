package vehicleerrors

import (
	"go-fleet/internal/shared/apperror"
	"net/http"
)

var (
	ErrVehicleNotFound = apperror.New(
		apperror.CodeNotFound,
		"Vehicle not found",
		http.StatusNotFound,
	)
	ErrVehicleAlreadyExists = apperror.New(
		apperror.CodeDuplicateKey,
		"A vehicle with this registration number already exists in your fleet",
		http.StatusConflict,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"Year is out of range",
		http.StatusBadRequest,
	)
	ErrDriverNotFound = apperror.New(
		apperror.CodeNotFound,
		"Assigned driver not found",
		http.StatusNotFound,
	)
)
