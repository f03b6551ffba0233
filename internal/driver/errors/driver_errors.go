package drivererrors

import (
	"go-fleet/internal/shared/apperror"
	"net/http"
)

var (
	ErrDriverNotFound = apperror.New(
		apperror.CodeNotFound,
		"Driver not found",
		http.StatusNotFound,
	)
	ErrDriverAlreadyExists = apperror.New(
		apperror.CodeDuplicateKey,
		"License number already exists",
		http.StatusConflict,
	)
	ErrVehicleNotFound = apperror.New(
		apperror.CodeNotFound,
		"Assigned vehicle not found",
		http.StatusNotFound,
	)
)
