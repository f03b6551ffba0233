package maintenanceerrors

import (
	"go-fleet/internal/shared/apperror"
	"net/http"
)

var (
	ErrMaintenanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Maintenance log not found",
		http.StatusNotFound,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"Maintenance status transition is not allowed",
		http.StatusBadRequest,
	)
)
