package tenanterrors

import (
	"go-fleet/internal/shared/apperror"
	"net/http"
)

var (
	ErrTenantNotFound = apperror.New(
		apperror.CodeNotFound,
		"Organization not found",
		http.StatusNotFound,
	)
	ErrTenantEmailExists = apperror.New(
		apperror.CodeDuplicateKey,
		"An organization with this email already exists",
		http.StatusConflict,
	)
	ErrTenantSlugExists = apperror.New(
		apperror.CodeDuplicateKey,
		"Organization slug is already taken",
		http.StatusConflict,
	)
	ErrTenantInactive = apperror.New(
		apperror.CodeForbidden,
		"Organization is deactivated",
		http.StatusForbidden,
	)
	ErrQuotaExceeded = apperror.New(
		apperror.CodeQuotaExceeded,
		"Plan limit reached",
		http.StatusForbidden,
	)
)
