package autherrors

import (
	"net/http"

	"go-fleet/internal/shared/apperror"
)

var (
	ErrMissingToken = apperror.New(
		apperror.CodeMissingToken,
		"Not authorized, no token provided",
		http.StatusUnauthorized,
	)

	ErrInvalidToken = apperror.New(
		apperror.CodeInvalidToken,
		"Not authorized, invalid token",
		http.StatusUnauthorized,
	)

	ErrTokenExpired = apperror.New(
		apperror.CodeTokenExpired,
		"Not authorized, token expired",
		http.StatusUnauthorized,
	)

	ErrAccountDeactivated = apperror.New(
		apperror.CodeAccountDeactivated,
		"Account is deactivated",
		http.StatusUnauthorized,
	)

	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid credentials",
		http.StatusUnauthorized,
	)

	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to perform this action",
		http.StatusForbidden,
	)



	ErrAmbiguousTenant = apperror.New(
		apperror.CodeInvalidInput,
		"Multiple organizations use this email; specify tenantSlug",
		http.StatusBadRequest,
	)

	ErrPasswordTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"Password must be at least 6 characters",
		http.StatusBadRequest,
	)
)
