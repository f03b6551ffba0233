package usererrors

import (
	"net/http"

	"go-fleet/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrUserAlreadyExists = apperror.New(
		apperror.CodeDuplicateKey,
		"A user with this email already exists in your organization",
		http.StatusConflict,
	)

	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"Role must be one of: superadmin, admin, manager, driver",
		http.StatusBadRequest,
	)

	ErrRoleAssignment = apperror.New(
		apperror.CodeForbidden,
		"You are not allowed to assign this role",
		http.StatusForbidden,
	)

	ErrSelfDeactivation = apperror.New(
		apperror.CodeInvalidInput,
		"You cannot deactivate your own account",
		http.StatusBadRequest,
	)
)
