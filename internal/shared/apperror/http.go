package apperror

import (
	"context"
	"errors"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
}

// ToHTTP maps any error returned by a service to the status, kind and
// message written to the client. Errors that are not *AppError never leak
// their text.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return HTTPError{
			Status:  ErrRequestTimeout.HTTPStatus,
			Code:    ErrRequestTimeout.Code,
			Message: ErrRequestTimeout.Message,
		}
	}

	return HTTPError{
		Status:  ErrInternal.HTTPStatus,
		Code:    ErrInternal.Code,
		Message: ErrInternal.Message,
	}
}
