package fuellog

import (
	"errors"

	fuellogerrors "go-fleet/internal/fuellog/errors"
	"go-fleet/internal/shared/apperror"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fuellogerrors.ErrFuelLogNotFound
	}

	return err
}
