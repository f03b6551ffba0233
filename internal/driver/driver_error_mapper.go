package driver

import (
	"errors"

	drivererrors "go-fleet/internal/driver/errors"
	"go-fleet/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
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
		return drivererrors.ErrDriverNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_driver_tenant_license" {
		return drivererrors.ErrDriverAlreadyExists
	}

	return err
}

func MapRepositoryError(err error) error {
	return mapRepositoryError(err)
}
