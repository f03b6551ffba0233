package vehicle

import (
	"errors"

	"go-fleet/internal/shared/apperror"
	vehicleerrors "go-fleet/internal/vehicle/errors"

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
		return vehicleerrors.ErrVehicleNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_vehicle_tenant_reg" {
		return vehicleerrors.ErrVehicleAlreadyExists
	}

	return err
}

// MapRepositoryError is used by trips and maintenance, which lock and
// update vehicles inside their own transactions.
func MapRepositoryError(err error) error {
	return mapRepositoryError(err)
}
