package trip

import (
	"errors"

	"go-fleet/internal/shared/apperror"
	triperrors "go-fleet/internal/trip/errors"

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
		return triperrors.ErrTripNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_trip_tenant_number" {
		return triperrors.ErrTripAlreadyExists
	}

	return err
}
