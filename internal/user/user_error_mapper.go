package user

import (
	"errors"

	"go-fleet/internal/shared/apperror"
	usererrors "go-fleet/internal/user/errors"

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
		return usererrors.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_user_tenant_email" {
		return usererrors.ErrUserAlreadyExists
	}

	return err
}

// MapRepositoryError is used by auth, which creates users inside its own
// transactions.
func MapRepositoryError(err error) error {
	return mapRepositoryError(err)
}
