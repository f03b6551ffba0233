package tenant

import (
	"errors"

	"go-fleet/internal/shared/apperror"
	tenanterrors "go-fleet/internal/tenant/errors"

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
		return tenanterrors.ErrTenantNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_tenant_email":
			return tenanterrors.ErrTenantEmailExists
		case "uq_tenant_slug":
			return tenanterrors.ErrTenantSlugExists
		}
	}

	return err
}

// MapRepositoryError exposes the mapping to services that write tenants
// inside their own transactions.
func MapRepositoryError(err error) error {
	return mapRepositoryError(err)
}
