package counter_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"go-fleet/internal/shared/counter"
	"go-fleet/internal/shared/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRepository_GetNextValue(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.NewString()
	upsert := regexp.QuoteMeta("INSERT INTO tenant_counters")

	t.Run("returns incremented value", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := counter.NewRepository(db)

		mock.ExpectQuery(upsert).
			WithArgs(tenantID, counter.TripNumber).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(int64(42)))

		next, err := repo.GetNextValue(ctx, tenantID, counter.TripNumber)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), next)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates db error", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := counter.NewRepository(db)

		mock.ExpectQuery(upsert).
			WithArgs(tenantID, counter.TripNumber).
			WillReturnError(errors.New("connection reset"))

		next, err := repo.GetNextValue(ctx, tenantID, counter.TripNumber)

		assert.Error(t, err)
		assert.Zero(t, next)
	})
}
