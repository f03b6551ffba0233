package trip_test

import (
	"testing"

	"go-fleet/internal/trip"
	triperrors "go-fleet/internal/trip/errors"

	"github.com/stretchr/testify/assert"
)

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{trip.StatusScheduled, trip.StatusInProgress, true},
		{trip.StatusScheduled, trip.StatusCancelled, true},
		{trip.StatusScheduled, trip.StatusDelayed, true},
		{trip.StatusScheduled, trip.StatusCompleted, false},
		{trip.StatusInProgress, trip.StatusCompleted, true},
		{trip.StatusInProgress, trip.StatusDelayed, true},
		{trip.StatusInProgress, trip.StatusScheduled, false},
		{trip.StatusDelayed, trip.StatusInProgress, true},
		{trip.StatusDelayed, trip.StatusCompleted, true},
		{trip.StatusCompleted, trip.StatusInProgress, false},
		{trip.StatusCancelled, trip.StatusScheduled, false},
		{trip.StatusCompleted, trip.StatusCompleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			err := trip.CheckTransition(tt.from, tt.to)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, triperrors.ErrInvalidTransition)
		})
	}
}

func TestFormatTripNumber(t *testing.T) {
	assert.Equal(t, "TRP-00001", trip.FormatTripNumber(1))
	assert.Equal(t, "TRP-12345", trip.FormatTripNumber(12345))
	assert.Equal(t, "TRP-123456", trip.FormatTripNumber(123456))
}
