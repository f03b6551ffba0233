package trip

import (
	"fmt"

	triperrors "go-fleet/internal/trip/errors"
)

var transitions = map[string][]string{
	StatusScheduled:  {StatusInProgress, StatusCancelled, StatusDelayed},
	StatusInProgress: {StatusCompleted, StatusCancelled, StatusDelayed},
	StatusDelayed:    {StatusInProgress, StatusCompleted, StatusCancelled},
}

// IsTerminal reports whether a trip in status can no longer move.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// CheckTransition validates a status change. Staying in the same status is
// always allowed.
func CheckTransition(from, to string) error {
	if from == to {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return triperrors.ErrInvalidTransition.WithMessage(
		fmt.Sprintf("Cannot change trip status from %s to %s", from, to),
	)
}

func FormatTripNumber(n int64) string {
	return fmt.Sprintf("TRP-%05d", n)
}
