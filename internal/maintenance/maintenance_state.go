package maintenance

import (
	"fmt"

	maintenanceerrors "go-fleet/internal/maintenance/errors"
)

var transitions = map[string][]string{
	StatusScheduled:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func CheckTransition(from, to string) error {
	if from == to {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return maintenanceerrors.ErrInvalidTransition.WithMessage(
		fmt.Sprintf("Cannot change maintenance status from %s to %s", from, to),
	)
}
