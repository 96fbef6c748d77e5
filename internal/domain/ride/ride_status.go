package ride

import (
	"slices"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain"
)

// RideStatus is a step in a ride's lifecycle. The set is closed; anything
// outside it has no transitions and counts as terminal.
type RideStatus string

const (
	StatusRequested  RideStatus = "requested"
	StatusAccepted   RideStatus = "accepted"
	StatusInProgress RideStatus = "in_progress"
	StatusCompleted  RideStatus = "completed"
	StatusCancelled  RideStatus = "cancelled"
)

// nextStatuses lists, per status, the statuses a ride may move to.
//
// A matched ride already has its driver reserved, so the driver may start it
// straight from requested; accepted is an optional confirmation step in
// between. Completed and cancelled rides have released their driver and
// never move again.
var nextStatuses = map[RideStatus][]RideStatus{
	StatusRequested:  {StatusAccepted, StatusInProgress, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  nil,
	StatusCancelled:  nil,
}

// AllStatuses lists every status in lifecycle order.
func AllStatuses() []RideStatus {
	return []RideStatus{StatusRequested, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled}
}

// IsValid reports whether s is one of the lifecycle statuses.
func (s RideStatus) IsValid() bool {
	_, ok := nextStatuses[s]
	return ok
}

// CanTransitionTo reports whether a ride in status s may move to target.
func (s RideStatus) CanTransitionTo(target RideStatus) bool {
	return slices.Contains(nextStatuses[s], target)
}

// IsTerminal reports whether s has no outgoing transitions. Unknown
// statuses are terminal.
func (s RideStatus) IsTerminal() bool {
	return len(nextStatuses[s]) == 0
}

// CanBeCancelled reports whether a ride in status s may still be called off.
func (s RideStatus) CanBeCancelled() bool {
	return s.CanTransitionTo(StatusCancelled)
}

func (s RideStatus) String() string {
	return string(s)
}

// ParseRideStatus accepts only the exact lowercase status names.
func ParseRideStatus(s string) (RideStatus, error) {
	status := RideStatus(s)
	if !status.IsValid() {
		return "", domain.NewValidationError("unknown ride status: " + s)
	}
	return status, nil
}
