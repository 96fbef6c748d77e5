package ride

import (
	"time"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain/geo"
	"github.com/google/uuid"
)

// Ride is the aggregate root for a single trip. Rides are never deleted.
type Ride struct {
	id       uuid.UUID
	driverID string
	riderID  string
	start    geo.Point
	end      geo.Point
	status   RideStatus

	acceptedAt   *time.Time
	startedAt    *time.Time
	completedAt  *time.Time
	cancelledAt  *time.Time
	cancelReason string

	createdAt time.Time
	updatedAt time.Time
}

// NewRide creates a new Ride with status=requested.
func NewRide(driverID, riderID string, start, end geo.Point) (*Ride, error) {
	if driverID == "" {
		return nil, domain.NewValidationError("driver ID is required")
	}
	if riderID == "" {
		return nil, domain.NewValidationError("rider ID is required")
	}
	if err := start.Validate(); err != nil {
		return nil, err
	}
	if err := end.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Ride{
		id:        uuid.New(),
		driverID:  driverID,
		riderID:   riderID,
		start:     start,
		end:       end,
		status:    StatusRequested,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// --- Getters ---

// ID returns the ride's unique identifier.
func (r *Ride) ID() uuid.UUID { return r.id }

// DriverID returns the assigned driver's ID.
func (r *Ride) DriverID() string { return r.driverID }

// RiderID returns the requesting rider's ID.
func (r *Ride) RiderID() string { return r.riderID }

// StartLocation returns the pickup point.
func (r *Ride) StartLocation() geo.Point { return r.start }

// EndLocation returns the destination point.
func (r *Ride) EndLocation() geo.Point { return r.end }

// Status returns the current ride status.
func (r *Ride) Status() RideStatus { return r.status }

// AcceptedAt returns the time the driver accepted the ride.
func (r *Ride) AcceptedAt() *time.Time { return r.acceptedAt }

// StartedAt returns the time the ride started.
func (r *Ride) StartedAt() *time.Time { return r.startedAt }

// CompletedAt returns the time the ride completed.
func (r *Ride) CompletedAt() *time.Time { return r.completedAt }

// CancelledAt returns the time the ride was cancelled.
func (r *Ride) CancelledAt() *time.Time { return r.cancelledAt }

// CancelReason returns the cancellation reason.
func (r *Ride) CancelReason() string { return r.cancelReason }

// CreatedAt returns the creation timestamp.
func (r *Ride) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (r *Ride) UpdatedAt() time.Time { return r.updatedAt }

// --- Behavior ---

// Accept transitions the ride from requested to accepted.
func (r *Ride) Accept() error {
	if !r.status.CanTransitionTo(StatusAccepted) {
		return domain.NewInvalidStateError(string(r.status), string(StatusAccepted))
	}
	now := time.Now().UTC()
	r.status = StatusAccepted
	r.acceptedAt = &now
	r.updatedAt = now
	return nil
}

// Start transitions the ride from requested or accepted to in_progress.
func (r *Ride) Start() error {
	if !r.status.CanTransitionTo(StatusInProgress) {
		return domain.NewInvalidStateError(string(r.status), string(StatusInProgress))
	}
	now := time.Now().UTC()
	r.status = StatusInProgress
	r.startedAt = &now
	r.updatedAt = now
	return nil
}

// Complete transitions the ride from in_progress to completed.
func (r *Ride) Complete() error {
	if !r.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(r.status), string(StatusCompleted))
	}
	now := time.Now().UTC()
	r.status = StatusCompleted
	r.completedAt = &now
	r.updatedAt = now
	return nil
}

// Cancel transitions the ride to cancelled if it is not in a terminal state.
func (r *Ride) Cancel(reason string) error {
	if !r.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(r.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	r.status = StatusCancelled
	r.cancelReason = reason
	r.cancelledAt = &now
	r.updatedAt = now
	return nil
}

// ReleasesDriver reports whether reaching this ride's status frees its driver.
func (r *Ride) ReleasesDriver() bool {
	return r.status.IsTerminal()
}
