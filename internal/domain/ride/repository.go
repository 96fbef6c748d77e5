package ride

import (
	"context"

	"github.com/google/uuid"
)

// DriverRepository defines the registry contract for drivers.
type DriverRepository interface {
	// FindByID retrieves a driver by its identifier.
	FindByID(ctx context.Context, id string) (*Driver, error)

	// List returns all drivers in registration order.
	List(ctx context.Context) ([]*Driver, error)

	// Save registers a new driver.
	Save(ctx context.Context, driver *Driver) error

	// Update persists changes to an existing driver.
	Update(ctx context.Context, driver *Driver) error
}

// RiderRepository defines the registry contract for riders.
type RiderRepository interface {
	// FindByID retrieves a rider by its identifier.
	FindByID(ctx context.Context, id string) (*Rider, error)

	// Save registers a new rider.
	Save(ctx context.Context, rider *Rider) error
}

// RideRepository defines the registry contract for rides.
type RideRepository interface {
	// FindByID retrieves a ride by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Ride, error)

	// List returns all rides in creation order.
	List(ctx context.Context) ([]*Ride, error)

	// CountByStatus returns ride counts grouped by status.
	CountByStatus(ctx context.Context) (map[RideStatus]int64, error)

	// Save persists a new ride.
	Save(ctx context.Context, ride *Ride) error

	// Update persists changes to an existing ride.
	Update(ctx context.Context, ride *Ride) error
}
