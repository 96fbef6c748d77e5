package ride

import (
	"strings"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain/geo"
)

// Driver is a member of the fleet. Only the coordinator flips availability.
type Driver struct {
	id        string
	name      string
	location  geo.Point
	available bool
}

// NewDriver creates a Driver after validating its identity and location.
func NewDriver(id, name string, location geo.Point, available bool) (*Driver, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("driver ID is required")
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}
	return &Driver{
		id:        id,
		name:      strings.TrimSpace(name),
		location:  location,
		available: available,
	}, nil
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() string { return d.id }

// Name returns the driver's display name.
func (d *Driver) Name() string { return d.name }

// Location returns the driver's current position.
func (d *Driver) Location() geo.Point { return d.location }

// IsAvailable reports whether the driver can take a ride.
func (d *Driver) IsAvailable() bool { return d.available }

// MarkUnavailable takes the driver out of the matching pool.
func (d *Driver) MarkUnavailable() { d.available = false }

// MarkAvailable returns the driver to the matching pool.
func (d *Driver) MarkAvailable() { d.available = true }
