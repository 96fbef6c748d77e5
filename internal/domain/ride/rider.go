package ride

import (
	"strings"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain/geo"
)

// Rider requests rides. Riders are immutable once registered.
type Rider struct {
	id       string
	name     string
	location geo.Point
}

// NewRider creates a Rider after validating its identity and location.
func NewRider(id, name string, location geo.Point) (*Rider, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("rider ID is required")
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}
	return &Rider{id: id, name: strings.TrimSpace(name), location: location}, nil
}

// ID returns the rider's unique identifier.
func (r *Rider) ID() string { return r.id }

// Name returns the rider's display name.
func (r *Rider) Name() string { return r.name }

// Location returns the rider's pickup position.
func (r *Rider) Location() geo.Point { return r.location }
