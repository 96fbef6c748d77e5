package repository

import (
	"context"
	"sync"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain"
	rideDomain "github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain/ride"
	"github.com/google/uuid"
)

// MemoryRideRepository is the in-memory implementation of RideRepository.
// Rides are kept for the lifetime of the process.
type MemoryRideRepository struct {
	mu    sync.RWMutex
	rides map[uuid.UUID]*rideDomain.Ride
	order []uuid.UUID
}

// NewMemoryRideRepository creates an empty MemoryRideRepository.
func NewMemoryRideRepository() *MemoryRideRepository {
	return &MemoryRideRepository{rides: make(map[uuid.UUID]*rideDomain.Ride)}
}

// FindByID retrieves a ride by its unique identifier.
func (r *MemoryRideRepository) FindByID(_ context.Context, id uuid.UUID) (*rideDomain.Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ride, ok := r.rides[id]
	if !ok {
		return nil, domain.NewNotFoundError("Ride", id.String())
	}
	return ride, nil
}

// List returns all rides in creation order.
func (r *MemoryRideRepository) List(_ context.Context) ([]*rideDomain.Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rides := make([]*rideDomain.Ride, len(r.order))
	for i, id := range r.order {
		rides[i] = r.rides[id]
	}
	return rides, nil
}

// CountByStatus returns ride counts grouped by status.
func (r *MemoryRideRepository) CountByStatus(_ context.Context) (map[rideDomain.RideStatus]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[rideDomain.RideStatus]int64)
	for _, ride := range r.rides {
		counts[ride.Status()]++
	}
	return counts, nil
}

// Save persists a new ride.
func (r *MemoryRideRepository) Save(_ context.Context, ride *rideDomain.Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rides[ride.ID()]; exists {
		return domain.NewConflictError("ride already exists: " + ride.ID().String())
	}
	r.rides[ride.ID()] = ride
	r.order = append(r.order, ride.ID())
	return nil
}

// Update persists changes to an existing ride.
func (r *MemoryRideRepository) Update(_ context.Context, ride *rideDomain.Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rides[ride.ID()]; !exists {
		return domain.NewNotFoundError("Ride", ride.ID().String())
	}
	r.rides[ride.ID()] = ride
	return nil
}
