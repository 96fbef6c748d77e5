package repository

import (
	"context"
	"sync"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain"
	rideDomain "github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain/ride"
)

// MemoryDriverRepository keeps drivers in registration order, which is the
// order nearest-driver matching breaks ties by.
type MemoryDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*rideDomain.Driver
	order   []string
}

// NewMemoryDriverRepository creates an empty MemoryDriverRepository.
func NewMemoryDriverRepository() *MemoryDriverRepository {
	return &MemoryDriverRepository{drivers: make(map[string]*rideDomain.Driver)}
}

// FindByID retrieves a driver by its identifier.
func (r *MemoryDriverRepository) FindByID(_ context.Context, id string) (*rideDomain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drivers[id]
	if !ok {
		return nil, domain.NewNotFoundError("Driver", id)
	}
	return d, nil
}

// List returns all drivers in registration order.
func (r *MemoryDriverRepository) List(_ context.Context) ([]*rideDomain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	drivers := make([]*rideDomain.Driver, len(r.order))
	for i, id := range r.order {
		drivers[i] = r.drivers[id]
	}
	return drivers, nil
}

// Save registers a new driver.
func (r *MemoryDriverRepository) Save(_ context.Context, d *rideDomain.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.drivers[d.ID()]; exists {
		return domain.NewConflictError("driver already registered: " + d.ID())
	}
	r.drivers[d.ID()] = d
	r.order = append(r.order, d.ID())
	return nil
}

// Update persists changes to an existing driver.
func (r *MemoryDriverRepository) Update(_ context.Context, d *rideDomain.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.drivers[d.ID()]; !exists {
		return domain.NewNotFoundError("Driver", d.ID())
	}
	r.drivers[d.ID()] = d
	return nil
}

// MemoryRiderRepository is the in-memory implementation of RiderRepository.
type MemoryRiderRepository struct {
	mu     sync.RWMutex
	riders map[string]*rideDomain.Rider
}

// NewMemoryRiderRepository creates an empty MemoryRiderRepository.
func NewMemoryRiderRepository() *MemoryRiderRepository {
	return &MemoryRiderRepository{riders: make(map[string]*rideDomain.Rider)}
}

// FindByID retrieves a rider by its identifier.
func (r *MemoryRiderRepository) FindByID(_ context.Context, id string) (*rideDomain.Rider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rider, ok := r.riders[id]
	if !ok {
		return nil, domain.NewNotFoundError("Rider", id)
	}
	return rider, nil
}

// Save registers a new rider.
func (r *MemoryRiderRepository) Save(_ context.Context, rider *rideDomain.Rider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.riders[rider.ID()]; exists {
		return domain.NewConflictError("rider already registered: " + rider.ID())
	}
	r.riders[rider.ID()] = rider
	return nil
}
