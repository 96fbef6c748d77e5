package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain/geo"
	rideDomain "github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain/ride"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/events"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// AddDriverRequest holds the data needed to register a driver.
type AddDriverRequest struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  geo.Point `json:"location"`
	Available bool      `json:"available"`
}

// AddRiderRequest holds the data needed to register a rider.
type AddRiderRequest struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Location geo.Point `json:"location"`
}

// DriverDTO is the response representation of a driver.
type DriverDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  geo.Point `json:"location"`
	Available bool      `json:"available"`
}

// RiderDTO is the response representation of a rider.
type RiderDTO struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Location geo.Point `json:"location"`
}

// RideDTO is the response representation of a ride.
type RideDTO struct {
	ID             uuid.UUID  `json:"id"`
	DriverID       string     `json:"driver_id"`
	RiderID        string     `json:"rider_id"`
	StartLocation  geo.Point  `json:"start_location"`
	EndLocation    geo.Point  `json:"end_location"`
	Status         string     `json:"status"`
	TripDistanceKm float64    `json:"trip_distance_km"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CancelReason   string     `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// RideStatsDTO holds ride counts for reporting.
type RideStatsDTO struct {
	TotalRides int64            `json:"total_rides"`
	ByStatus   map[string]int64 `json:"by_status"`
}

// RideService is the coordinator for drivers, riders and rides. A single
// mutex serializes every operation that reads and then mutates registries.
type RideService struct {
	mu        sync.Mutex
	drivers   rideDomain.DriverRepository
	riders    rideDomain.RiderRepository
	rides     rideDomain.RideRepository
	publisher events.Publisher
	metrics   *metrics.Recorder
	tracer    trace.Tracer
	logger    *zap.Logger
	source    string
}

// NewRideService creates a new RideService.
func NewRideService(
	drivers rideDomain.DriverRepository,
	riders rideDomain.RiderRepository,
	rides rideDomain.RideRepository,
	publisher events.Publisher,
	recorder *metrics.Recorder,
	tracer trace.Tracer,
	logger *zap.Logger,
	source string,
) *RideService {
	return &RideService{
		drivers:   drivers,
		riders:    riders,
		rides:     rides,
		publisher: publisher,
		metrics:   recorder,
		tracer:    tracer,
		logger:    logger,
		source:    source,
	}
}

// AddDriver registers a driver.
func (s *RideService) AddDriver(ctx context.Context, req AddDriverRequest) (*DriverDTO, error) {
	ctx, span := s.tracer.Start(ctx, "ride.add_driver", trace.WithAttributes(
		attribute.String("driver.id", req.ID),
	))
	defer span.End()

	d, err := rideDomain.NewDriver(req.ID, req.Name, req.Location, req.Available)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.drivers.Save(ctx, d); err != nil {
		recordError(span, err)
		return nil, err
	}
	s.refreshAvailableDrivers(ctx)

	s.logger.Info("driver registered",
		zap.String("driver_id", d.ID()),
		zap.Bool("available", d.IsAvailable()),
	)
	result := toDriverDTO(d)
	return &result, nil
}

// AddRider registers a rider.
func (s *RideService) AddRider(ctx context.Context, req AddRiderRequest) (*RiderDTO, error) {
	ctx, span := s.tracer.Start(ctx, "ride.add_rider", trace.WithAttributes(
		attribute.String("rider.id", req.ID),
	))
	defer span.End()

	r, err := rideDomain.NewRider(req.ID, req.Name, req.Location)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.riders.Save(ctx, r); err != nil {
		recordError(span, err)
		return nil, err
	}

	s.logger.Info("rider registered", zap.String("rider_id", r.ID()))
	result := toRiderDTO(r)
	return &result, nil
}

// RequestRide matches the rider with the nearest available driver. ok is
// false when no driver is available; that is not an error.
func (s *RideService) RequestRide(ctx context.Context, riderID string, destination geo.Point) (*RideDTO, bool, error) {
	ctx, span := s.tracer.Start(ctx, "ride.request", trace.WithAttributes(
		attribute.String("rider.id", riderID),
	))
	defer span.End()

	if err := destination.Validate(); err != nil {
		recordError(span, err)
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rider, err := s.riders.FindByID(ctx, riderID)
	if err != nil {
		recordError(span, err)
		return nil, false, err
	}

	drivers, err := s.drivers.List(ctx)
	if err != nil {
		recordError(span, err)
		return nil, false, fmt.Errorf("failed to list drivers: %w", err)
	}

	driver, distance, found := rideDomain.FindNearest(rider.Location(), drivers)
	if !found {
		s.metrics.ObserveMatch(false, 0)
		span.AddEvent("no_driver_available")
		s.logger.Info("no drivers available", zap.String("rider_id", riderID))
		return nil, false, nil
	}

	r, err := rideDomain.NewRide(driver.ID(), rider.ID(), rider.Location(), destination)
	if err != nil {
		recordError(span, err)
		return nil, false, err
	}

	// The driver is reserved before the ride is saved; a failed save undoes
	// the reservation.
	driver.MarkUnavailable()
	if err := s.drivers.Update(ctx, driver); err != nil {
		driver.MarkAvailable()
		recordError(span, err)
		return nil, false, fmt.Errorf("failed to reserve driver: %w", err)
	}
	if err := s.rides.Save(ctx, r); err != nil {
		recordError(span, err)
		s.unreserveDriver(ctx, driver)
		return nil, false, fmt.Errorf("failed to save ride: %w", err)
	}
	s.metrics.ObserveMatch(true, distance)
	s.refreshAvailableDrivers(ctx)

	span.SetAttributes(
		attribute.String("ride.id", r.ID().String()),
		attribute.String("driver.id", driver.ID()),
		attribute.Float64("match.distance", distance),
	)
	s.logger.Info("ride requested",
		zap.String("ride_id", r.ID().String()),
		zap.String("rider_id", rider.ID()),
		zap.String("driver_id", driver.ID()),
		zap.Float64("distance", distance),
	)
	s.publishRideEvent(ctx, events.RideRequested, r)

	result := toRideDTO(r)
	return &result, true, nil
}

// AcceptRide records the driver's acceptance of a requested ride.
func (s *RideService) AcceptRide(ctx context.Context, rideID uuid.UUID) (*RideDTO, error) {
	return s.transition(ctx, rideID, rideDomain.StatusAccepted, events.RideAccepted, func(r *rideDomain.Ride) error {
		return r.Accept()
	})
}

// StartRide moves a requested or accepted ride to in_progress.
func (s *RideService) StartRide(ctx context.Context, rideID uuid.UUID) (*RideDTO, error) {
	return s.transition(ctx, rideID, rideDomain.StatusInProgress, events.RideStarted, func(r *rideDomain.Ride) error {
		return r.Start()
	})
}

// CompleteRide finishes an in-progress ride and frees its driver.
func (s *RideService) CompleteRide(ctx context.Context, rideID uuid.UUID) (*RideDTO, error) {
	return s.transition(ctx, rideID, rideDomain.StatusCompleted, events.RideCompleted, func(r *rideDomain.Ride) error {
		return r.Complete()
	})
}

// CancelRide cancels a non-terminal ride and frees its driver.
func (s *RideService) CancelRide(ctx context.Context, rideID uuid.UUID, reason string) (*RideDTO, error) {
	return s.transition(ctx, rideID, rideDomain.StatusCancelled, events.RideCancelled, func(r *rideDomain.Ride) error {
		return r.Cancel(reason)
	})
}

// GetRide retrieves a single ride by ID.
func (s *RideService) GetRide(ctx context.Context, rideID uuid.UUID) (*RideDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.rides.FindByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	result := toRideDTO(r)
	return &result, nil
}

// ListRides returns every ride ever created, in creation order.
func (s *RideService) ListRides(ctx context.Context) ([]RideDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rides, err := s.rides.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rides: %w", err)
	}

	dtos := make([]RideDTO, len(rides))
	for i, r := range rides {
		dtos[i] = toRideDTO(r)
	}
	return dtos, nil
}

// GetDriver retrieves a single driver by ID.
func (s *RideService) GetDriver(ctx context.Context, driverID string) (*DriverDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.drivers.FindByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	result := toDriverDTO(d)
	return &result, nil
}

// ListDrivers returns all drivers in registration order.
func (s *RideService) ListDrivers(ctx context.Context) ([]DriverDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drivers, err := s.drivers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	dtos := make([]DriverDTO, len(drivers))
	for i, d := range drivers {
		dtos[i] = toDriverDTO(d)
	}
	return dtos, nil
}

// GetRider retrieves a single rider by ID.
func (s *RideService) GetRider(ctx context.Context, riderID string) (*RiderDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.riders.FindByID(ctx, riderID)
	if err != nil {
		return nil, err
	}
	result := toRiderDTO(r)
	return &result, nil
}

// RideStats returns ride counts grouped by status.
func (s *RideService) RideStats(ctx context.Context) (*RideStatsDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts, err := s.rides.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ride stats: %w", err)
	}

	stats := &RideStatsDTO{ByStatus: make(map[string]int64, len(counts))}
	for status, c := range counts {
		stats.ByStatus[status.String()] = c
		stats.TotalRides += c
	}
	return stats, nil
}

// --- Helpers ---

// transition applies a lifecycle step under the coordinator lock and frees
// the driver when the ride reaches a terminal status.
func (s *RideService) transition(
	ctx context.Context,
	rideID uuid.UUID,
	target rideDomain.RideStatus,
	eventType string,
	apply func(*rideDomain.Ride) error,
) (*RideDTO, error) {
	ctx, span := s.tracer.Start(ctx, "ride.transition", trace.WithAttributes(
		attribute.String("ride.id", rideID.String()),
		attribute.String("ride.target_status", target.String()),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.rides.FindByID(ctx, rideID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	from := r.Status()
	if err := apply(r); err != nil {
		s.metrics.ObserveTransition(target.String(), err)
		recordError(span, err)
		s.logger.Warn("ride transition rejected",
			zap.String("ride_id", rideID.String()),
			zap.String("from", from.String()),
			zap.String("to", target.String()),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.rides.Update(ctx, r); err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to update ride: %w", err)
	}
	s.metrics.ObserveTransition(target.String(), nil)

	if r.ReleasesDriver() {
		if err := s.releaseDriver(ctx, r.DriverID()); err != nil {
			recordError(span, err)
			return nil, err
		}
	}

	s.logger.Info("ride status changed",
		zap.String("ride_id", rideID.String()),
		zap.String("from", from.String()),
		zap.String("to", r.Status().String()),
	)
	s.publishRideEvent(ctx, eventType, r)

	result := toRideDTO(r)
	return &result, nil
}

// releaseDriver makes the driver available again. A driver missing from the
// registry is logged and skipped; any other lookup failure is returned.
func (s *RideService) releaseDriver(ctx context.Context, driverID string) error {
	d, err := s.drivers.FindByID(ctx, driverID)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("driver of finished ride not found", zap.String("driver_id", driverID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load driver %s: %w", driverID, err)
	}
	d.MarkAvailable()
	if err := s.drivers.Update(ctx, d); err != nil {
		return fmt.Errorf("failed to update driver: %w", err)
	}
	s.refreshAvailableDrivers(ctx)
	return nil
}

// unreserveDriver undoes a reservation whose ride could not be saved.
func (s *RideService) unreserveDriver(ctx context.Context, driver *rideDomain.Driver) {
	driver.MarkAvailable()
	if err := s.drivers.Update(ctx, driver); err != nil {
		s.logger.Error("failed to roll back driver reservation",
			zap.String("driver_id", driver.ID()),
			zap.Error(err),
		)
	}
}

func (s *RideService) refreshAvailableDrivers(ctx context.Context) {
	drivers, err := s.drivers.List(ctx)
	if err != nil {
		return
	}
	available := 0
	for _, d := range drivers {
		if d.IsAvailable() {
			available++
		}
	}
	s.metrics.SetDriversAvailable(available)
}

func (s *RideService) publishRideEvent(ctx context.Context, eventType string, r *rideDomain.Ride) {
	evt := events.RideEvent{
		RideID:       r.ID().String(),
		DriverID:     r.DriverID(),
		RiderID:      r.RiderID(),
		Status:       r.Status().String(),
		CancelReason: r.CancelReason(),
		OccurredAt:   time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, s.source, eventType, r.ID().String(), evt)
}

func toDriverDTO(d *rideDomain.Driver) DriverDTO {
	return DriverDTO{
		ID:        d.ID(),
		Name:      d.Name(),
		Location:  d.Location(),
		Available: d.IsAvailable(),
	}
}

func toRiderDTO(r *rideDomain.Rider) RiderDTO {
	return RiderDTO{ID: r.ID(), Name: r.Name(), Location: r.Location()}
}

func toRideDTO(r *rideDomain.Ride) RideDTO {
	return RideDTO{
		ID:             r.ID(),
		DriverID:       r.DriverID(),
		RiderID:        r.RiderID(),
		StartLocation:  r.StartLocation(),
		EndLocation:    r.EndLocation(),
		Status:         r.Status().String(),
		TripDistanceKm: geo.Haversine(r.StartLocation(), r.EndLocation()),
		AcceptedAt:     r.AcceptedAt(),
		StartedAt:      r.StartedAt(),
		CompletedAt:    r.CompletedAt(),
		CancelledAt:    r.CancelledAt(),
		CancelReason:   r.CancelReason(),
		CreatedAt:      r.CreatedAt(),
		UpdatedAt:      r.UpdatedAt(),
	}
}
