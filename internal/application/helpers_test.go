package application

import (
	"context"
	"testing"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain/parking"
	rideDomain "github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain/ride"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/events"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/metrics"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testSource = "service-dispatch-test"

// testDeps bundles the observable collaborators shared by both services.
type testDeps struct {
	events  *events.Recorder
	metrics *metrics.Recorder
	spans   *tracetest.SpanRecorder
	logs    *observer.ObservedLogs
	tp      *sdktrace.TracerProvider
	logger  *zap.Logger
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()

	recorder, err := metrics.NewRecorder(prometheus.NewRegistry())
	require.NoError(t, err)

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	core, logs := observer.New(zap.DebugLevel)

	return &testDeps{
		events:  events.NewRecorder(),
		metrics: recorder,
		spans:   spans,
		logs:    logs,
		tp:      tp,
		logger:  zap.New(core),
	}
}

func (d *testDeps) spanNames() []string {
	ended := d.spans.Ended()
	names := make([]string, len(ended))
	for i, s := range ended {
		names[i] = s.Name()
	}
	return names
}

func newTestParkingService(t *testing.T, levels, slots int) (*ParkingService, *testDeps) {
	t.Helper()
	deps := newTestDeps(t)

	lot, err := parking.NewLot(levels, slots)
	require.NoError(t, err)

	svc := NewParkingService(lot, deps.events, deps.metrics, deps.tp.Tracer("parking-test"), deps.logger, testSource)
	return svc, deps
}

func newTestRideService(t *testing.T) (*RideService, *testDeps) {
	t.Helper()
	return newTestRideServiceWith(t, repository.NewMemoryDriverRepository(), repository.NewMemoryRideRepository())
}

func newTestRideServiceWith(
	t *testing.T,
	drivers rideDomain.DriverRepository,
	rides rideDomain.RideRepository,
) (*RideService, *testDeps) {
	t.Helper()
	deps := newTestDeps(t)

	svc := NewRideService(
		drivers,
		repository.NewMemoryRiderRepository(),
		rides,
		deps.events,
		deps.metrics,
		deps.tp.Tracer("ride-test"),
		deps.logger,
		testSource,
	)
	return svc, deps
}

func vehicle(t *testing.T, vt parking.VehicleType, plate string) parking.Vehicle {
	t.Helper()
	v, err := parking.NewVehicle(vt, plate)
	require.NoError(t, err)
	return v
}

// failingDriverRepository injects lookup and update failures into the
// in-memory driver registry.
type failingDriverRepository struct {
	*repository.MemoryDriverRepository
	findErr   error
	updateErr error
}

func (r *failingDriverRepository) FindByID(ctx context.Context, id string) (*rideDomain.Driver, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.MemoryDriverRepository.FindByID(ctx, id)
}

func (r *failingDriverRepository) Update(ctx context.Context, d *rideDomain.Driver) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	return r.MemoryDriverRepository.Update(ctx, d)
}

// failingRideRepository injects save failures into the in-memory ride registry.
type failingRideRepository struct {
	*repository.MemoryRideRepository
	saveErr error
}

func (r *failingRideRepository) Save(ctx context.Context, ride *rideDomain.Ride) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	return r.MemoryRideRepository.Save(ctx, ride)
}
