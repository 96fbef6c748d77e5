package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/application"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/config"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain/parking"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/events"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/logger"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/metrics"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/repository"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+cfg.ServiceName,
		zap.Int("levels", cfg.Parking.Levels),
		zap.Int("slots_per_level", cfg.Parking.SlotsPerLevel),
	)

	ctx := context.Background()

	// Initialize tracing
	tp, shutdownTracing, err := telemetry.Init(ctx, cfg.ServiceName, cfg.AppEnv, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		log.Fatal("failed to initialize metrics", zap.Error(err))
	}

	// Initialize event publisher
	publisher := events.NewLogPublisher(log)

	// Initialize coordinators
	d, err := newDispatcher(cfg, publisher, recorder, tp, log)
	if err != nil {
		log.Fatal("failed to initialize dispatcher", zap.Error(err))
	}

	if err := runDemo(ctx, d, log); err != nil {
		log.Fatal("demo failed", zap.Error(err))
	}

	reportMetrics(registry, log)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracer provider shutdown failed", zap.Error(err))
	}

	log.Info(cfg.ServiceName + " stopped")
}

// dispatcher holds both coordinators.
type dispatcher struct {
	parking *application.ParkingService
	rides   *application.RideService
}

func newDispatcher(
	cfg *config.ServiceConfig,
	publisher events.Publisher,
	recorder *metrics.Recorder,
	tp trace.TracerProvider,
	log *zap.Logger,
) (*dispatcher, error) {
	lot, err := parking.NewLot(cfg.Parking.Levels, cfg.Parking.SlotsPerLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create parking lot: %w", err)
	}

	parkingService := application.NewParkingService(
		lot,
		publisher,
		recorder,
		tp.Tracer("dispatch/parking"),
		log.Named("parking"),
		cfg.ServiceName,
	)

	rideService := application.NewRideService(
		repository.NewMemoryDriverRepository(),
		repository.NewMemoryRiderRepository(),
		repository.NewMemoryRideRepository(),
		publisher,
		recorder,
		tp.Tracer("dispatch/ride"),
		log.Named("ride"),
		cfg.ServiceName,
	)

	return &dispatcher{parking: parkingService, rides: rideService}, nil
}

// runDemo parks and unparks two vehicles, then books one ride end to end.
func runDemo(ctx context.Context, d *dispatcher, log *zap.Logger) error {
	for _, v := range []parking.Vehicle{
		{Type: parking.VehicleTypeCar, Plate: "ABC123"},
		{Type: parking.VehicleTypeBike, Plate: "XYZ789"},
	} {
		if _, ok, err := d.parking.ParkVehicle(ctx, v); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("no slot for %s", v.Plate)
		}
	}
	log.Info("available slots", zap.Int("count", d.parking.AvailableSlots(ctx)))

	if _, err := d.parking.UnparkVehicle(ctx, "ABC123"); err != nil {
		return err
	}
	log.Info("available slots", zap.Int("count", d.parking.AvailableSlots(ctx)))

	drivers := []application.AddDriverRequest{
		{ID: "d1", Name: "d1", Location: geo.Point{Latitude: 40.7128, Longitude: -74.0060}, Available: true},
		{ID: "d2", Name: "d2", Location: geo.Point{Latitude: 40.7127, Longitude: -74.0059}, Available: true},
	}
	for _, req := range drivers {
		if _, err := d.rides.AddDriver(ctx, req); err != nil {
			return err
		}
	}
	if _, err := d.rides.AddRider(ctx, application.AddRiderRequest{
		ID: "r1", Name: "r1", Location: geo.Point{Latitude: 40.7126, Longitude: -74.0061},
	}); err != nil {
		return err
	}

	ride, ok, err := d.rides.RequestRide(ctx, "r1", geo.Point{Latitude: 40.7125, Longitude: -74.0062})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no driver available for r1")
	}

	if _, err := d.rides.StartRide(ctx, ride.ID); err != nil {
		return err
	}
	completed, err := d.rides.CompleteRide(ctx, ride.ID)
	if err != nil {
		return err
	}

	log.Info("ride finished",
		zap.String("ride_id", completed.ID.String()),
		zap.String("driver_id", completed.DriverID),
		zap.String("status", completed.Status),
		zap.Float64("trip_distance_km", completed.TripDistanceKm),
	)
	return nil
}

func reportMetrics(gatherer prometheus.Gatherer, log *zap.Logger) {
	families, err := gatherer.Gather()
	if err != nil {
		log.Error("failed to gather metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		log.Info("metric family",
			zap.String("name", mf.GetName()),
			zap.String("type", mf.GetType().String()),
			zap.Int("series", len(mf.GetMetric())),
		)
	}
}
