package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain/parking"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/events"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// VehicleDTO is the response representation of a vehicle.
type VehicleDTO struct {
	Type  string `json:"type"`
	Plate string `json:"plate"`
}

// SlotDTO is the response representation of a parking slot.
type SlotDTO struct {
	Level    int         `json:"level"`
	Number   int         `json:"number"`
	Occupant *VehicleDTO `json:"occupant,omitempty"`
}

// LotStatusDTO is a snapshot of lot occupancy.
type LotStatusDTO struct {
	TotalSlots     int       `json:"total_slots"`
	OccupiedSlots  int       `json:"occupied_slots"`
	AvailableSlots int       `json:"available_slots"`
	Occupied       []SlotDTO `json:"occupied"`
}

// ParkingService coordinates the parking lot. One mutex guards the lot.
type ParkingService struct {
	mu        sync.Mutex
	lot       *parking.Lot
	publisher events.Publisher
	metrics   *metrics.Recorder
	tracer    trace.Tracer
	logger    *zap.Logger
	source    string
}

// NewParkingService creates a new ParkingService around an existing lot.
func NewParkingService(
	lot *parking.Lot,
	publisher events.Publisher,
	recorder *metrics.Recorder,
	tracer trace.Tracer,
	logger *zap.Logger,
	source string,
) *ParkingService {
	s := &ParkingService{
		lot:       lot,
		publisher: publisher,
		metrics:   recorder,
		tracer:    tracer,
		logger:    logger,
		source:    source,
	}
	s.metrics.SetSlots(lot.TotalSlots(), lot.AvailableCount())
	return s
}

// ParkVehicle assigns the vehicle to the first free slot. ok is false when
// the lot is full. Plates are trimmed; a plate that is already parked is
// rejected.
func (s *ParkingService) ParkVehicle(ctx context.Context, v parking.Vehicle) (SlotDTO, bool, error) {
	v.Plate = strings.TrimSpace(v.Plate)
	ctx, span := s.tracer.Start(ctx, "parking.park", trace.WithAttributes(
		attribute.String("vehicle.plate", v.Plate),
		attribute.String("vehicle.type", v.Type.String()),
	))
	defer span.End()

	if err := v.Validate(); err != nil {
		s.metrics.ObserveParking("park", metrics.ResultRejected)
		recordError(span, err)
		return SlotDTO{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureNotParked(v.Plate); err != nil {
		s.metrics.ObserveParking("park", metrics.ResultRejected)
		recordError(span, err)
		return SlotDTO{}, false, err
	}

	slot, ok := s.lot.Park(v)
	if !ok {
		s.metrics.ObserveParking("park", metrics.ResultExhausted)
		span.AddEvent("parking_lot_full")
		s.logger.Info("parking lot is full", zap.String("plate", v.Plate))
		return SlotDTO{}, false, nil
	}

	s.metrics.ObserveParking("park", metrics.ResultSuccess)
	s.metrics.SetSlots(s.lot.TotalSlots(), s.lot.AvailableCount())
	span.SetAttributes(attribute.Int("slot.level", slot.Level()), attribute.Int("slot.number", slot.Number()))

	s.logger.Info("vehicle parked",
		zap.String("plate", v.Plate),
		zap.Int("level", slot.Level()),
		zap.Int("slot", slot.Number()),
	)
	s.publishParked(ctx, v, slot)

	return toSlotDTO(slot), true, nil
}

// AssignSlot parks the vehicle in a specific slot, bypassing first-fit. The
// one-slot-per-plate rule still applies.
func (s *ParkingService) AssignSlot(ctx context.Context, level, number int, v parking.Vehicle) (SlotDTO, error) {
	v.Plate = strings.TrimSpace(v.Plate)
	ctx, span := s.tracer.Start(ctx, "parking.assign", trace.WithAttributes(
		attribute.String("vehicle.plate", v.Plate),
		attribute.Int("slot.level", level),
		attribute.Int("slot.number", number),
	))
	defer span.End()

	if err := v.Validate(); err != nil {
		s.metrics.ObserveParking("assign", metrics.ResultRejected)
		recordError(span, err)
		return SlotDTO{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureNotParked(v.Plate); err != nil {
		s.metrics.ObserveParking("assign", metrics.ResultRejected)
		recordError(span, err)
		return SlotDTO{}, err
	}

	slot, ok := s.lot.Slot(level, number)
	if !ok {
		s.metrics.ObserveParking("assign", metrics.ResultNotFound)
		err := domain.NewNotFoundError("Slot", fmt.Sprintf("%d-%d", level, number))
		recordError(span, err)
		return SlotDTO{}, err
	}

	if err := slot.Park(v); err != nil {
		s.metrics.ObserveParking("assign", metrics.ResultRejected)
		recordError(span, err)
		s.logger.Warn("slot assignment rejected",
			zap.String("plate", v.Plate),
			zap.Int("level", level),
			zap.Int("slot", number),
			zap.Error(err),
		)
		return SlotDTO{}, err
	}

	s.metrics.ObserveParking("assign", metrics.ResultSuccess)
	s.metrics.SetSlots(s.lot.TotalSlots(), s.lot.AvailableCount())
	s.logger.Info("vehicle assigned to slot",
		zap.String("plate", v.Plate),
		zap.Int("level", level),
		zap.Int("slot", number),
	)
	s.publishParked(ctx, v, slot)

	return toSlotDTO(slot), nil
}

// UnparkVehicle frees the slot holding the plate and returns the vehicle.
func (s *ParkingService) UnparkVehicle(ctx context.Context, plate string) (VehicleDTO, error) {
	plate = strings.TrimSpace(plate)
	ctx, span := s.tracer.Start(ctx, "parking.unpark", trace.WithAttributes(
		attribute.String("vehicle.plate", plate),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	v, slot, ok := s.lot.Release(plate)
	if !ok {
		s.metrics.ObserveParking("unpark", metrics.ResultNotFound)
		s.logger.Info("vehicle not found in the parking lot", zap.String("plate", plate))
		err := domain.NewNotFoundError("Vehicle", plate)
		recordError(span, err)
		return VehicleDTO{}, err
	}

	s.metrics.ObserveParking("unpark", metrics.ResultSuccess)
	s.metrics.SetSlots(s.lot.TotalSlots(), s.lot.AvailableCount())
	s.logger.Info("vehicle unparked",
		zap.String("plate", plate),
		zap.Int("level", slot.Level()),
		zap.Int("slot", slot.Number()),
	)

	evt := events.VehicleUnparkedEvent{
		Plate:      plate,
		Level:      slot.Level(),
		Slot:       slot.Number(),
		OccurredAt: time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, s.source, events.VehicleUnparked, plate, evt)

	return toVehicleDTO(v), nil
}

// LocateVehicle returns the slot holding the plate.
func (s *ParkingService) LocateVehicle(ctx context.Context, plate string) (SlotDTO, error) {
	plate = strings.TrimSpace(plate)
	_, span := s.tracer.Start(ctx, "parking.locate", trace.WithAttributes(
		attribute.String("vehicle.plate", plate),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.lot.Locate(plate)
	if !ok {
		err := domain.NewNotFoundError("Vehicle", plate)
		recordError(span, err)
		return SlotDTO{}, err
	}
	return toSlotDTO(slot), nil
}

// AvailableSlots returns the number of free slots.
func (s *ParkingService) AvailableSlots(ctx context.Context) int {
	_, span := s.tracer.Start(ctx, "parking.available")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	available := s.lot.AvailableCount()
	span.SetAttributes(attribute.Int("slots.available", available))
	return available
}

// Status returns an occupancy snapshot.
func (s *ParkingService) Status(ctx context.Context) LotStatusDTO {
	_, span := s.tracer.Start(ctx, "parking.status")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	occupied := s.lot.OccupiedSlots()
	dtos := make([]SlotDTO, len(occupied))
	for i, slot := range occupied {
		dtos[i] = toSlotDTO(slot)
	}

	return LotStatusDTO{
		TotalSlots:     s.lot.TotalSlots(),
		OccupiedSlots:  len(occupied),
		AvailableSlots: s.lot.AvailableCount(),
		Occupied:       dtos,
	}
}

// --- Helpers ---

// ensureNotParked rejects a plate that already holds a slot. Callers hold s.mu.
func (s *ParkingService) ensureNotParked(plate string) error {
	existing, parked := s.lot.Locate(plate)
	if !parked {
		return nil
	}
	return domain.NewConflictError(fmt.Sprintf("vehicle %s is already parked at level %d slot %d",
		plate, existing.Level(), existing.Number()))
}

func (s *ParkingService) publishParked(ctx context.Context, v parking.Vehicle, slot *parking.Slot) {
	evt := events.VehicleParkedEvent{
		Plate:       v.Plate,
		VehicleType: v.Type.String(),
		Level:       slot.Level(),
		Slot:        slot.Number(),
		OccurredAt:  time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, s.source, events.VehicleParked, v.Plate, evt)
}

func toVehicleDTO(v parking.Vehicle) VehicleDTO {
	return VehicleDTO{Type: v.Type.String(), Plate: v.Plate}
}

func toSlotDTO(slot *parking.Slot) SlotDTO {
	dto := SlotDTO{Level: slot.Level(), Number: slot.Number()}
	if v, ok := slot.Occupant(); ok {
		occupant := toVehicleDTO(v)
		dto.Occupant = &occupant
	}
	return dto
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func publishEvent(
	ctx context.Context,
	publisher events.Publisher,
	logger *zap.Logger,
	source, eventType, subject string,
	data interface{},
) {
	cloudEvent, err := events.NewCloudEvent(source, eventType, subject, data)
	if err != nil {
		logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := publisher.Publish(ctx, cloudEvent); err != nil {
		logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
