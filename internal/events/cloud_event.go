package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const specVersion = "1.0"

// Event types emitted by the dispatch coordinators.
const (
	VehicleParked   = "dispatch.vehicle.parked"
	VehicleUnparked = "dispatch.vehicle.unparked"
	RideRequested   = "dispatch.ride.requested"
	RideAccepted    = "dispatch.ride.accepted"
	RideStarted     = "dispatch.ride.started"
	RideCompleted   = "dispatch.ride.completed"
	RideCancelled   = "dispatch.ride.cancelled"
)

// CloudEvent is a CloudEvents-shaped envelope around an event payload.
type CloudEvent struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	SpecVersion string          `json:"specversion"`
	Type        string          `json:"type"`
	Subject     string          `json:"subject,omitempty"`
	Time        time.Time       `json:"time"`
	Data        json.RawMessage `json:"data"`
}

// NewCloudEvent wraps data in a new envelope.
func NewCloudEvent(source, eventType, subject string, data interface{}) (CloudEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return CloudEvent{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return CloudEvent{
		ID:          uuid.NewString(),
		Source:      source,
		SpecVersion: specVersion,
		Type:        eventType,
		Subject:     subject,
		Time:        time.Now().UTC(),
		Data:        raw,
	}, nil
}

// ParseData decodes the payload into v.
func (e CloudEvent) ParseData(v interface{}) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("failed to parse %s payload: %w", e.Type, err)
	}
	return nil
}

// VehicleParkedEvent is published when a vehicle takes a slot.
type VehicleParkedEvent struct {
	Plate       string    `json:"plate"`
	VehicleType string    `json:"vehicle_type"`
	Level       int       `json:"level"`
	Slot        int       `json:"slot"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// VehicleUnparkedEvent is published when a vehicle leaves its slot.
type VehicleUnparkedEvent struct {
	Plate      string    `json:"plate"`
	Level      int       `json:"level"`
	Slot       int       `json:"slot"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RideEvent is published on every ride lifecycle transition.
type RideEvent struct {
	RideID       string    `json:"ride_id"`
	DriverID     string    `json:"driver_id"`
	RiderID      string    `json:"rider_id"`
	Status       string    `json:"status"`
	CancelReason string    `json:"cancel_reason,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
