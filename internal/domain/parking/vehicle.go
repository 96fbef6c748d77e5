package parking

import (
	"fmt"
	"strings"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain"
)

// VehicleType represents the category of a vehicle.
type VehicleType string

const (
	VehicleTypeCar   VehicleType = "car"
	VehicleTypeBike  VehicleType = "bike"
	VehicleTypeTruck VehicleType = "truck"
)

// IsValid returns true if the vehicle type is recognized.
func (t VehicleType) IsValid() bool {
	switch t {
	case VehicleTypeCar, VehicleTypeBike, VehicleTypeTruck:
		return true
	}
	return false
}

// String returns the string representation of the vehicle type.
func (t VehicleType) String() string {
	return string(t)
}

// ParseVehicleType converts a string to a VehicleType, returning an error if invalid.
func ParseVehicleType(s string) (VehicleType, error) {
	t := VehicleType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid vehicle type: %s", s))
	}
	return t, nil
}

// Vehicle is a value object identified by its license plate.
type Vehicle struct {
	Type  VehicleType `json:"type"`
	Plate string      `json:"plate"`
}

// NewVehicle creates a Vehicle, normalizing the plate.
func NewVehicle(vehicleType VehicleType, plate string) (Vehicle, error) {
	v := Vehicle{Type: vehicleType, Plate: strings.TrimSpace(plate)}
	if err := v.Validate(); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

// Validate checks the vehicle has a known type and a plate.
func (v Vehicle) Validate() error {
	if !v.Type.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid vehicle type: %s", v.Type))
	}
	if strings.TrimSpace(v.Plate) == "" {
		return domain.NewValidationError("license plate is required")
	}
	return nil
}
