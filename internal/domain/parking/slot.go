package parking

import "github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain"

// Slot is a single parking space. It is available iff it holds no vehicle.
type Slot struct {
	level    int
	number   int
	occupant *Vehicle
}

func newSlot(level, number int) *Slot {
	return &Slot{level: level, number: number}
}

// Level returns the number of the level owning the slot.
func (s *Slot) Level() int { return s.level }

// Number returns the slot number within its level, starting at 1.
func (s *Slot) Number() int { return s.number }

// IsAvailable reports whether the slot is free.
func (s *Slot) IsAvailable() bool { return s.occupant == nil }

// Occupant returns the parked vehicle, if any.
func (s *Slot) Occupant() (Vehicle, bool) {
	if s.occupant == nil {
		return Vehicle{}, false
	}
	return *s.occupant, true
}

// Park puts the vehicle into the slot. It never overwrites an occupant.
func (s *Slot) Park(v Vehicle) error {
	if !s.IsAvailable() {
		return domain.NewAlreadyOccupiedError(s.level, s.number)
	}
	s.occupant = &v
	return nil
}

// Vacate frees the slot and returns its former occupant.
func (s *Slot) Vacate() (Vehicle, bool) {
	if s.occupant == nil {
		return Vehicle{}, false
	}
	v := *s.occupant
	s.occupant = nil
	return v, true
}

func (s *Slot) holds(plate string) bool {
	return s.occupant != nil && s.occupant.Plate == plate
}
