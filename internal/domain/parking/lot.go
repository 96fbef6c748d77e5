package parking

import (
	"fmt"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain"
)

// Lot owns an ordered set of levels. Level order is the allocation priority.
//
// Lot is not safe for concurrent use; callers serialize access.
type Lot struct {
	levels     []*Level
	totalSlots int
}

// NewLot creates a lot with levelCount levels of slotsPerLevel slots each.
func NewLot(levelCount, slotsPerLevel int) (*Lot, error) {
	if levelCount <= 0 {
		return nil, domain.NewValidationError(fmt.Sprintf("level count must be positive, got %d", levelCount))
	}
	if slotsPerLevel <= 0 {
		return nil, domain.NewValidationError(fmt.Sprintf("slots per level must be positive, got %d", slotsPerLevel))
	}

	levels := make([]*Level, levelCount)
	for i := range levels {
		levels[i] = newLevel(i+1, slotsPerLevel)
	}
	return &Lot{levels: levels, totalSlots: levelCount * slotsPerLevel}, nil
}

// Levels returns the levels in scan order.
func (l *Lot) Levels() []*Level {
	out := make([]*Level, len(l.levels))
	copy(out, l.levels)
	return out
}

// TotalSlots returns the fixed capacity of the lot.
func (l *Lot) TotalSlots() int { return l.totalSlots }

// Park assigns the vehicle to the first free slot, scanning levels then
// slots in construction order. It returns false when the lot is full.
//
// Park does not check whether the plate is already parked elsewhere.
func (l *Lot) Park(v Vehicle) (*Slot, bool) {
	for _, level := range l.levels {
		slot := level.firstAvailable()
		if slot == nil {
			continue
		}
		if err := slot.Park(v); err != nil {
			// unreachable: firstAvailable only returns free slots
			continue
		}
		return slot, true
	}
	return nil, false
}

// Release frees the first slot holding the plate and returns its former
// occupant. Nothing changes when the plate is not parked.
func (l *Lot) Release(plate string) (Vehicle, *Slot, bool) {
	slot, ok := l.Locate(plate)
	if !ok {
		return Vehicle{}, nil, false
	}
	v, _ := slot.Vacate()
	return v, slot, true
}

// Locate returns the first slot holding the plate, in scan order.
func (l *Lot) Locate(plate string) (*Slot, bool) {
	for _, level := range l.levels {
		if slot := level.find(plate); slot != nil {
			return slot, true
		}
	}
	return nil, false
}

// Slot returns the slot at the given level and number, both starting at 1.
func (l *Lot) Slot(level, number int) (*Slot, bool) {
	if level < 1 || level > len(l.levels) {
		return nil, false
	}
	slot := l.levels[level-1].slot(number)
	return slot, slot != nil
}

// AvailableCount returns the number of free slots across all levels.
func (l *Lot) AvailableCount() int {
	count := 0
	for _, level := range l.levels {
		count += level.availableCount()
	}
	return count
}

// OccupiedCount returns the number of taken slots across all levels.
func (l *Lot) OccupiedCount() int {
	return len(l.OccupiedSlots())
}

// OccupiedSlots returns every taken slot in scan order.
func (l *Lot) OccupiedSlots() []*Slot {
	var out []*Slot
	for _, level := range l.levels {
		for _, slot := range level.slots {
			if !slot.IsAvailable() {
				out = append(out, slot)
			}
		}
	}
	return out
}
