package parking

// Level is one floor of the lot. Slot order is fixed at construction.
type Level struct {
	number int
	slots  []*Slot
}

func newLevel(number, slotCount int) *Level {
	slots := make([]*Slot, slotCount)
	for i := range slots {
		slots[i] = newSlot(number, i+1)
	}
	return &Level{number: number, slots: slots}
}

// Number returns the level number, starting at 1.
func (l *Level) Number() int { return l.number }

// Slots returns the level's slots in scan order.
func (l *Level) Slots() []*Slot {
	out := make([]*Slot, len(l.slots))
	copy(out, l.slots)
	return out
}

// firstAvailable returns the first free slot in scan order.
func (l *Level) firstAvailable() *Slot {
	for _, slot := range l.slots {
		if slot.IsAvailable() {
			return slot
		}
	}
	return nil
}

// find returns the first slot holding the given plate.
func (l *Level) find(plate string) *Slot {
	for _, slot := range l.slots {
		if slot.holds(plate) {
			return slot
		}
	}
	return nil
}

func (l *Level) slot(number int) *Slot {
	if number < 1 || number > len(l.slots) {
		return nil
	}
	return l.slots[number-1]
}

func (l *Level) availableCount() int {
	count := 0
	for _, slot := range l.slots {
		if slot.IsAvailable() {
			count++
		}
	}
	return count
}
