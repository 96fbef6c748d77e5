package parking

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustVehicle(t *testing.T, vt VehicleType, plate string) Vehicle {
	t.Helper()
	v, err := NewVehicle(vt, plate)
	require.NoError(t, err)
	return v
}

func mustLot(t *testing.T, levels, slots int) *Lot {
	t.Helper()
	lot, err := NewLot(levels, slots)
	require.NoError(t, err)
	return lot
}

func TestNewLot(t *testing.T) {
	lot := mustLot(t, 3, 10)
	assert.Equal(t, 30, lot.TotalSlots())
	assert.Equal(t, 30, lot.AvailableCount())
	assert.Zero(t, lot.OccupiedCount())

	levels := lot.Levels()
	require.Len(t, levels, 3)
	for i, level := range levels {
		assert.Equal(t, i+1, level.Number())
		slots := level.Slots()
		require.Len(t, slots, 10)
		assert.Equal(t, 1, slots[0].Number())
		assert.Equal(t, 10, slots[9].Number())
		assert.Equal(t, i+1, slots[0].Level())
	}
}

func TestNewLot_InvalidDimensions(t *testing.T) {
	_, err := NewLot(0, 10)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewLot(2, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLot_ParkIsFirstFit(t *testing.T) {
	lot := mustLot(t, 2, 2)

	var got []string
	for i := 0; i < 4; i++ {
		slot, ok := lot.Park(mustVehicle(t, VehicleTypeCar, fmt.Sprintf("CAR%d", i)))
		require.True(t, ok)
		got = append(got, fmt.Sprintf("%d-%d", slot.Level(), slot.Number()))
	}
	assert.Equal(t, []string{"1-1", "1-2", "2-1", "2-2"}, got)

	// A freed slot on level 1 is preferred over anything later in scan order.
	_, _, ok := lot.Release("CAR1")
	require.True(t, ok)
	slot, ok := lot.Park(mustVehicle(t, VehicleTypeBike, "BIKE"))
	require.True(t, ok)
	assert.Equal(t, 1, slot.Level())
	assert.Equal(t, 2, slot.Number())
}

func TestLot_ParkIntoFullLotMutatesNothing(t *testing.T) {
	lot := mustLot(t, 1, 2)
	_, ok := lot.Park(mustVehicle(t, VehicleTypeCar, "A"))
	require.True(t, ok)
	_, ok = lot.Park(mustVehicle(t, VehicleTypeCar, "B"))
	require.True(t, ok)

	before := lot.OccupiedSlots()
	slot, ok := lot.Park(mustVehicle(t, VehicleTypeTruck, "C"))
	assert.False(t, ok)
	assert.Nil(t, slot)
	assert.Equal(t, before, lot.OccupiedSlots())
	assert.Zero(t, lot.AvailableCount())

	_, found := lot.Locate("C")
	assert.False(t, found)
}

func TestLot_ReleaseUnknownPlateMutatesNothing(t *testing.T) {
	lot := mustLot(t, 2, 3)
	_, ok := lot.Park(mustVehicle(t, VehicleTypeCar, "ABC123"))
	require.True(t, ok)

	v, slot, ok := lot.Release("NOPE")
	assert.False(t, ok)
	assert.Nil(t, slot)
	assert.Equal(t, Vehicle{}, v)
	assert.Equal(t, 5, lot.AvailableCount())

	_, found := lot.Locate("ABC123")
	assert.True(t, found)
}

func TestLot_ReleaseReturnsOccupant(t *testing.T) {
	lot := mustLot(t, 3, 10)
	car := mustVehicle(t, VehicleTypeCar, "ABC123")
	bike := mustVehicle(t, VehicleTypeBike, "XYZ789")

	_, ok := lot.Park(car)
	require.True(t, ok)
	_, ok = lot.Park(bike)
	require.True(t, ok)
	assert.Equal(t, 28, lot.AvailableCount())

	v, slot, ok := lot.Release("ABC123")
	require.True(t, ok)
	assert.Equal(t, car, v)
	assert.True(t, slot.IsAvailable())
	assert.Equal(t, 29, lot.AvailableCount())
}

func TestLot_SingleSlotScenario(t *testing.T) {
	lot := mustLot(t, 1, 1)
	a := mustVehicle(t, VehicleTypeCar, "A")
	b := mustVehicle(t, VehicleTypeCar, "B")

	_, ok := lot.Park(a)
	require.True(t, ok)

	_, ok = lot.Park(b)
	assert.False(t, ok)

	_, _, ok = lot.Release("A")
	require.True(t, ok)

	slot, ok := lot.Park(b)
	require.True(t, ok)
	occupant, _ := slot.Occupant()
	assert.Equal(t, b, occupant)
}

func TestLot_ParkAllowsDuplicatePlate(t *testing.T) {
	lot := mustLot(t, 1, 3)
	v := mustVehicle(t, VehicleTypeCar, "DUP")

	first, ok := lot.Park(v)
	require.True(t, ok)
	second, ok := lot.Park(v)
	require.True(t, ok)
	assert.NotEqual(t, first.Number(), second.Number())

	// Release frees the first match in scan order.
	_, slot, ok := lot.Release("DUP")
	require.True(t, ok)
	assert.Equal(t, first.Number(), slot.Number())
}

func TestLot_Slot(t *testing.T) {
	lot := mustLot(t, 2, 4)

	slot, ok := lot.Slot(2, 3)
	require.True(t, ok)
	assert.Equal(t, 2, slot.Level())
	assert.Equal(t, 3, slot.Number())

	for _, tc := range [][2]int{{0, 1}, {3, 1}, {1, 0}, {1, 5}} {
		_, ok := lot.Slot(tc[0], tc[1])
		assert.False(t, ok, "level %d slot %d", tc[0], tc[1])
	}
}

func TestSlot_ParkOccupiedFails(t *testing.T) {
	lot := mustLot(t, 1, 1)
	slot, _ := lot.Slot(1, 1)

	require.NoError(t, slot.Park(mustVehicle(t, VehicleTypeCar, "A")))
	err := slot.Park(mustVehicle(t, VehicleTypeCar, "B"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyOccupied)

	occupant, ok := slot.Occupant()
	require.True(t, ok)
	assert.Equal(t, "A", occupant.Plate)
}

func TestSlot_VacateEmpty(t *testing.T) {
	lot := mustLot(t, 1, 1)
	slot, _ := lot.Slot(1, 1)

	_, ok := slot.Vacate()
	assert.False(t, ok)
}

func TestLot_CountInvariantHoldsUnderRandomOps(t *testing.T) {
	lot := mustLot(t, 3, 4)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		plate := fmt.Sprintf("P%d", rng.Intn(20))
		if rng.Intn(2) == 0 {
			lot.Park(Vehicle{Type: VehicleTypeCar, Plate: plate})
		} else {
			lot.Release(plate)
		}

		occupied := lot.OccupiedCount()
		assert.LessOrEqual(t, occupied, lot.TotalSlots())
		assert.Equal(t, lot.TotalSlots()-occupied, lot.AvailableCount())
	}
}

func TestParseVehicleType(t *testing.T) {
	vt, err := ParseVehicleType(" Truck ")
	require.NoError(t, err)
	assert.Equal(t, VehicleTypeTruck, vt)

	_, err = ParseVehicleType("boat")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewVehicle_Validation(t *testing.T) {
	_, err := NewVehicle(VehicleTypeCar, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewVehicle(VehicleType("hovercraft"), "H1")
	assert.ErrorIs(t, err, domain.ErrValidation)

	v, err := NewVehicle(VehicleTypeBike, " XYZ789 ")
	require.NoError(t, err)
	assert.Equal(t, "XYZ789", v.Plate)
}
