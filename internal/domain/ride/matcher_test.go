package ride

import (
	"testing"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDriver(t *testing.T, id string, lat, lng float64, available bool) *Driver {
	t.Helper()
	d, err := NewDriver(id, "Driver "+id, geo.Point{Latitude: lat, Longitude: lng}, available)
	require.NoError(t, err)
	return d
}

func TestFindNearest(t *testing.T) {
	origin := geo.Point{Latitude: 40.7126, Longitude: -74.0061}
	far := newTestDriver(t, "far", 40.7129, -74.0061, true)  // 0.0003 away
	near := newTestDriver(t, "near", 40.7128, -74.0061, true) // 0.0002 away

	got, distance, ok := FindNearest(origin, []*Driver{far, near})
	require.True(t, ok)
	assert.Equal(t, "near", got.ID())
	assert.InDelta(t, 0.0002, distance, 1e-9)

	near.MarkUnavailable()
	got, distance, ok = FindNearest(origin, []*Driver{far, near})
	require.True(t, ok)
	assert.Equal(t, "far", got.ID())
	assert.InDelta(t, 0.0003, distance, 1e-9)
}

func TestFindNearest_TieKeepsFirst(t *testing.T) {
	origin := geo.Point{Latitude: 0, Longitude: 0}
	east := newTestDriver(t, "east", 0, 1, true)
	west := newTestDriver(t, "west", 0, -1, true)

	got, _, ok := FindNearest(origin, []*Driver{east, west})
	require.True(t, ok)
	assert.Equal(t, "east", got.ID())

	got, _, ok = FindNearest(origin, []*Driver{west, east})
	require.True(t, ok)
	assert.Equal(t, "west", got.ID())
}

func TestFindNearest_NoneAvailable(t *testing.T) {
	origin := geo.Point{Latitude: 0, Longitude: 0}

	_, _, ok := FindNearest(origin, nil)
	assert.False(t, ok)

	busy := newTestDriver(t, "busy", 0, 0, false)
	_, _, ok = FindNearest(origin, []*Driver{busy, nil})
	assert.False(t, ok)
}

func TestDriverAvailability(t *testing.T) {
	d := newTestDriver(t, "d1", 1, 1, true)
	d.MarkUnavailable()
	assert.False(t, d.IsAvailable())
	d.MarkAvailable()
	assert.True(t, d.IsAvailable())
}

func TestNewDriverAndRider_Validation(t *testing.T) {
	_, err := NewDriver(" ", "x", geo.Point{}, true)
	assert.Error(t, err)

	_, err = NewDriver("d1", "x", geo.Point{Latitude: -95}, true)
	assert.Error(t, err)

	_, err = NewRider("", "x", geo.Point{})
	assert.Error(t, err)

	r, err := NewRider(" r1 ", " Rider 1 ", geo.Point{Latitude: 1, Longitude: 2})
	require.NoError(t, err)
	assert.Equal(t, "r1", r.ID())
	assert.Equal(t, "Rider 1", r.Name())
	assert.Equal(t, geo.Point{Latitude: 1, Longitude: 2}, r.Location())
}
