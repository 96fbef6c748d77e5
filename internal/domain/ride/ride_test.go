package ride

import (
	"testing"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain/geo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pickup  = geo.Point{Latitude: 40.7126, Longitude: -74.0061}
	dropoff = geo.Point{Latitude: 40.7125, Longitude: -74.0062}
)

func newTestRide(t *testing.T) *Ride {
	t.Helper()
	r, err := NewRide("d1", "r1", pickup, dropoff)
	require.NoError(t, err)
	return r
}

func TestNewRide(t *testing.T) {
	r := newTestRide(t)

	assert.NotEqual(t, uuid.Nil, r.ID())
	assert.Equal(t, StatusRequested, r.Status())
	assert.Equal(t, "d1", r.DriverID())
	assert.Equal(t, "r1", r.RiderID())
	assert.Equal(t, pickup, r.StartLocation())
	assert.Equal(t, dropoff, r.EndLocation())
	assert.False(t, r.CreatedAt().IsZero())
	assert.Nil(t, r.StartedAt())
}

func TestNewRide_UniqueIDs(t *testing.T) {
	seen := make(map[uuid.UUID]struct{})
	for i := 0; i < 1000; i++ {
		r := newTestRide(t)
		_, dup := seen[r.ID()]
		require.False(t, dup)
		seen[r.ID()] = struct{}{}
	}
}

func TestNewRide_Validation(t *testing.T) {
	_, err := NewRide("", "r1", pickup, dropoff)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewRide("d1", "", pickup, dropoff)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewRide("d1", "r1", pickup, geo.Point{Latitude: 100})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRide_HappyPath(t *testing.T) {
	r := newTestRide(t)

	require.NoError(t, r.Start())
	assert.Equal(t, StatusInProgress, r.Status())
	assert.NotNil(t, r.StartedAt())
	assert.False(t, r.ReleasesDriver())

	require.NoError(t, r.Complete())
	assert.Equal(t, StatusCompleted, r.Status())
	assert.NotNil(t, r.CompletedAt())
	assert.True(t, r.ReleasesDriver())
}

func TestRide_AcceptThenStart(t *testing.T) {
	r := newTestRide(t)

	require.NoError(t, r.Accept())
	assert.Equal(t, StatusAccepted, r.Status())
	assert.NotNil(t, r.AcceptedAt())

	err := r.Accept()
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	require.NoError(t, r.Start())
	assert.Equal(t, StatusInProgress, r.Status())
}

func TestRide_CompleteWithoutStart(t *testing.T) {
	r := newTestRide(t)

	err := r.Complete()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, StatusRequested, r.Status())
	assert.Nil(t, r.CompletedAt())
}

func TestRide_StartTwice(t *testing.T) {
	r := newTestRide(t)
	require.NoError(t, r.Start())

	err := r.Start()
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, StatusInProgress, r.Status())
}

func TestRide_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(r *Ride) error
		wantErr bool
	}{
		{"from requested", func(r *Ride) error { return nil }, false},
		{"from accepted", func(r *Ride) error { return r.Accept() }, false},
		{"from in_progress", func(r *Ride) error { return r.Start() }, false},
		{"from completed", func(r *Ride) error {
			if err := r.Start(); err != nil {
				return err
			}
			return r.Complete()
		}, true},
		{"from cancelled", func(r *Ride) error { return r.Cancel("first") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRide(t)
			require.NoError(t, tt.prepare(r))
			before := r.Status()

			err := r.Cancel("rider changed plans")
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidState)
				assert.Equal(t, before, r.Status())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatusCancelled, r.Status())
			assert.Equal(t, "rider changed plans", r.CancelReason())
			assert.NotNil(t, r.CancelledAt())
		})
	}
}
