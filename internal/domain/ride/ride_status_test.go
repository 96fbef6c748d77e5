package ride

import (
	"testing"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRideStatus_Transitions(t *testing.T) {
	allowed := map[RideStatus][]RideStatus{
		StatusRequested:  {StatusAccepted, StatusInProgress, StatusCancelled},
		StatusAccepted:   {StatusInProgress, StatusCancelled},
		StatusInProgress: {StatusCompleted, StatusCancelled},
	}

	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestRideStatus_Terminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusRequested.IsTerminal())
	assert.False(t, StatusAccepted.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())

	assert.True(t, RideStatus("bogus").IsTerminal())
	assert.False(t, RideStatus("bogus").CanTransitionTo(StatusCancelled))
}

func TestRideStatus_CanBeCancelled(t *testing.T) {
	assert.True(t, StatusRequested.CanBeCancelled())
	assert.True(t, StatusInProgress.CanBeCancelled())
	assert.False(t, StatusCompleted.CanBeCancelled())
	assert.False(t, StatusCancelled.CanBeCancelled())
}

func TestParseRideStatus(t *testing.T) {
	for _, s := range AllStatuses() {
		got, err := ParseRideStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseRideStatus("REQUESTED")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
