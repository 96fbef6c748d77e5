package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dispatch"

// Result label values.
const (
	ResultSuccess   = "success"
	ResultExhausted = "exhausted"
	ResultRejected  = "rejected"
	ResultNotFound  = "not_found"
)

// Recorder holds the collectors for both coordinators.
type Recorder struct {
	SlotsTotal        prometheus.Gauge
	SlotsAvailable    prometheus.Gauge
	ParkingOperations *prometheus.CounterVec
	RideMatches       *prometheus.CounterVec
	RideTransitions   *prometheus.CounterVec
	DriversAvailable  prometheus.Gauge
	MatchDistance     prometheus.Histogram
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		SlotsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "parking",
			Name:      "slots_total",
			Help:      "Total number of parking slots across all levels.",
		}),
		SlotsAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "parking",
			Name:      "slots_available",
			Help:      "Number of free parking slots.",
		}),
		ParkingOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parking",
			Name:      "operations_total",
			Help:      "Parking operations by operation and result.",
		}, []string{"operation", "result"}),
		RideMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ride",
			Name:      "matches_total",
			Help:      "Ride requests by match result.",
		}, []string{"result"}),
		RideTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ride",
			Name:      "transitions_total",
			Help:      "Ride lifecycle transitions by target status and result.",
		}, []string{"status", "result"}),
		DriversAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ride",
			Name:      "drivers_available",
			Help:      "Number of drivers available for matching.",
		}),
		MatchDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ride",
			Name:      "match_distance_degrees",
			Help:      "Euclidean distance between rider and matched driver.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}

	collectors := []prometheus.Collector{
		r.SlotsTotal,
		r.SlotsAvailable,
		r.ParkingOperations,
		r.RideMatches,
		r.RideTransitions,
		r.DriversAvailable,
		r.MatchDistance,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return r, nil
}

// ObserveParking counts a parking operation outcome.
func (r *Recorder) ObserveParking(operation, result string) {
	r.ParkingOperations.WithLabelValues(operation, result).Inc()
}

// SetSlots updates both slot gauges.
func (r *Recorder) SetSlots(total, available int) {
	r.SlotsTotal.Set(float64(total))
	r.SlotsAvailable.Set(float64(available))
}

// ObserveMatch counts a ride request and, on success, the match distance.
func (r *Recorder) ObserveMatch(matched bool, distance float64) {
	if !matched {
		r.RideMatches.WithLabelValues(ResultExhausted).Inc()
		return
	}
	r.RideMatches.WithLabelValues(ResultSuccess).Inc()
	r.MatchDistance.Observe(distance)
}

// ObserveTransition counts a ride lifecycle transition attempt.
func (r *Recorder) ObserveTransition(status string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultRejected
	}
	r.RideTransitions.WithLabelValues(status, result).Inc()
}

// SetDriversAvailable updates the available drivers gauge.
func (r *Recorder) SetDriversAvailable(n int) {
	r.DriversAvailable.Set(float64(n))
}
