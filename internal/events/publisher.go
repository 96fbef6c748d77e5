package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Publisher delivers domain events.
type Publisher interface {
	Publish(ctx context.Context, event CloudEvent) error
}

// LogPublisher writes every event to a structured logger.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event envelope and payload.
func (p *LogPublisher) Publish(_ context.Context, event CloudEvent) error {
	p.logger.Info("event published",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.String("subject", event.Subject),
		zap.ByteString("data", event.Data),
	)
	return nil
}

// Recorder keeps published events in memory, in publish order.
type Recorder struct {
	mu     sync.Mutex
	events []CloudEvent
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Publish appends the event.
func (r *Recorder) Publish(_ context.Context, event CloudEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []CloudEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CloudEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

// MultiPublisher fans an event out to several publishers. All publishers
// are attempted; the first error is returned.
type MultiPublisher []Publisher

// Publish forwards the event to every publisher.
func (m MultiPublisher) Publish(ctx context.Context, event CloudEvent) error {
	var firstErr error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
