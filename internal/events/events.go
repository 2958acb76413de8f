package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/cadence/internal/domain"
)

// Event types
const (
	TypeIntroduced = "review.introduced"
	TypeGraded     = "review.graded"
	TypePostponed  = "review.postponed"
)

// ReviewEvent describes one scheduling decision.
type ReviewEvent struct {
	ID   uuid.UUID `json:"id"`
	Type string    `json:"type"`

	// Grade is empty for events that are not grading events
	Grade     domain.Grade     `json:"grade,omitempty"`
	LatencyMs *int64           `json:"latency_ms,omitempty"`
	Progress  *domain.Progress `json:"progress"`

	// At is the scheduling instant the decision was made for
	At time.Time `json:"at"`
}

// NewReviewEvent creates a ReviewEvent of the given type. The progress record
// is cloned so later changes by the caller do not leak into handlers.
func NewReviewEvent(eventType string, progress *domain.Progress, at time.Time) *ReviewEvent {
	return &ReviewEvent{
		ID:       uuid.New(),
		Type:     eventType,
		Progress: progress.Clone(),
		At:       at,
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *ReviewEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows handlers to publish events without knowing their subscribers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *ReviewEvent) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *ReviewEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *ReviewEvent) error {
	return f(ctx, event)
}
