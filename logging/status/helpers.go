package status

import (
	"context"

	"emberforge/core/logging"
)

const (
	// EventApplied is emitted when a status effect lands on an entity.
	EventApplied logging.EventType = "status.applied"
	// EventRefreshed is emitted when a fresh application extends or restacks
	// an existing instance instead of creating a new one.
	EventRefreshed logging.EventType = "status.refreshed"
	// EventExpired is emitted when a stack runs out of duration.
	EventExpired logging.EventType = "status.expired"
)

// AppliedPayload captures details about a status application.
type AppliedPayload struct {
	Kind       string  `json:"kind"`
	SourceID   string  `json:"sourceId,omitempty"`
	Magnitude  float64 `json:"magnitude,omitempty"`
	DurationMs int64   `json:"durationMs,omitempty"`
	Stacks     int     `json:"stacks,omitempty"`
}

// ExpiredPayload captures details about a stack expiry.
type ExpiredPayload struct {
	Kind            string `json:"kind"`
	StacksRemaining int    `json:"stacksRemaining"`
}

// Applied publishes a status application event.
func Applied(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload AppliedPayload) {
	publish(ctx, pub, EventApplied, tick, actor, target, payload)
}

// Refreshed publishes a status refresh event.
func Refreshed(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload AppliedPayload) {
	publish(ctx, pub, EventRefreshed, tick, actor, target, payload)
}

// Expired publishes a stack expiry event.
func Expired(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, payload ExpiredPayload) {
	publish(ctx, pub, EventExpired, tick, target, target, payload)
}

func publish(ctx context.Context, pub logging.Publisher, typ logging.EventType, tick uint64, actor, target logging.EntityRef, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     typ,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryStatus,
		Payload:  payload,
	})
}
