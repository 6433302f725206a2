package crafting

import (
	"context"

	"emberforge/core/logging"
)

const (
	// EventEvaluated is emitted when a crafting attempt's difficulty and
	// reward have been computed.
	EventEvaluated logging.EventType = "crafting.evaluated"
)

type EvaluatedPayload struct {
	Discipline       string  `json:"discipline"`
	DifficultyPoints float64 `json:"difficultyPoints"`
	Performance      float64 `json:"performance"`
	RewardMultiplier float64 `json:"rewardMultiplier"`
}

func Evaluated(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload EvaluatedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventEvaluated,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCrafting,
		Payload:  payload,
	})
}
