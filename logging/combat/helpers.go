package combat

import (
	"context"

	"emberforge/core/logging"
)

const (
	// EventDamage is emitted once per target per execution with the summed
	// damage across all damage tags.
	EventDamage logging.EventType = "combat.damage"
	// EventKill is emitted when an execution drops a target to zero health.
	EventKill logging.EventType = "combat.kill"
	// EventExecuted is emitted when the execute mechanic force-kills a target.
	EventExecuted logging.EventType = "combat.executed"
	// EventLifesteal is emitted when a source heals off damage it dealt.
	EventLifesteal logging.EventType = "combat.lifesteal"
	// EventReflected is emitted when damage is redirected to the attacker.
	EventReflected logging.EventType = "combat.reflected"
)

type DamagePayload struct {
	DamageType string  `json:"damageType"`
	Raw        float64 `json:"raw"`
	Final      float64 `json:"final"`
	Crit       bool    `json:"crit,omitempty"`
	Absorbed   float64 `json:"absorbed,omitempty"`
}

type ExecutedPayload struct {
	Threshold      float64 `json:"threshold"`
	HealthFraction float64 `json:"healthFraction"`
}

type LifestealPayload struct {
	Healed float64 `json:"healed"`
}

type ReflectedPayload struct {
	Amount float64 `json:"amount"`
}

func Damage(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload DamagePayload) {
	publish(ctx, pub, EventDamage, tick, actor, target, payload)
}

func Kill(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef) {
	publish(ctx, pub, EventKill, tick, actor, target, nil)
}

func Executed(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload ExecutedPayload) {
	publish(ctx, pub, EventExecuted, tick, actor, target, payload)
}

func Lifesteal(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload LifestealPayload) {
	publish(ctx, pub, EventLifesteal, tick, actor, actor, payload)
}

func Reflected(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload ReflectedPayload) {
	publish(ctx, pub, EventReflected, tick, actor, target, payload)
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
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}
