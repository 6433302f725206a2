package effect

import (
	"context"
	"time"

	loggingcombat "emberforge/core/logging/combat"
	"emberforge/core/status"
	"emberforge/core/tags"
)

// mechanicContext bundles everything a per-target special handler may need.
type mechanicContext struct {
	ctx     context.Context
	cfg     *Config
	source  Combatant
	target  Combatant
	now     time.Time
	tick    uint64
	outcome *TargetOutcome
}

type mechanicHandler func(e *Executor, mc *mechanicContext)

// mechanicHandlers covers the specials that act on each target. Lifesteal,
// summon, and teleport are execution-scoped and handled after the target loop.
var mechanicHandlers = map[string]mechanicHandler{
	tags.TagKnockback: applyKnockback,
	tags.TagExecute:   applyExecute,
	tags.TagReflect:   applyReflectBuff,
}

// applyKnockback requests a displacement directly away from the source. The
// world validates the path; the request may be shortened or refused.
func applyKnockback(e *Executor, mc *mechanicContext) {
	dist := mc.cfg.SpecialParam(tags.ParamKnockbackDistance, 2)
	if dist <= 0 {
		return
	}
	sx, sy := mc.source.Position()
	tx, ty := mc.target.Position()
	dx, dy, ok := normalize(tx-sx, ty-sy)
	if !ok {
		return
	}
	e.world.RequestDisplacement(mc.target, dx*dist, dy*dist)
}

// applyExecute finishes off a target whose remaining health fraction fell at
// or below the threshold. Runs after the damage phase, so the check sees the
// post-damage health.
func applyExecute(e *Executor, mc *mechanicContext) {
	maxHealth := mc.target.MaxHealth()
	if maxHealth <= 0 {
		return
	}
	threshold := mc.cfg.SpecialParam(tags.ParamExecuteThreshold, 0.2)
	fraction := mc.target.Health() / maxHealth
	if fraction > threshold {
		return
	}
	e.world.ApplyDamage(mc.target, mc.target.Health())
	mc.outcome.Executed = true
	mc.outcome.Killed = true
	loggingcombat.Executed(mc.ctx, e.pub, mc.tick, entityRef(mc.source), entityRef(mc.target), loggingcombat.ExecutedPayload{
		Threshold:      threshold,
		HealthFraction: fraction,
	})
	loggingcombat.Kill(mc.ctx, e.pub, mc.tick, entityRef(mc.source), entityRef(mc.target))
}

// applyReflectBuff grants the target a timed reflect aura. On an effect that
// carries the self context this lands on the caster, which is the common use.
func applyReflectBuff(e *Executor, mc *mechanicContext) {
	pct := clampFloat(mc.cfg.SpecialParam(tags.ParamReflectPercent, 0.3), 0, 1)
	duration := secondsToDuration(mc.cfg.SpecialParam(tags.ParamDuration, 4))
	if pct <= 0 || duration <= 0 {
		return
	}
	res := mc.target.Statuses().Apply(status.Application{
		Kind:      status.KindReflect,
		SourceID:  mc.source.ID(),
		Magnitude: pct,
		Duration:  duration,
	}, mc.now)
	if res.Applied {
		mc.outcome.StatusesApplied = append(mc.outcome.StatusesApplied, status.KindReflect)
	}
}
