package effect

import (
	"context"
	"math/rand"
	"time"

	"emberforge/core/logging"
	loggingcombat "emberforge/core/logging/combat"
	loggingstatus "emberforge/core/logging/status"
	"emberforge/core/status"
	"emberforge/core/tags"
)

// Combatant is the narrow capability surface the executor reads and writes
// through. Entities are owned by the world collaborator; the core never
// constructs or destroys them.
type Combatant interface {
	ID() string
	Kind() logging.EntityKind
	Team() string
	Position() (x, y float64)
	Health() float64
	MaxHealth() float64
	Alive() bool
	Resistance(damageTag string) float64
	CritChance() float64
	CritDamage() float64
	Statuses() *status.Set
}

// SpawnSpec carries the computed parameters for a summon request. The world
// collaborator decides whether and how the spawn happens.
type SpawnSpec struct {
	Kind    string
	OwnerID string
	Count   int
	X       float64
	Y       float64
}

// World is the outbound mutation surface. All side effects are delegated
// through it; the core owns no entity storage.
type World interface {
	Combatant(id string) (Combatant, bool)
	ApplyDamage(target Combatant, amount float64)
	Heal(target Combatant, amount float64)
	RequestDisplacement(target Combatant, dx, dy float64)
	RequestTeleport(target Combatant, x, y float64)
	RequestSpawn(spec SpawnSpec)
}

// TargetOutcome records what one execution did to one target.
type TargetOutcome struct {
	ID              string
	Damage          float64
	Crit            bool
	Killed          bool
	Executed        bool
	Reflected       float64
	StatusesApplied []status.Kind
}

// Result aggregates an execution across its whole target set.
type Result struct {
	Targets     []TargetOutcome
	Skipped     []string
	TotalDamage float64
	Healed      float64
}

// Executor is the interpreter over resolved effect configs. All dependencies
// are injected; nothing package-global. The RNG drives crit rolls only, so a
// fixed seed makes executions fully deterministic.
type Executor struct {
	index tags.Index
	world World
	rng   *rand.Rand
	pub   logging.Publisher
}

func NewExecutor(index tags.Index, world World, seed int64, pub logging.Publisher) *Executor {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	return &Executor{
		index: index,
		world: world,
		rng:   rand.New(rand.NewSource(seed)),
		pub:   pub,
	}
}

// Reseed resets the crit RNG; tests use it to replay identical executions.
func (e *Executor) Reseed(seed int64) {
	e.rng = rand.New(rand.NewSource(seed))
}

// Execute runs the damage, status, and special-mechanic phases in fixed order
// for every target. A target that dies or disappears mid-sequence has its
// remaining phases skipped; execution continues for the others.
func (e *Executor) Execute(cfg *Config, source Combatant, targets []Candidate, tick uint64, now time.Time) *Result {
	res := &Result{}
	if e == nil || cfg == nil || source == nil {
		return res
	}
	ctx := context.Background()

	filtered := e.filterTargets(cfg, source, targets)
	falloff := cfg.GeometryParam(tags.ParamHopFalloff, 1)

	for hop, cand := range filtered {
		target, ok := e.world.Combatant(cand.ID)
		if !ok || !target.Alive() {
			res.Skipped = append(res.Skipped, cand.ID)
			continue
		}
		outcome := TargetOutcome{ID: cand.ID}

		hopMult := 1.0
		if hop > 0 && falloff < 1 {
			hopMult = pow(falloff, hop)
		}

		e.damagePhase(ctx, cfg, source, target, hopMult, tick, &outcome)
		res.TotalDamage += outcome.Damage

		if !target.Alive() {
			outcome.Killed = true
			loggingcombat.Kill(ctx, e.pub, tick, entityRef(source), entityRef(target))
			res.Targets = append(res.Targets, outcome)
			continue
		}

		e.statusPhase(ctx, cfg, source, target, now, tick, &outcome)
		e.specialPhase(ctx, cfg, source, target, now, tick, &outcome)

		res.Targets = append(res.Targets, outcome)
	}

	e.finishExecution(ctx, cfg, source, filtered, tick, now, res)
	return res
}

// filterTargets applies the config's context tags. A self-targeted effect
// ignores the finder's output entirely and operates on the caster.
func (e *Executor) filterTargets(cfg *Config, source Combatant, targets []Candidate) []Candidate {
	if cfg.HasContext(tags.TagSelf) {
		x, y := source.Position()
		return []Candidate{{ID: source.ID(), X: x, Y: y}}
	}
	if len(cfg.ContextTags) == 0 {
		return targets
	}
	filtered := make([]Candidate, 0, len(targets))
	for _, cand := range targets {
		target, ok := e.world.Combatant(cand.ID)
		if !ok {
			continue
		}
		if cfg.HasContext(tags.TagEnemy) && target.Team() == source.Team() {
			continue
		}
		if cfg.HasContext(tags.TagAlly) && (target.Team() != source.Team() || target.ID() == source.ID()) {
			continue
		}
		if cfg.HasContext(tags.TagPlayerOnly) && target.Kind() != logging.EntityKindPlayer {
			continue
		}
		filtered = append(filtered, cand)
	}
	return filtered
}

func (e *Executor) damagePhase(ctx context.Context, cfg *Config, source, target Combatant, hopMult float64, tick uint64, outcome *TargetOutcome) {
	if cfg.BaseDamage <= 0 || len(cfg.DamageTags) == 0 {
		return
	}

	crit := cfg.GuaranteedCrit
	if !crit {
		chance := clampFloat(source.CritChance()+cfg.CritChanceBonus, 0, 1)
		crit = chance > 0 && e.rng.Float64() < chance
	}
	critMult := cfg.CritDamageMult
	if critMult <= 0 {
		critMult = source.CritDamage()
	}

	dealtMult := source.Statuses().DamageDealtMultiplier()
	takenMult := target.Statuses().DamageTakenMultiplier()

	for _, dmgTag := range cfg.DamageTags {
		raw := cfg.BaseDamage * cfg.DamageMults[dmgTag] * hopMult * dealtMult
		resist := clampFloat(target.Resistance(dmgTag), 0, 1)
		final := raw * (1 - resist)
		if crit {
			final *= critMult
		}
		final *= takenMult
		if final <= 0 {
			continue
		}
		absorbed := target.Statuses().AbsorbDamage(final)
		dealt := final - absorbed
		if dealt > 0 {
			e.world.ApplyDamage(target, dealt)
		}
		outcome.Damage += dealt
		loggingcombat.Damage(ctx, e.pub, tick, entityRef(source), entityRef(target), loggingcombat.DamagePayload{
			DamageType: dmgTag,
			Raw:        raw,
			Final:      dealt,
			Crit:       crit,
			Absorbed:   absorbed,
		})
	}
	outcome.Crit = crit

	// Active reflect on the target sends a fraction straight back. Source
	// attribution is a lookup, not a strong reference; a vanished attacker
	// means the reflection silently no-ops.
	if pct := target.Statuses().ReflectPercent(); pct > 0 && outcome.Damage > 0 {
		attacker, ok := e.world.Combatant(source.ID())
		if ok && attacker.Alive() {
			amount := pct * outcome.Damage
			e.world.ApplyDamage(attacker, amount)
			outcome.Reflected = amount
			loggingcombat.Reflected(ctx, e.pub, tick, entityRef(target), entityRef(attacker), loggingcombat.ReflectedPayload{Amount: amount})
		}
	}
}

func (e *Executor) statusPhase(ctx context.Context, cfg *Config, source, target Combatant, now time.Time, tick uint64, outcome *TargetOutcome) {
	for _, spec := range cfg.Statuses {
		applied := target.Statuses().Apply(status.Application{
			Kind:         spec.Kind,
			SourceID:     source.ID(),
			Magnitude:    spec.Magnitude,
			Duration:     spec.Duration,
			TickInterval: spec.TickInterval,
			MaxStacks:    spec.MaxStacks,
		}, now)
		if !applied.Applied && !applied.Refreshed {
			continue
		}
		payload := loggingstatus.AppliedPayload{
			Kind:       string(spec.Kind),
			SourceID:   source.ID(),
			Magnitude:  spec.Magnitude,
			DurationMs: spec.Duration.Milliseconds(),
			Stacks:     applied.Stacks,
		}
		if applied.Applied {
			outcome.StatusesApplied = append(outcome.StatusesApplied, spec.Kind)
			loggingstatus.Applied(ctx, e.pub, tick, entityRef(source), entityRef(target), payload)
		} else {
			loggingstatus.Refreshed(ctx, e.pub, tick, entityRef(source), entityRef(target), payload)
		}
	}
}

func (e *Executor) specialPhase(ctx context.Context, cfg *Config, source, target Combatant, now time.Time, tick uint64, outcome *TargetOutcome) {
	for _, special := range cfg.SpecialTags {
		handler, ok := mechanicHandlers[special]
		if !ok {
			continue
		}
		handler(e, &mechanicContext{
			ctx:     ctx,
			cfg:     cfg,
			source:  source,
			target:  target,
			now:     now,
			tick:    tick,
			outcome: outcome,
		})
		if !target.Alive() {
			return
		}
	}
}

// finishExecution applies the execution-scoped mechanics that depend on the
// whole target set rather than one target.
func (e *Executor) finishExecution(ctx context.Context, cfg *Config, source Combatant, targets []Candidate, tick uint64, now time.Time, res *Result) {
	if cfg.HasSpecial(tags.TagLifesteal) && res.TotalDamage > 0 && source.Alive() {
		pct := clampFloat(cfg.SpecialParam(tags.ParamLifestealPercent, 0), 0, 1)
		if pct > 0 {
			healed := pct * res.TotalDamage
			e.world.Heal(source, healed)
			res.Healed = healed
			loggingcombat.Lifesteal(ctx, e.pub, tick, entityRef(source), loggingcombat.LifestealPayload{Healed: healed})
		}
	}
	if cfg.HasSpecial(tags.TagSummon) {
		x, y := source.Position()
		e.world.RequestSpawn(SpawnSpec{
			Kind:    tags.TagSummon,
			OwnerID: source.ID(),
			Count:   int(cfg.SpecialParam(tags.ParamSummonCount, 1)),
			X:       x,
			Y:       y,
		})
	}
	if cfg.HasSpecial(tags.TagTeleport) && len(targets) > 0 {
		maxRange := cfg.SpecialParam(tags.ParamTeleportRange, 6)
		dest := targets[0]
		sx, sy := source.Position()
		dx := dest.X - sx
		dy := dest.Y - sy
		if d := distance(sx, sy, dest.X, dest.Y); d > maxRange && d > 0 {
			scale := maxRange / d
			dx *= scale
			dy *= scale
		}
		e.world.RequestTeleport(source, sx+dx, sy+dy)
	}
	// Phase is a hand-off contract like summon and teleport: the caster gains
	// a timed status and the movement/targeting owners consult IsPhased.
	if cfg.HasSpecial(tags.TagPhase) {
		duration := secondsToDuration(cfg.SpecialParam(tags.ParamPhaseDuration, 2))
		if duration > 0 {
			source.Statuses().Apply(status.Application{
				Kind:     status.KindPhase,
				SourceID: source.ID(),
				Duration: duration,
			}, now)
		}
	}
}

func entityRef(c Combatant) logging.EntityRef {
	if c == nil {
		return logging.EntityRef{}
	}
	return logging.EntityRef{ID: c.ID(), Kind: c.Kind()}
}

func pow(base float64, exp int) float64 {
	out := 1.0
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}
