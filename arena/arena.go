package arena

import (
	"context"
	"fmt"
	"sort"
	"time"

	"emberforge/core/effect"
	"emberforge/core/logging"
	loggingcombat "emberforge/core/logging/combat"
	loggingstatus "emberforge/core/logging/status"
	"emberforge/core/stats"
	"emberforge/core/status"
	"emberforge/core/tags"
)

// Config tunes a world instance. Zero values fall back to sane defaults.
type Config struct {
	CellSize  float64
	Step      time.Duration
	Start     time.Time
	Publisher logging.Publisher
}

const defaultStep = 100 * time.Millisecond

// World is the in-memory entity table backing tests and the demo server. It
// implements the effect package's World collaborator and, through Query, its
// SpatialQuery. The model is single-threaded and step-driven: all calls must
// come from the owning loop.
type World struct {
	pub  logging.Publisher
	step time.Duration

	entities map[string]*Entity
	grid     *spatialGrid

	tick uint64
	now  time.Time

	pendingSpawns []effect.SpawnSpec
}

func NewWorld(cfg Config) *World {
	pub := cfg.Publisher
	if pub == nil {
		pub = logging.NopPublisher()
	}
	step := cfg.Step
	if step <= 0 {
		step = defaultStep
	}
	start := cfg.Start
	if start.IsZero() {
		start = time.Now()
	}
	return &World{
		pub:      pub,
		step:     step,
		entities: make(map[string]*Entity),
		grid:     newSpatialGrid(cfg.CellSize),
		now:      start,
	}
}

// EntitySpec describes a new combatant.
type EntitySpec struct {
	ID        string
	Kind      logging.EntityKind
	Team      string
	X         float64
	Y         float64
	MaxHealth float64
	Base      stats.ValueSet
}

// Spawn adds a combatant at full health. IDs are unique across the world's
// lifetime including corpses.
func (w *World) Spawn(spec EntitySpec) (*Entity, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("arena: spawn requires an id")
	}
	if _, exists := w.entities[spec.ID]; exists {
		return nil, fmt.Errorf("arena: entity %q already exists", spec.ID)
	}
	if spec.MaxHealth <= 0 {
		return nil, fmt.Errorf("arena: entity %q needs positive max health", spec.ID)
	}
	kind := spec.Kind
	if kind == "" {
		kind = logging.EntityKindMonster
	}
	ent := &Entity{
		id:        spec.ID,
		kind:      kind,
		team:      spec.Team,
		x:         spec.X,
		y:         spec.Y,
		health:    spec.MaxHealth,
		maxHealth: spec.MaxHealth,
		stats:     stats.NewComponent(spec.Base),
		world:     w,
	}
	ent.statuses = status.NewSet(ent, status.Definitions())
	ent.stats.Resolve(w.tick)
	w.entities[spec.ID] = ent
	w.grid.Upsert(spec.ID, spec.X, spec.Y)
	return ent, nil
}

// Remove deletes an entity entirely. Dead entities otherwise stay as corpses
// until the owner removes them.
func (w *World) Remove(id string) {
	if _, ok := w.entities[id]; !ok {
		return
	}
	delete(w.entities, id)
	w.grid.Remove(id)
}

// Entity returns the concrete entity for direct inspection in tests.
func (w *World) Entity(id string) (*Entity, bool) {
	ent, ok := w.entities[id]
	return ent, ok
}

// Tick returns the current step counter.
func (w *World) Tick() uint64 { return w.tick }

// Now returns the world clock.
func (w *World) Now() time.Time { return w.now }

// Advance moves the world one fixed step: the clock gains one step interval,
// every live entity's status set ticks exactly once, and stat components cull
// expired temporary sources.
func (w *World) Advance() {
	w.tick++
	w.now = w.now.Add(w.step)
	for _, id := range w.sortedIDs() {
		ent := w.entities[id]
		if !ent.Alive() {
			continue
		}
		ent.statuses.Advance(w.now)
		ent.stats.Resolve(w.tick)
	}
}

func (w *World) sortedIDs() []string {
	ids := make([]string, 0, len(w.entities))
	for id := range w.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Combatant implements effect.World.
func (w *World) Combatant(id string) (effect.Combatant, bool) {
	ent, ok := w.entities[id]
	if !ok {
		return nil, false
	}
	return ent, true
}

// ApplyDamage implements effect.World. Amounts arrive post-mitigation.
func (w *World) ApplyDamage(target effect.Combatant, amount float64) {
	ent, ok := w.entities[target.ID()]
	if !ok || amount <= 0 {
		return
	}
	ent.health -= amount
	if ent.health < 0 {
		ent.health = 0
	}
}

// Heal implements effect.World.
func (w *World) Heal(target effect.Combatant, amount float64) {
	ent, ok := w.entities[target.ID()]
	if !ok || amount <= 0 || !ent.Alive() {
		return
	}
	ent.health += amount
	if ent.health > ent.maxHealth {
		ent.health = ent.maxHealth
	}
}

// RequestDisplacement implements effect.World. The arena has no obstacles, so
// the vector is applied as requested.
func (w *World) RequestDisplacement(target effect.Combatant, dx, dy float64) {
	ent, ok := w.entities[target.ID()]
	if !ok {
		return
	}
	ent.x += dx
	ent.y += dy
	w.grid.Upsert(ent.id, ent.x, ent.y)
}

// RequestTeleport implements effect.World.
func (w *World) RequestTeleport(target effect.Combatant, x, y float64) {
	ent, ok := w.entities[target.ID()]
	if !ok {
		return
	}
	ent.x = x
	ent.y = y
	w.grid.Upsert(ent.id, ent.x, ent.y)
}

// RequestSpawn implements effect.World. Specs queue until the owning loop
// drains them; the arena never instantiates summons on its own.
func (w *World) RequestSpawn(spec effect.SpawnSpec) {
	w.pendingSpawns = append(w.pendingSpawns, spec)
}

// DrainSpawns returns and clears the queued spawn requests.
func (w *World) DrainSpawns() []effect.SpawnSpec {
	out := w.pendingSpawns
	w.pendingSpawns = nil
	return out
}

// Query returns a spatial view that skips the given ids (typically the
// caster) and every dead entity.
func (w *World) Query(exclude ...string) effect.SpatialQuery {
	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	return &worldQuery{world: w, skip: skip}
}

type worldQuery struct {
	world *World
	skip  map[string]struct{}
}

func (q *worldQuery) CandidatesWithin(x, y, radius float64) []effect.Candidate {
	var out []effect.Candidate
	for _, id := range q.world.grid.idsNear(x, y, radius) {
		if _, skipped := q.skip[id]; skipped {
			continue
		}
		ent, ok := q.world.entities[id]
		if !ok || !ent.Alive() {
			continue
		}
		out = append(out, effect.Candidate{ID: id, X: ent.x, Y: ent.y})
	}
	return out
}

// Entity is one combatant. It implements effect.Combatant for the executor
// and status.Host for its own status set's ticks.
type Entity struct {
	id        string
	kind      logging.EntityKind
	team      string
	x, y      float64
	health    float64
	maxHealth float64
	stats     stats.Component
	statuses  *status.Set
	world     *World
}

func (e *Entity) ID() string                   { return e.id }
func (e *Entity) Kind() logging.EntityKind     { return e.kind }
func (e *Entity) Team() string                 { return e.team }
func (e *Entity) Position() (float64, float64) { return e.x, e.y }
func (e *Entity) Health() float64              { return e.health }
func (e *Entity) MaxHealth() float64           { return e.maxHealth }
func (e *Entity) Alive() bool                  { return e.health > 0 }
func (e *Entity) Statuses() *status.Set        { return e.statuses }

// Stats exposes the layered component so owners can attach equipment or
// environment modifiers.
func (e *Entity) Stats() *stats.Component { return &e.stats }

func (e *Entity) CritChance() float64 {
	e.stats.Resolve(e.world.tick)
	return e.stats.GetDerived(stats.DerivedCritChance)
}

func (e *Entity) CritDamage() float64 {
	e.stats.Resolve(e.world.tick)
	return e.stats.GetDerived(stats.DerivedCritDamage)
}

func (e *Entity) Resistance(damageTag string) float64 {
	e.stats.Resolve(e.world.tick)
	return e.stats.Resistance(resistStat(damageTag))
}

// TickDamage implements status.Host: periodic status damage bypasses shields
// and resistances, which were settled at application time.
func (e *Entity) TickDamage(kind status.Kind, sourceID string, amount float64) {
	e.health -= amount
	if e.health < 0 {
		e.health = 0
	}
	loggingcombat.Damage(context.Background(), e.world.pub, e.world.tick,
		logging.EntityRef{ID: sourceID},
		logging.EntityRef{ID: e.id, Kind: e.kind},
		loggingcombat.DamagePayload{DamageType: string(kind), Raw: amount, Final: amount})
	if !e.Alive() {
		loggingcombat.Kill(context.Background(), e.world.pub, e.world.tick,
			logging.EntityRef{ID: sourceID},
			logging.EntityRef{ID: e.id, Kind: e.kind})
	}
}

// TickHeal implements status.Host.
func (e *Entity) TickHeal(kind status.Kind, sourceID string, amount float64) {
	if !e.Alive() {
		return
	}
	e.health += amount
	if e.health > e.maxHealth {
		e.health = e.maxHealth
	}
}

// StackExpired implements status.Host.
func (e *Entity) StackExpired(kind status.Kind, stacksRemaining int) {
	loggingstatus.Expired(context.Background(), e.world.pub, e.world.tick,
		logging.EntityRef{ID: e.id, Kind: e.kind},
		loggingstatus.ExpiredPayload{Kind: string(kind), StacksRemaining: stacksRemaining})
}

// resistStat maps a damage-type tag onto its resistance stat. Unknown tags
// resolve to no resistance.
func resistStat(damageTag string) stats.StatID {
	switch damageTag {
	case tags.TagPhysical:
		return stats.StatResistPhysical
	case tags.TagFire:
		return stats.StatResistFire
	case tags.TagFrost:
		return stats.StatResistFrost
	case tags.TagLightning:
		return stats.StatResistLightning
	case tags.TagArcane:
		return stats.StatResistArcane
	case tags.TagToxic:
		return stats.StatResistToxic
	}
	return stats.StatCount
}
