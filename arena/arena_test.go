package arena

import (
	"testing"
	"time"

	"emberforge/core/effect"
	"emberforge/core/logging"
	"emberforge/core/stats"
	"emberforge/core/status"
	"emberforge/core/tags"
)

func testWorld(t *testing.T) *World {
	t.Helper()
	return NewWorld(Config{Start: time.Unix(0, 0)})
}

func mustSpawn(t *testing.T, w *World, spec EntitySpec) *Entity {
	t.Helper()
	ent, err := w.Spawn(spec)
	if err != nil {
		t.Fatalf("spawn %q failed: %v", spec.ID, err)
	}
	return ent
}

func testExecIndex(t *testing.T) tags.Index {
	t.Helper()
	idx, err := tags.BuiltIn().Index()
	if err != nil {
		t.Fatalf("built-in registry failed to index: %v", err)
	}
	return idx
}

func TestSpawnValidation(t *testing.T) {
	w := testWorld(t)
	mustSpawn(t, w, EntitySpec{ID: "a", Team: "red", MaxHealth: 100})
	if _, err := w.Spawn(EntitySpec{ID: "a", Team: "red", MaxHealth: 100}); err == nil {
		t.Fatalf("duplicate id accepted")
	}
	if _, err := w.Spawn(EntitySpec{ID: "", MaxHealth: 100}); err == nil {
		t.Fatalf("blank id accepted")
	}
	if _, err := w.Spawn(EntitySpec{ID: "b", MaxHealth: 0}); err == nil {
		t.Fatalf("zero max health accepted")
	}
}

func TestQueryExcludesCasterAndDead(t *testing.T) {
	w := testWorld(t)
	mustSpawn(t, w, EntitySpec{ID: "caster", Team: "red", MaxHealth: 100})
	mustSpawn(t, w, EntitySpec{ID: "near", Team: "blue", X: 2, MaxHealth: 100})
	corpse := mustSpawn(t, w, EntitySpec{ID: "corpse", Team: "blue", X: 1, MaxHealth: 100})
	corpse.health = 0

	got := w.Query("caster").CandidatesWithin(0, 0, 5)
	if len(got) != 1 || got[0].ID != "near" {
		t.Fatalf("candidates = %+v, want only near", got)
	}
}

func TestQueryStableOrder(t *testing.T) {
	w := testWorld(t)
	for _, id := range []string{"c", "a", "b"} {
		mustSpawn(t, w, EntitySpec{ID: id, Team: "blue", X: 1, MaxHealth: 100})
	}
	got := w.Query().CandidatesWithin(0, 0, 5)
	if len(got) != 3 || got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Fatalf("candidates = %+v, want sorted a b c", got)
	}
}

func TestDisplacementMovesGridBucket(t *testing.T) {
	w := testWorld(t)
	ent := mustSpawn(t, w, EntitySpec{ID: "a", Team: "blue", MaxHealth: 100})
	w.RequestDisplacement(ent, 20, 0)

	if got := w.Query().CandidatesWithin(0, 0, 5); len(got) != 0 {
		t.Fatalf("old location still occupied: %+v", got)
	}
	got := w.Query().CandidatesWithin(20, 0, 5)
	if len(got) != 1 || got[0].X != 20 {
		t.Fatalf("new location = %+v, want a at x=20", got)
	}
}

func TestAdvanceTicksStatusesOnce(t *testing.T) {
	w := NewWorld(Config{Start: time.Unix(0, 0), Step: time.Second})
	ent := mustSpawn(t, w, EntitySpec{ID: "a", Team: "blue", MaxHealth: 100})

	ent.Statuses().Apply(status.Application{
		Kind:         status.KindBurn,
		SourceID:     "b",
		Magnitude:    10,
		Duration:     3 * time.Second,
		TickInterval: time.Second,
		MaxStacks:    3,
	}, w.Now())

	for i := 0; i < 3; i++ {
		w.Advance()
	}
	if ent.Health() != 70 {
		t.Fatalf("health = %v, want 70 after three burn ticks", ent.Health())
	}
	w.Advance()
	if ent.Health() != 70 {
		t.Fatalf("health = %v, want burn expired after its duration", ent.Health())
	}
	if ent.Statuses().Has(status.KindBurn) {
		t.Fatalf("burn still present after expiry")
	}
}

func TestResistanceFromStatsLayer(t *testing.T) {
	w := testWorld(t)
	var base stats.ValueSet
	base[stats.StatResistFire] = 0.25
	ent := mustSpawn(t, w, EntitySpec{ID: "a", Team: "blue", MaxHealth: 100, Base: base})

	if got := ent.Resistance(tags.TagFire); got != 0.25 {
		t.Fatalf("fire resist = %v, want 0.25", got)
	}
	if got := ent.Resistance(tags.TagFrost); got != 0 {
		t.Fatalf("frost resist = %v, want 0", got)
	}
	if got := ent.Resistance("void"); got != 0 {
		t.Fatalf("unknown damage tag resist = %v, want 0", got)
	}

	// Equipment layers on top and the total clamps at 1.
	delta := stats.NewDelta()
	delta.Add[stats.StatResistFire] = 0.9
	ent.Stats().Apply(stats.Change{
		Layer:  stats.LayerEquipment,
		Source: stats.SourceKey{Kind: stats.SourceKindEquipment, ID: "ring"},
		Delta:  delta,
	})
	if got := ent.Resistance(tags.TagFire); got != 1 {
		t.Fatalf("stacked fire resist = %v, want clamped 1", got)
	}
}

func TestFullPipelineFireballBurnsCluster(t *testing.T) {
	w := NewWorld(Config{Start: time.Unix(0, 0), Step: time.Second})
	caster := mustSpawn(t, w, EntitySpec{ID: "caster", Team: "red", MaxHealth: 100})
	near := mustSpawn(t, w, EntitySpec{ID: "near", Team: "blue", X: 2, MaxHealth: 100})
	far := mustSpawn(t, w, EntitySpec{ID: "far", Team: "blue", X: 20, MaxHealth: 100})

	idx := testExecIndex(t)
	cfg, err := effect.Parse(idx, []string{tags.TagFire, tags.TagCircle, tags.TagBurn, tags.TagEnemy}, map[string]float64{
		tags.ParamBaseDamage: 20,
	})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	cx, cy := caster.Position()
	targets := effect.FindTargets(effect.Position{X: cx, Y: cy}, effect.Direction{X: 1}, cfg.GeometryTag, cfg.GeometryParams, w.Query("caster"))
	exec := effect.NewExecutor(idx, w, 7, nil)
	res := exec.Execute(cfg, caster, targets, w.Tick(), w.Now())

	if len(res.Targets) != 1 || res.Targets[0].ID != "near" {
		t.Fatalf("outcomes = %+v, want only near hit", res.Targets)
	}
	if near.Health() != 80 {
		t.Fatalf("near health = %v, want 80", near.Health())
	}
	if far.Health() != 100 {
		t.Fatalf("far health = %v, want untouched", far.Health())
	}
	if !near.Statuses().Has(status.KindBurn) {
		t.Fatalf("burn missing on near")
	}

	// Burn ticks at the boosted fire synergy magnitude while the world steps.
	for i := 0; i < 3; i++ {
		w.Advance()
	}
	if near.Health() != 44 {
		t.Fatalf("near health = %v, want 44 after three 12-point ticks", near.Health())
	}
}

func TestSpawnRequestsQueueUntilDrained(t *testing.T) {
	w := testWorld(t)
	mustSpawn(t, w, EntitySpec{ID: "caster", Team: "red", MaxHealth: 100})

	w.RequestSpawn(effect.SpawnSpec{Kind: "summon", OwnerID: "caster", Count: 2})
	got := w.DrainSpawns()
	if len(got) != 1 || got[0].Count != 2 {
		t.Fatalf("spawns = %+v, want one request with count 2", got)
	}
	if len(w.DrainSpawns()) != 0 {
		t.Fatalf("drain did not clear the queue")
	}
}

func TestEntityKindDefaultsToMonster(t *testing.T) {
	w := testWorld(t)
	ent := mustSpawn(t, w, EntitySpec{ID: "a", Team: "blue", MaxHealth: 100})
	if ent.Kind() != logging.EntityKindMonster {
		t.Fatalf("kind = %q, want monster", ent.Kind())
	}
}
