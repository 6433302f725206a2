package main

import (
	"log"

	"emberforge/core/arena"
	"emberforge/core/effect"
	"emberforge/core/logging"
	"emberforge/core/stats"
	"emberforge/core/tags"
	"emberforge/core/tags/catalog"
)

// spell is one scripted cast in the rotation.
type spell struct {
	name   string
	tags   []string
	params map[string]float64
}

func defaultRotation() []spell {
	return []spell{
		{
			name: "fireball",
			tags: []string{tags.TagFire, tags.TagCircle, tags.TagBurn, tags.TagEnemy},
			params: map[string]float64{
				tags.ParamBaseDamage: 12,
			},
		},
		{
			name: "chain-spark",
			tags: []string{tags.TagLightning, tags.TagChain, tags.TagEnemy},
			params: map[string]float64{
				tags.ParamBaseDamage: 8,
				tags.ParamHopFalloff: 0.7,
			},
		},
		{
			name: "reaping-slash",
			tags: []string{tags.TagPhysical, tags.TagCone, tags.TagLifesteal, tags.TagEnemy},
			params: map[string]float64{
				tags.ParamBaseDamage: 10,
			},
		},
		{
			name: "barrier",
			tags: []string{tags.TagShield, tags.TagSelf},
		},
	}
}

// skirmish drives a scripted fight: one caster fires the next rotation entry
// each step, dummies respawn when they die, and every outcome flows to the
// event stream.
type skirmish struct {
	world    *arena.World
	resolver *catalog.Resolver
	exec     *effect.Executor
	rotation []spell
	casterID string
	dummies  []arena.EntitySpec
	step     int
}

func newSkirmish(world *arena.World, resolver *catalog.Resolver, seed int64, pub logging.Publisher) *skirmish {
	s := &skirmish{
		world:    world,
		resolver: resolver,
		exec:     effect.NewExecutor(resolver.Index(), world, seed, pub),
		rotation: defaultRotation(),
		casterID: "hero",
	}

	var heroBase stats.ValueSet
	heroBase[stats.StatCritChance] = 0.15
	heroBase[stats.StatCritDamage] = 1.5
	if _, err := world.Spawn(arena.EntitySpec{
		ID:        s.casterID,
		Kind:      logging.EntityKindPlayer,
		Team:      "heroes",
		MaxHealth: 200,
		Base:      heroBase,
	}); err != nil {
		log.Fatalf("skirmishd: spawn hero: %v", err)
	}

	s.dummies = []arena.EntitySpec{
		{ID: "dummy-1", Team: "dummies", X: 2, Y: 0, MaxHealth: 60},
		{ID: "dummy-2", Team: "dummies", X: 4, Y: 1, MaxHealth: 60},
		{ID: "dummy-3", Team: "dummies", X: 5, Y: -1, MaxHealth: 60},
	}
	for _, spec := range s.dummies {
		if _, err := world.Spawn(spec); err != nil {
			log.Fatalf("skirmishd: spawn %s: %v", spec.ID, err)
		}
	}
	return s
}

// Step runs one simulation step: cast, resolve, advance, respawn.
func (s *skirmish) Step() {
	sp := s.rotation[s.step%len(s.rotation)]
	s.step++

	index := s.resolver.Index()
	cfg, err := effect.Parse(index, sp.tags, sp.params)
	if err != nil {
		log.Printf("skirmishd: %s failed to parse: %v", sp.name, err)
		return
	}

	caster, ok := s.world.Entity(s.casterID)
	if !ok {
		return
	}
	cx, cy := caster.Position()
	targets := effect.FindTargets(
		effect.Position{X: cx, Y: cy},
		effect.Direction{X: 1},
		cfg.GeometryTag,
		cfg.GeometryParams,
		s.world.Query(s.casterID),
	)
	s.exec.Execute(cfg, caster, targets, s.world.Tick(), s.world.Now())

	s.world.Advance()
	s.respawnDummies()
	s.materializeSummons()
}

func (s *skirmish) respawnDummies() {
	for _, spec := range s.dummies {
		ent, ok := s.world.Entity(spec.ID)
		if ok && ent.Alive() {
			continue
		}
		if ok {
			s.world.Remove(spec.ID)
		}
		if _, err := s.world.Spawn(spec); err != nil {
			log.Printf("skirmishd: respawn %s: %v", spec.ID, err)
		}
	}
}

func (s *skirmish) materializeSummons() {
	for _, req := range s.world.DrainSpawns() {
		for i := 0; i < req.Count; i++ {
			id := summonID(req.OwnerID, s.world.Tick(), i)
			if _, err := s.world.Spawn(arena.EntitySpec{
				ID:        id,
				Kind:      logging.EntityKindSummon,
				Team:      "heroes",
				X:         req.X + float64(i+1),
				Y:         req.Y,
				MaxHealth: 30,
			}); err != nil {
				log.Printf("skirmishd: summon %s: %v", id, err)
			}
		}
	}
}
