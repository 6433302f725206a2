package tags

// BuiltIn materialises the built-in tag vocabulary. Callers receive a fresh
// slice and map instances so overlays can customise entries without mutating
// the package-level templates. The concrete synergy table is authoring
// content; the catalog overlay may extend or replace any entry here.
func BuiltIn() Registry {
	return Registry{
		// Damage types.
		{
			Name:          TagPhysical,
			Category:      CategoryDamageType,
			DefaultParams: map[string]float64{ParamDamageMult: 1},
		},
		{
			Name:             TagFire,
			Category:         CategoryDamageType,
			DefaultParams:    map[string]float64{ParamDamageMult: 1},
			IncompatibleWith: []string{TagFreeze, TagSlow},
			Synergies: []SynergyRule{
				{With: TagBurn, Mode: SynergyAdd, Overrides: map[string]float64{ParamMagnitude: 2}},
			},
		},
		{
			Name:          TagFrost,
			Category:      CategoryDamageType,
			DefaultParams: map[string]float64{ParamDamageMult: 1},
			Synergies: []SynergyRule{
				{With: TagCircle, Mode: SynergyMultiply, Overrides: map[string]float64{ParamCircleRadius: 1.25}},
			},
		},
		{
			Name:          TagLightning,
			Category:      CategoryDamageType,
			DefaultParams: map[string]float64{ParamDamageMult: 1},
			Synergies: []SynergyRule{
				{With: TagChain, Mode: SynergyMultiply, Overrides: map[string]float64{ParamChainRange: 1.5}},
			},
		},
		{
			Name:          TagArcane,
			Category:      CategoryDamageType,
			DefaultParams: map[string]float64{ParamDamageMult: 1},
		},
		{
			Name:          TagToxic,
			Category:      CategoryDamageType,
			DefaultParams: map[string]float64{ParamDamageMult: 1},
			Synergies: []SynergyRule{
				{With: TagPoison, Mode: SynergyAdd, Overrides: map[string]float64{ParamDuration: 1}},
			},
		},

		// Geometry.
		{
			Name:          TagSingle,
			Category:      CategoryGeometry,
			DefaultParams: map[string]float64{ParamMaxRange: 6},
		},
		{
			Name:          TagCone,
			Category:      CategoryGeometry,
			DefaultParams: map[string]float64{ParamConeAngle: 60, ParamConeRange: 5},
		},
		{
			Name:          TagCircle,
			Category:      CategoryGeometry,
			DefaultParams: map[string]float64{ParamCircleRadius: 3, ParamCircleOrigin: 0, ParamMaxRange: 8},
		},
		{
			Name:          TagChain,
			Category:      CategoryGeometry,
			DefaultParams: map[string]float64{ParamChainCount: 3, ParamChainRange: 4, ParamMaxRange: 6, ParamHopFalloff: 1},
		},
		{
			Name:          TagBeam,
			Category:      CategoryGeometry,
			DefaultParams: map[string]float64{ParamBeamRange: 8, ParamBeamWidth: 1},
		},
		{
			Name:          TagPierce,
			Category:      CategoryGeometry,
			DefaultParams: map[string]float64{ParamPierceCount: 3, ParamPierceRange: 8, ParamHopFalloff: 1},
		},

		// Damage over time.
		{
			Name:             TagBurn,
			Category:         CategoryStatusDebuff,
			DefaultParams:    map[string]float64{ParamDuration: 3, ParamMagnitude: 10, ParamTickInterval: 1, ParamMaxStacks: 3},
			IncompatibleWith: []string{TagFreeze},
		},
		{
			Name:          TagPoison,
			Category:      CategoryStatusDebuff,
			DefaultParams: map[string]float64{ParamDuration: 6, ParamMagnitude: 4, ParamTickInterval: 1, ParamMaxStacks: 5},
		},
		{
			Name:          TagBleed,
			Category:      CategoryStatusDebuff,
			DefaultParams: map[string]float64{ParamDuration: 4, ParamMagnitude: 6, ParamTickInterval: 1, ParamMaxStacks: 3},
		},

		// Crowd control.
		{
			Name:             TagFreeze,
			Category:         CategoryStatusDebuff,
			DefaultParams:    map[string]float64{ParamDuration: 2},
			IncompatibleWith: []string{TagFire, TagBurn},
		},
		{
			Name:          TagStun,
			Category:      CategoryStatusDebuff,
			DefaultParams: map[string]float64{ParamDuration: 1},
		},
		{
			Name:          TagRoot,
			Category:      CategoryStatusDebuff,
			DefaultParams: map[string]float64{ParamDuration: 2},
		},

		// Modifiers.
		{
			Name:             TagSlow,
			Category:         CategoryStatusDebuff,
			DefaultParams:    map[string]float64{ParamDuration: 3, ParamMagnitude: 0.5},
			IncompatibleWith: []string{TagFire, TagHaste},
		},
		{
			Name:          TagVulnerable,
			Category:      CategoryStatusDebuff,
			DefaultParams: map[string]float64{ParamDuration: 4, ParamMagnitude: 0.25},
		},
		{
			Name:          TagWeaken,
			Category:      CategoryStatusDebuff,
			DefaultParams: map[string]float64{ParamDuration: 4, ParamMagnitude: 0.25},
		},
		{
			Name:             TagHaste,
			Category:         CategoryStatusBuff,
			DefaultParams:    map[string]float64{ParamDuration: 4, ParamMagnitude: 0.3},
			IncompatibleWith: []string{TagSlow},
		},
		{
			Name:          TagShield,
			Category:      CategoryStatusBuff,
			DefaultParams: map[string]float64{ParamDuration: 5, ParamMagnitude: 30},
		},
		{
			Name:          TagRegeneration,
			Category:      CategoryStatusBuff,
			DefaultParams: map[string]float64{ParamDuration: 5, ParamMagnitude: 3, ParamTickInterval: 1},
		},

		// Special mechanics.
		{
			Name:          TagKnockback,
			Category:      CategorySpecial,
			DefaultParams: map[string]float64{ParamKnockbackDistance: 2},
		},
		{
			Name:          TagLifesteal,
			Category:      CategorySpecial,
			DefaultParams: map[string]float64{ParamLifestealPercent: 0.2},
		},
		{
			Name:          TagExecute,
			Category:      CategorySpecial,
			DefaultParams: map[string]float64{ParamExecuteThreshold: 0.2},
		},
		{
			Name:          TagReflect,
			Category:      CategorySpecial,
			DefaultParams: map[string]float64{ParamReflectPercent: 0.3, ParamDuration: 4},
		},
		{
			Name:          TagSummon,
			Category:      CategorySpecial,
			DefaultParams: map[string]float64{ParamSummonCount: 1},
		},
		{
			Name:          TagTeleport,
			Category:      CategorySpecial,
			DefaultParams: map[string]float64{ParamTeleportRange: 6},
		},
		{
			Name:          TagPhase,
			Category:      CategorySpecial,
			DefaultParams: map[string]float64{ParamPhaseDuration: 2},
		},

		// Context filters.
		{Name: TagSelf, Category: CategoryContext},
		{Name: TagAlly, Category: CategoryContext},
		{Name: TagEnemy, Category: CategoryContext},
		{Name: TagPlayerOnly, Category: CategoryContext},

		// Triggers. Carried through for the equipment layer; the executor
		// treats them as inert.
		{Name: TagOnHit, Category: CategoryTrigger},
		{Name: TagOnCrit, Category: CategoryTrigger},
		{Name: TagOnKill, Category: CategoryTrigger},
	}
}
