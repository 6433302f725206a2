package tags

// Category classifies a tag by the role it plays during effect resolution.
// The parser buckets tags by category and enforces per-category rules (for
// example, exactly one geometry tag per effect).
type Category string

const (
	CategoryDamageType   Category = "damage_type"
	CategoryGeometry     Category = "geometry"
	CategoryStatusBuff   Category = "status_buff"
	CategoryStatusDebuff Category = "status_debuff"
	CategorySpecial      Category = "special_mechanic"
	CategoryContext      Category = "context"
	CategoryTrigger      Category = "trigger"
)

// SynergyMode controls how a synergy override combines with the param value
// already resolved from defaults.
type SynergyMode string

const (
	// SynergyAdd adds the override onto the resolved value.
	SynergyAdd SynergyMode = "add"
	// SynergyMultiply scales the resolved value by the override.
	SynergyMultiply SynergyMode = "multiply"
)

// SynergyRule describes a param bonus unlocked when two tags co-occur on the
// same effect. Rules never replace a caller-supplied explicit param value;
// they only adjust values that came from registry defaults.
type SynergyRule struct {
	With      string             `json:"with"`
	Mode      SynergyMode        `json:"mode"`
	Overrides map[string]float64 `json:"overrides"`
}

// Definition is one immutable registry entry for a known tag.
type Definition struct {
	Name             string             `json:"name"`
	Category         Category           `json:"category"`
	DefaultParams    map[string]float64 `json:"defaultParams,omitempty"`
	IncompatibleWith []string           `json:"incompatibleWith,omitempty"`
	Synergies        []SynergyRule      `json:"synergies,omitempty"`
}

// IsIncompatibleWith reports whether other is listed in the definition's
// conflict set.
func (d Definition) IsIncompatibleWith(other string) bool {
	for _, name := range d.IncompatibleWith {
		if name == other {
			return true
		}
	}
	return false
}

// Damage-type tags.
const (
	TagPhysical  = "physical"
	TagFire      = "fire"
	TagFrost     = "frost"
	TagLightning = "lightning"
	TagArcane    = "arcane"
	TagToxic     = "toxic"
)

// Geometry tags.
const (
	TagSingle = "single"
	TagCone   = "cone"
	TagCircle = "circle"
	TagChain  = "chain"
	TagBeam   = "beam"
	TagPierce = "pierce"
)

// Status tags. Buffs and debuffs share the status bucket; the category on the
// definition tells them apart.
const (
	TagBurn         = "burn"
	TagPoison       = "poison"
	TagBleed        = "bleed"
	TagFreeze       = "freeze"
	TagStun         = "stun"
	TagRoot         = "root"
	TagSlow         = "slow"
	TagVulnerable   = "vulnerable"
	TagWeaken       = "weaken"
	TagHaste        = "haste"
	TagShield       = "shield"
	TagRegeneration = "regeneration"
)

// Special-mechanic tags. Summon and teleport hand computed spawn and
// destination parameters to the world collaborator; phase applies a timed
// status on the caster that movement and targeting owners consult.
const (
	TagKnockback = "knockback"
	TagLifesteal = "lifesteal"
	TagExecute   = "execute"
	TagReflect   = "reflect"
	TagSummon    = "summon"
	TagTeleport  = "teleport"
	TagPhase     = "phase"
)

// Context tags restrict which candidates an effect may hit.
const (
	TagSelf       = "self"
	TagAlly       = "ally"
	TagEnemy      = "enemy"
	TagPlayerOnly = "player_only"
)

// Trigger tags mark when an enchantment-style effect fires. The parser
// carries them through untouched; interpretation belongs to the equipment
// layer that owns the triggering event.
const (
	TagOnHit  = "on_hit"
	TagOnCrit = "on_crit"
	TagOnKill = "on_kill"
)

// Shared param keys consumed by the parser and executor.
const (
	ParamBaseDamage      = "base_damage"
	ParamDamageMult      = "damage_mult"
	ParamCritChanceBonus = "crit_chance_bonus"
	ParamCritDamageMult  = "crit_damage_mult"
	ParamGuaranteedCrit  = "guaranteed_crit"

	ParamMaxRange     = "max_range"
	ParamConeAngle    = "cone_angle"
	ParamConeRange    = "cone_range"
	ParamCircleRadius = "circle_radius"
	ParamCircleOrigin = "circle_origin"
	ParamChainCount   = "chain_count"
	ParamChainRange   = "chain_range"
	ParamBeamRange    = "beam_range"
	ParamBeamWidth    = "beam_width"
	ParamPierceCount  = "pierce_count"
	ParamPierceRange  = "pierce_range"
	ParamHopFalloff   = "hop_falloff"

	ParamDuration     = "duration"
	ParamMagnitude    = "magnitude"
	ParamTickInterval = "tick_interval"
	ParamMaxStacks    = "max_stacks"

	ParamKnockbackDistance = "knockback_distance"
	ParamLifestealPercent  = "lifesteal_percent"
	ParamExecuteThreshold  = "execute_threshold"
	ParamReflectPercent    = "reflect_percent"
	ParamSummonCount       = "summon_count"
	ParamTeleportRange     = "teleport_range"
	ParamPhaseDuration     = "phase_duration"
)
