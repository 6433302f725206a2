package status

import "time"

// Kind identifies a status effect family. The set of kinds is closed; the
// tag layer maps authoring strings onto these variants at parse time.
type Kind string

const (
	KindBurn         Kind = "burn"
	KindPoison       Kind = "poison"
	KindBleed        Kind = "bleed"
	KindFreeze       Kind = "freeze"
	KindStun         Kind = "stun"
	KindRoot         Kind = "root"
	KindSlow         Kind = "slow"
	KindVulnerable   Kind = "vulnerable"
	KindWeaken       Kind = "weaken"
	KindHaste        Kind = "haste"
	KindShield       Kind = "shield"
	KindRegeneration Kind = "regeneration"
	KindReflect      Kind = "reflect"
	KindPhase        Kind = "phase"
)

// StackPolicy controls what happens when a kind is applied while an instance
// of the same kind is already active.
type StackPolicy uint8

const (
	// PolicyRefresh keeps a single stack and extends its duration to the
	// longer of the old and new remaining durations.
	PolicyRefresh StackPolicy = iota
	// PolicyStack adds an independent stack up to MaxStacks; at the cap a new
	// application refreshes the oldest stack's duration instead.
	PolicyStack
)

// Host receives the side effects a status set produces while ticking. The
// set never mutates entity health directly; the owning world decides how a
// tick lands (resistances, clamping, death).
type Host interface {
	TickDamage(kind Kind, sourceID string, amount float64)
	TickHeal(kind Kind, sourceID string, amount float64)
	StackExpired(kind Kind, stacksRemaining int)
}

// Handler is invoked at lifecycle points of a single stack.
type Handler func(host Host, inst *Instance, st *Stack, at time.Time)

// Definition captures the fixed behaviour of one status kind.
type Definition struct {
	Kind         Kind
	Policy       StackPolicy
	MaxStacks    int
	TickInterval time.Duration
	InitialTick  bool
	OnApply      Handler
	OnTick       Handler
	OnExpire     Handler
}

// IsDamageOverTime reports whether the kind deals periodic damage.
func (d *Definition) IsDamageOverTime() bool {
	if d == nil {
		return false
	}
	switch d.Kind {
	case KindBurn, KindPoison, KindBleed:
		return true
	}
	return false
}

// IsCrowdControl reports whether the kind restricts movement or actions.
func (d *Definition) IsCrowdControl() bool {
	if d == nil {
		return false
	}
	switch d.Kind {
	case KindFreeze, KindStun, KindRoot:
		return true
	}
	return false
}

// Definitions materialises the built-in status behaviour table. Callers
// receive fresh instances so hosts can swap handlers without affecting other
// sets.
func Definitions() map[Kind]*Definition {
	defs := map[Kind]*Definition{
		KindBurn:   {Kind: KindBurn, Policy: PolicyStack, MaxStacks: 3, TickInterval: time.Second},
		KindPoison: {Kind: KindPoison, Policy: PolicyStack, MaxStacks: 5, TickInterval: time.Second},
		KindBleed:  {Kind: KindBleed, Policy: PolicyStack, MaxStacks: 3, TickInterval: time.Second},

		KindFreeze: {Kind: KindFreeze, Policy: PolicyRefresh},
		KindStun:   {Kind: KindStun, Policy: PolicyRefresh},
		KindRoot:   {Kind: KindRoot, Policy: PolicyRefresh},

		KindSlow:       {Kind: KindSlow, Policy: PolicyRefresh},
		KindVulnerable: {Kind: KindVulnerable, Policy: PolicyRefresh},
		KindWeaken:     {Kind: KindWeaken, Policy: PolicyRefresh},
		KindHaste:      {Kind: KindHaste, Policy: PolicyRefresh},
		KindShield:     {Kind: KindShield, Policy: PolicyRefresh},
		KindReflect:    {Kind: KindReflect, Policy: PolicyRefresh},
		KindPhase:      {Kind: KindPhase, Policy: PolicyRefresh},

		KindRegeneration: {Kind: KindRegeneration, Policy: PolicyRefresh, TickInterval: time.Second},
	}

	damageTick := func(host Host, inst *Instance, st *Stack, at time.Time) {
		if host == nil || inst == nil || st == nil {
			return
		}
		if st.Magnitude <= 0 {
			return
		}
		host.TickDamage(inst.Kind, st.SourceID, st.Magnitude)
	}
	for _, kind := range []Kind{KindBurn, KindPoison, KindBleed} {
		defs[kind].OnTick = damageTick
	}

	defs[KindRegeneration].OnTick = func(host Host, inst *Instance, st *Stack, at time.Time) {
		if host == nil || inst == nil || st == nil {
			return
		}
		if st.Magnitude <= 0 {
			return
		}
		host.TickHeal(inst.Kind, st.SourceID, st.Magnitude)
	}

	return defs
}
