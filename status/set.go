package status

import (
	"math"
	"time"
)

// Stack is one independently-timed application of a status kind. Stacks are
// ordered oldest first inside their instance; expiry removes the oldest
// stack, never the whole instance at once.
type Stack struct {
	SourceID  string
	Magnitude float64
	TickEvery time.Duration
	AppliedAt time.Time
	ExpiresAt time.Time
	NextTick  time.Time
	LastTick  time.Time
}

// Instance is the live state for one status kind on one entity.
type Instance struct {
	Definition *Definition
	Kind       Kind
	stacks     []*Stack
}

// StackCount returns the number of live stacks.
func (i *Instance) StackCount() int {
	if i == nil {
		return 0
	}
	return len(i.stacks)
}

// Remaining returns the longest remaining duration across stacks.
func (i *Instance) Remaining(now time.Time) time.Duration {
	if i == nil {
		return 0
	}
	var longest time.Duration
	for _, st := range i.stacks {
		if d := st.ExpiresAt.Sub(now); d > longest {
			longest = d
		}
	}
	return longest
}

// strongest returns the largest stack magnitude; modifier queries use the
// strongest application rather than summing refresh-policy stacks.
func (i *Instance) strongest() float64 {
	if i == nil {
		return 0
	}
	var best float64
	for _, st := range i.stacks {
		if st.Magnitude > best {
			best = st.Magnitude
		}
	}
	return best
}

// Application carries the resolved parameters for one status tag hit.
type Application struct {
	Kind         Kind
	SourceID     string
	Magnitude    float64
	Duration     time.Duration
	TickInterval time.Duration
	MaxStacks    int
}

// ApplyResult reports what an application did, for logging and result
// accounting.
type ApplyResult struct {
	Applied   bool
	Refreshed bool
	Stacks    int
}

// Set owns every active status effect on a single entity. Only the owning
// world's step loop and the effect executor's status phase touch it; in a
// single-threaded simulation no locking is needed.
type Set struct {
	host    Host
	defs    map[Kind]*Definition
	effects map[Kind]*Instance
}

// NewSet constructs an empty set bound to its host entity.
func NewSet(host Host, defs map[Kind]*Definition) *Set {
	if defs == nil {
		defs = Definitions()
	}
	return &Set{
		host:    host,
		defs:    defs,
		effects: make(map[Kind]*Instance),
	}
}

// Apply creates or updates the instance for app.Kind per the kind's stacking
// policy. Non-positive durations are ignored.
func (s *Set) Apply(app Application, now time.Time) ApplyResult {
	if s == nil || app.Kind == "" || app.Duration <= 0 {
		return ApplyResult{}
	}
	def, ok := s.defs[app.Kind]
	if !ok || def == nil {
		return ApplyResult{}
	}

	interval := app.TickInterval
	if interval <= 0 {
		interval = def.TickInterval
	}
	maxStacks := app.MaxStacks
	if maxStacks <= 0 {
		maxStacks = def.MaxStacks
	}
	if maxStacks <= 0 {
		maxStacks = 1
	}

	inst, exists := s.effects[app.Kind]
	if !exists {
		inst = &Instance{Definition: def, Kind: app.Kind}
		s.effects[app.Kind] = inst
	}

	expiresAt := now.Add(app.Duration)
	if def.Policy == PolicyRefresh && len(inst.stacks) > 0 {
		st := inst.stacks[0]
		st.SourceID = app.SourceID
		if app.Magnitude > st.Magnitude {
			st.Magnitude = app.Magnitude
		}
		// Refresh to the longer of old and new remaining duration.
		if expiresAt.After(st.ExpiresAt) {
			st.ExpiresAt = expiresAt
		}
		if interval > 0 && st.NextTick.IsZero() {
			st.TickEvery = interval
			st.NextTick = now.Add(interval)
		}
		return ApplyResult{Refreshed: true, Stacks: 1}
	}

	if def.Policy == PolicyStack && len(inst.stacks) >= maxStacks {
		// At the stack cap a fresh application only refreshes the oldest
		// stack's timer.
		st := inst.stacks[0]
		if expiresAt.After(st.ExpiresAt) {
			st.ExpiresAt = expiresAt
		}
		return ApplyResult{Refreshed: true, Stacks: len(inst.stacks)}
	}

	st := &Stack{
		SourceID:  app.SourceID,
		Magnitude: app.Magnitude,
		TickEvery: interval,
		AppliedAt: now,
		ExpiresAt: expiresAt,
	}
	if interval > 0 {
		if def.InitialTick {
			st.NextTick = now
		} else {
			st.NextTick = now.Add(interval)
		}
	}
	inst.stacks = append(inst.stacks, st)
	if def.OnApply != nil {
		def.OnApply(s.host, inst, st, now)
	}
	return ApplyResult{Applied: true, Stacks: len(inst.stacks)}
}

// Advance moves every active effect forward to now. The host loop calls this
// exactly once per simulation step; DoT stacks fire on their own sub-interval
// tracked per stack, so a step never double-ticks or skips a stack.
func (s *Set) Advance(now time.Time) {
	if s == nil || len(s.effects) == 0 {
		return
	}
	for kind, inst := range s.effects {
		if inst == nil || inst.Definition == nil {
			delete(s.effects, kind)
			continue
		}
		def := inst.Definition
		for _, st := range inst.stacks {
			interval := st.TickEvery
			if interval <= 0 {
				continue
			}
			for !st.NextTick.IsZero() && !now.Before(st.NextTick) {
				if st.NextTick.After(st.ExpiresAt) {
					break
				}
				tickAt := st.NextTick
				if def.OnTick != nil {
					def.OnTick(s.host, inst, st, tickAt)
				}
				st.LastTick = tickAt
				st.NextTick = st.NextTick.Add(interval)
				if st.NextTick.Equal(st.LastTick) {
					break
				}
			}
		}

		// Stacks expire independently, oldest first.
		remaining := inst.stacks[:0]
		for _, st := range inst.stacks {
			if !now.Before(st.ExpiresAt) {
				if def.OnExpire != nil {
					def.OnExpire(s.host, inst, st, now)
				}
				continue
			}
			remaining = append(remaining, st)
		}
		if expired := len(inst.stacks) - len(remaining); expired > 0 {
			inst.stacks = remaining
			if s.host != nil {
				s.host.StackExpired(kind, len(remaining))
			}
		}
		if len(inst.stacks) == 0 {
			delete(s.effects, kind)
		}
	}
}

// Has reports whether the kind is active.
func (s *Set) Has(kind Kind) bool {
	if s == nil {
		return false
	}
	inst, ok := s.effects[kind]
	return ok && inst.StackCount() > 0
}

// Stacks returns the live stack count for the kind.
func (s *Set) Stacks(kind Kind) int {
	if s == nil {
		return 0
	}
	return s.effects[kind].StackCount()
}

// Instance returns the live instance for the kind, if any.
func (s *Set) Instance(kind Kind) (*Instance, bool) {
	if s == nil {
		return nil, false
	}
	inst, ok := s.effects[kind]
	return inst, ok
}

// IsStunned reports whether actions are blocked. The set only reports; the
// movement/action system decides what to do with the answer.
func (s *Set) IsStunned() bool {
	return s.Has(KindStun) || s.Has(KindFreeze)
}

// IsRooted reports whether movement is blocked entirely.
func (s *Set) IsRooted() bool {
	return s.Has(KindRoot) || s.Has(KindFreeze)
}

// IsPhased reports whether the entity is phased out of the physical plane.
// Movement and targeting owners consult this; the set never enforces it.
func (s *Set) IsPhased() bool {
	return s.Has(KindPhase)
}

// MovementMultiplier folds movement-affecting effects into one scalar.
func (s *Set) MovementMultiplier() float64 {
	if s == nil {
		return 1
	}
	if s.IsStunned() || s.IsRooted() {
		return 0
	}
	mult := 1.0
	if inst, ok := s.effects[KindSlow]; ok {
		mult *= math.Max(0, 1-inst.strongest())
	}
	if inst, ok := s.effects[KindHaste]; ok {
		mult *= 1 + inst.strongest()
	}
	return mult
}

// DamageTakenMultiplier reflects vulnerability debuffs on the entity.
func (s *Set) DamageTakenMultiplier() float64 {
	if s == nil {
		return 1
	}
	if inst, ok := s.effects[KindVulnerable]; ok {
		return 1 + inst.strongest()
	}
	return 1
}

// DamageDealtMultiplier reflects weaken debuffs on the entity.
func (s *Set) DamageDealtMultiplier() float64 {
	if s == nil {
		return 1
	}
	if inst, ok := s.effects[KindWeaken]; ok {
		return math.Max(0, 1-inst.strongest())
	}
	return 1
}

// AbsorbDamage consumes shield charge against incoming damage and returns the
// amount absorbed. Depleted shield stacks are removed immediately.
func (s *Set) AbsorbDamage(amount float64) float64 {
	if s == nil || amount <= 0 {
		return 0
	}
	inst, ok := s.effects[KindShield]
	if !ok {
		return 0
	}
	absorbed := 0.0
	remaining := inst.stacks[:0]
	for _, st := range inst.stacks {
		if amount <= 0 {
			remaining = append(remaining, st)
			continue
		}
		take := math.Min(st.Magnitude, amount)
		st.Magnitude -= take
		amount -= take
		absorbed += take
		if st.Magnitude > 0 {
			remaining = append(remaining, st)
		}
	}
	inst.stacks = remaining
	if len(inst.stacks) == 0 {
		delete(s.effects, KindShield)
	}
	return absorbed
}

// ReflectPercent returns the active reflect fraction, zero when absent.
func (s *Set) ReflectPercent() float64 {
	if s == nil {
		return 0
	}
	if inst, ok := s.effects[KindReflect]; ok {
		return inst.strongest()
	}
	return 0
}

// Clear drops every active effect, used when the owning entity dies.
func (s *Set) Clear() {
	if s == nil {
		return
	}
	for kind := range s.effects {
		delete(s.effects, kind)
	}
}
