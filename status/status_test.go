package status

import (
	"testing"
	"time"
)

type tickRecord struct {
	kind   Kind
	source string
	amount float64
}

type recordingHost struct {
	damage   []tickRecord
	heals    []tickRecord
	expiries []Kind
}

func (h *recordingHost) TickDamage(kind Kind, sourceID string, amount float64) {
	h.damage = append(h.damage, tickRecord{kind: kind, source: sourceID, amount: amount})
}

func (h *recordingHost) TickHeal(kind Kind, sourceID string, amount float64) {
	h.heals = append(h.heals, tickRecord{kind: kind, source: sourceID, amount: amount})
}

func (h *recordingHost) StackExpired(kind Kind, stacksRemaining int) {
	h.expiries = append(h.expiries, kind)
}

func (h *recordingHost) totalDamage() float64 {
	total := 0.0
	for _, rec := range h.damage {
		total += rec.amount
	}
	return total
}

func TestSetApply_BurnTicksThenExpires(t *testing.T) {
	host := &recordingHost{}
	set := NewSet(host, nil)
	start := time.Unix(100, 0)

	res := set.Apply(Application{
		Kind:         KindBurn,
		SourceID:     "attacker-1",
		Magnitude:    10,
		Duration:     3 * time.Second,
		TickInterval: time.Second,
	}, start)
	if !res.Applied || res.Stacks != 1 {
		t.Fatalf("expected fresh burn application, got %+v", res)
	}

	for step := 1; step <= 3; step++ {
		set.Advance(start.Add(time.Duration(step) * time.Second))
	}
	if got := host.totalDamage(); got != 30 {
		t.Fatalf("expected 30 burn damage after 3 ticks, got %v", got)
	}
	if set.Has(KindBurn) {
		t.Fatal("expected burn to expire at the end of its duration")
	}

	// Ticking past expiry must not fire again.
	set.Advance(start.Add(10 * time.Second))
	if got := host.totalDamage(); got != 30 {
		t.Fatalf("expected no burn ticks after expiry, got total %v", got)
	}
}

func TestSetApply_DoTStacksTickIndependently(t *testing.T) {
	host := &recordingHost{}
	set := NewSet(host, nil)
	start := time.Unix(0, 0)

	app := Application{Kind: KindPoison, Magnitude: 4, Duration: 4 * time.Second, TickInterval: time.Second}
	set.Apply(app, start)
	set.Apply(app, start.Add(500*time.Millisecond))

	if got := set.Stacks(KindPoison); got != 2 {
		t.Fatalf("expected 2 poison stacks, got %d", got)
	}

	// After 2.75s both stacks have ticked twice: 4 instances of 4 damage.
	set.Advance(start.Add(2750 * time.Millisecond))
	if got := len(host.damage); got != 4 {
		t.Fatalf("expected 4 independent poison ticks, got %d", got)
	}
}

func TestSetApply_StackCapRefreshesOldest(t *testing.T) {
	set := NewSet(&recordingHost{}, nil)
	start := time.Unix(0, 0)

	app := Application{Kind: KindBleed, Magnitude: 6, Duration: 4 * time.Second, TickInterval: time.Second, MaxStacks: 2}
	set.Apply(app, start)
	set.Apply(app, start.Add(time.Second))
	res := set.Apply(app, start.Add(2*time.Second))
	if res.Applied {
		t.Fatal("expected third application to be rejected at the stack cap")
	}
	if !res.Refreshed {
		t.Fatal("expected third application to refresh the oldest stack")
	}
	if got := set.Stacks(KindBleed); got != 2 {
		t.Fatalf("expected stack count to stay at cap, got %d", got)
	}

	inst, _ := set.Instance(KindBleed)
	if remaining := inst.Remaining(start.Add(2 * time.Second)); remaining != 4*time.Second {
		t.Fatalf("expected oldest stack refreshed to 4s remaining, got %v", remaining)
	}
}

func TestSetApply_OldestStackExpiresFirst(t *testing.T) {
	host := &recordingHost{}
	set := NewSet(host, nil)
	start := time.Unix(0, 0)

	app := Application{Kind: KindBurn, Magnitude: 10, Duration: 2 * time.Second, TickInterval: time.Second}
	set.Apply(app, start)
	set.Apply(app, start.Add(time.Second))

	set.Advance(start.Add(2 * time.Second))
	if got := set.Stacks(KindBurn); got != 1 {
		t.Fatalf("expected only the oldest stack to expire, got %d stacks", got)
	}
	if len(host.expiries) != 1 || host.expiries[0] != KindBurn {
		t.Fatalf("expected one burn expiry notification, got %v", host.expiries)
	}
}

func TestSetApply_CrowdControlRefreshesToLonger(t *testing.T) {
	set := NewSet(&recordingHost{}, nil)
	start := time.Unix(0, 0)

	set.Apply(Application{Kind: KindStun, Duration: 3 * time.Second}, start)
	res := set.Apply(Application{Kind: KindStun, Duration: time.Second}, start.Add(time.Second))
	if res.Applied || !res.Refreshed {
		t.Fatalf("expected stun reapplication to refresh, got %+v", res)
	}

	inst, _ := set.Instance(KindStun)
	if remaining := inst.Remaining(start.Add(time.Second)); remaining != 2*time.Second {
		t.Fatalf("expected the longer remaining duration to win, got %v", remaining)
	}
	if got := set.Stacks(KindStun); got != 1 {
		t.Fatalf("expected CC to never stack, got %d", got)
	}
}

func TestSetQueries_MovementAndAction(t *testing.T) {
	set := NewSet(&recordingHost{}, nil)
	now := time.Unix(0, 0)

	if set.MovementMultiplier() != 1 {
		t.Fatalf("expected neutral movement multiplier, got %v", set.MovementMultiplier())
	}

	set.Apply(Application{Kind: KindSlow, Magnitude: 0.5, Duration: 3 * time.Second}, now)
	if got := set.MovementMultiplier(); got != 0.5 {
		t.Fatalf("expected slow to halve movement, got %v", got)
	}

	set.Apply(Application{Kind: KindFreeze, Duration: 2 * time.Second}, now)
	if !set.IsStunned() || !set.IsRooted() {
		t.Fatal("expected freeze to report stunned and rooted")
	}
	if got := set.MovementMultiplier(); got != 0 {
		t.Fatalf("expected zero movement while frozen, got %v", got)
	}
}

func TestSetQueries_DamageModifiers(t *testing.T) {
	set := NewSet(&recordingHost{}, nil)
	now := time.Unix(0, 0)

	set.Apply(Application{Kind: KindVulnerable, Magnitude: 0.25, Duration: 4 * time.Second}, now)
	set.Apply(Application{Kind: KindWeaken, Magnitude: 0.25, Duration: 4 * time.Second}, now)

	if got := set.DamageTakenMultiplier(); got != 1.25 {
		t.Fatalf("expected vulnerable to raise damage taken to 1.25, got %v", got)
	}
	if got := set.DamageDealtMultiplier(); got != 0.75 {
		t.Fatalf("expected weaken to drop damage dealt to 0.75, got %v", got)
	}
}

func TestSetShield_AbsorbsUntilDepleted(t *testing.T) {
	set := NewSet(&recordingHost{}, nil)
	now := time.Unix(0, 0)

	set.Apply(Application{Kind: KindShield, Magnitude: 30, Duration: 5 * time.Second}, now)

	if got := set.AbsorbDamage(20); got != 20 {
		t.Fatalf("expected 20 absorbed, got %v", got)
	}
	if got := set.AbsorbDamage(20); got != 10 {
		t.Fatalf("expected remaining 10 absorbed, got %v", got)
	}
	if set.Has(KindShield) {
		t.Fatal("expected depleted shield to be removed")
	}
	if got := set.AbsorbDamage(5); got != 0 {
		t.Fatalf("expected nothing absorbed without a shield, got %v", got)
	}
}

func TestSetRegeneration_HealsOnInterval(t *testing.T) {
	host := &recordingHost{}
	set := NewSet(host, nil)
	start := time.Unix(0, 0)

	set.Apply(Application{Kind: KindRegeneration, Magnitude: 3, Duration: 3 * time.Second, TickInterval: time.Second}, start)
	set.Advance(start.Add(3 * time.Second))

	if len(host.heals) != 3 {
		t.Fatalf("expected 3 regeneration ticks, got %d", len(host.heals))
	}
}

func TestSetReflect_ReportsPercent(t *testing.T) {
	set := NewSet(&recordingHost{}, nil)
	now := time.Unix(0, 0)

	if got := set.ReflectPercent(); got != 0 {
		t.Fatalf("expected no reflect by default, got %v", got)
	}
	set.Apply(Application{Kind: KindReflect, Magnitude: 0.3, Duration: 4 * time.Second}, now)
	if got := set.ReflectPercent(); got != 0.3 {
		t.Fatalf("expected reflect percent 0.3, got %v", got)
	}
}
