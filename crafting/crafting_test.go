package crafting

import (
	"context"
	"errors"
	"math"
	"testing"

	"emberforge/core/logging"
	loggingcrafting "emberforge/core/logging/crafting"
)

func TestCalculatePointsTierWeighting(t *testing.T) {
	cases := []struct {
		name      string
		materials []Material
		want      float64
	}{
		{"single tier 1", []Material{{ID: "copper", Tier: 1, Quantity: 1}}, 1},
		{"single tier 4", []Material{{ID: "mithril", Tier: 4, Quantity: 1}}, 8},
		{"stacked tier 2", []Material{{ID: "iron", Tier: 2, Quantity: 5}}, 10},
		{"mixed stack", []Material{
			{ID: "iron", Tier: 2, Quantity: 3},
			{ID: "iron", Tier: 2, Quantity: 1},
		}, 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CalculatePoints(DisciplineSmithing, tc.materials)
			if err != nil {
				t.Fatalf("calculate failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("points = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCalculatePointsDiversityPolicy(t *testing.T) {
	materials := []Material{
		{ID: "herb", Tier: 1, Quantity: 2},
		{ID: "crystal", Tier: 2, Quantity: 1},
		{ID: "essence", Tier: 3, Quantity: 1},
	}
	// Base 2 + 2 + 4 = 8; three unique materials give a 1.2 multiplier.
	alchemy, err := CalculatePoints(DisciplineAlchemy, materials)
	if err != nil {
		t.Fatalf("alchemy calculate failed: %v", err)
	}
	if math.Abs(alchemy-9.6) > 1e-9 {
		t.Fatalf("alchemy points = %v, want 9.6", alchemy)
	}
	// Smithing is single-focus and skips the diversity bonus.
	smithing, err := CalculatePoints(DisciplineSmithing, materials)
	if err != nil {
		t.Fatalf("smithing calculate failed: %v", err)
	}
	if smithing != 8 {
		t.Fatalf("smithing points = %v, want 8", smithing)
	}
}

func TestCalculatePointsRejectsBadMaterials(t *testing.T) {
	cases := []struct {
		name      string
		materials []Material
	}{
		{"empty list", nil},
		{"blank id", []Material{{Tier: 1, Quantity: 1}}},
		{"tier zero", []Material{{ID: "ore", Tier: 0, Quantity: 1}}},
		{"tier five", []Material{{ID: "ore", Tier: 5, Quantity: 1}}},
		{"zero quantity", []Material{{ID: "ore", Tier: 1, Quantity: 0}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CalculatePoints(DisciplineSmithing, tc.materials)
			var matErr *MaterialError
			if !errors.As(err, &matErr) {
				t.Fatalf("err = %v, want MaterialError", err)
			}
		})
	}
}

func TestInterpolateTimeLimitEndpoints(t *testing.T) {
	ranges := map[string]ParamRange{"time_limit": {Easy: 60, Hard: 20}}
	if got := Interpolate(1, ranges)["time_limit"]; got != 60 {
		t.Fatalf("points 1: time_limit = %v, want 60", got)
	}
	if got := Interpolate(100, ranges)["time_limit"]; got != 20 {
		t.Fatalf("points 100: time_limit = %v, want 20", got)
	}
	// Out-of-range points clamp to the endpoints.
	if got := Interpolate(0, ranges)["time_limit"]; got != 60 {
		t.Fatalf("points 0: time_limit = %v, want 60", got)
	}
	if got := Interpolate(500, ranges)["time_limit"]; got != 20 {
		t.Fatalf("points 500: time_limit = %v, want 20", got)
	}
}

func TestInterpolateMonotonic(t *testing.T) {
	ranges := map[string]ParamRange{"time_limit": {Easy: 60, Hard: 20}}
	prev := math.Inf(1)
	for points := 1.0; points <= 100; points++ {
		got := Interpolate(points, ranges)["time_limit"]
		if got >= prev && points > 1 {
			t.Fatalf("points %v: time_limit %v did not decrease from %v", points, got, prev)
		}
		prev = got
	}
}

func TestCalculateMultiplierBounds(t *testing.T) {
	cases := []struct {
		points      float64
		performance float64
		want        float64
	}{
		{0, 1, 1.0},
		{100, 1, 2.5},
		{100, 0, 1.0},
		{100, 0.5, 1.75},
		{50, 1, 1.75},
		{250, 1, 2.5}, // points cap at 100
	}
	for _, tc := range cases {
		got := CalculateMultiplier(tc.points, tc.performance)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("multiplier(%v, %v) = %v, want %v", tc.points, tc.performance, got, tc.want)
		}
	}
}

func TestCalculateMultiplierFloorAtZeroPerformance(t *testing.T) {
	for _, points := range []float64{0, 1, 42, 100, 10000} {
		if got := CalculateMultiplier(points, 0); got != 1.0 {
			t.Fatalf("multiplier(%v, 0) = %v, want 1.0", points, got)
		}
	}
}

func TestEvaluatePublishesOutcome(t *testing.T) {
	var published []logging.Event
	pub := logging.PublisherFunc(func(_ context.Context, evt logging.Event) {
		published = append(published, evt)
	})
	ev := NewEvaluator(pub)

	out, err := ev.Evaluate(logging.EntityRef{ID: "smith-1", Kind: logging.EntityKindPlayer}, DisciplineSmithing, []Material{
		{ID: "iron", Tier: 2, Quantity: 5},
	}, 0.8, 7)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if out.DifficultyPoints != 10 {
		t.Fatalf("points = %v, want 10", out.DifficultyPoints)
	}
	if _, ok := out.Params["time_limit"]; !ok {
		t.Fatalf("params missing time_limit: %v", out.Params)
	}
	want := CalculateMultiplier(10, 0.8)
	if out.RewardMultiplier != want {
		t.Fatalf("multiplier = %v, want %v", out.RewardMultiplier, want)
	}
	if len(published) != 1 {
		t.Fatalf("events = %d, want 1", len(published))
	}
	if published[0].Type != loggingcrafting.EventEvaluated {
		t.Fatalf("event type = %q, want %q", published[0].Type, loggingcrafting.EventEvaluated)
	}
	if published[0].Actor.ID != "smith-1" {
		t.Fatalf("actor = %q, want smith-1", published[0].Actor.ID)
	}
}

func TestEvaluateRejectsUnknownDiscipline(t *testing.T) {
	ev := NewEvaluator(nil)
	_, err := ev.Evaluate(logging.EntityRef{}, Discipline("fishing"), []Material{{ID: "ore", Tier: 1, Quantity: 1}}, 1, 0)
	if err == nil {
		t.Fatalf("expected error for unknown discipline")
	}
}
