package crafting

import (
	"context"

	"emberforge/core/logging"
	loggingcrafting "emberforge/core/logging/crafting"
)

const (
	rewardBaseline = 1.0
	rewardBonusCap = 1.5
)

// CalculateMultiplier maps difficulty points and a normalized performance
// score onto the output quality multiplier. Difficulty raises the ceiling,
// performance decides how much of it is realized, and the floor stays at the
// 1.0 baseline no matter how hard the attempt was.
func CalculateMultiplier(difficultyPoints, performance float64) float64 {
	if difficultyPoints < 0 {
		difficultyPoints = 0
	}
	if performance < 0 {
		performance = 0
	}
	if performance > 1 {
		performance = 1
	}
	scaled := difficultyPoints / maxPoints
	if scaled > 1 {
		scaled = 1
	}
	maxMultiplier := rewardBaseline + scaled*rewardBonusCap
	return rewardBaseline + (maxMultiplier-rewardBaseline)*performance
}

// Outcome bundles one full attempt evaluation for the presentation layer.
type Outcome struct {
	Discipline       Discipline
	DifficultyPoints float64
	Params           map[string]float64
	Performance      float64
	RewardMultiplier float64
}

// Evaluator runs the whole difficulty-to-reward pipeline for one attempt and
// publishes the result on the crafting event stream.
type Evaluator struct {
	pub logging.Publisher
}

func NewEvaluator(pub logging.Publisher) *Evaluator {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	return &Evaluator{pub: pub}
}

// Evaluate computes difficulty points, interpolates the discipline's minigame
// parameters, and folds the performance score into the reward multiplier.
func (ev *Evaluator) Evaluate(crafter logging.EntityRef, discipline Discipline, materials []Material, performance float64, tick uint64) (*Outcome, error) {
	if !discipline.Valid() {
		return nil, &MaterialError{Reason: "unknown discipline " + string(discipline)}
	}
	points, err := CalculatePoints(discipline, materials)
	if err != nil {
		return nil, err
	}
	out := &Outcome{
		Discipline:       discipline,
		DifficultyPoints: points,
		Params:           Interpolate(points, Ranges(discipline)),
		Performance:      clamp01(performance),
		RewardMultiplier: CalculateMultiplier(points, performance),
	}
	loggingcrafting.Evaluated(context.Background(), ev.pub, tick, crafter, loggingcrafting.EvaluatedPayload{
		Discipline:       string(discipline),
		DifficultyPoints: points,
		Performance:      out.Performance,
		RewardMultiplier: out.RewardMultiplier,
	})
	return out, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
