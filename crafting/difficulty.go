package crafting

import "fmt"

// Discipline selects the crafting minigame family. Policy differences between
// disciplines live here rather than on the caller.
type Discipline string

const (
	DisciplineSmithing    Discipline = "smithing"
	DisciplineRefining    Discipline = "refining"
	DisciplineAlchemy     Discipline = "alchemy"
	DisciplineEngineering Discipline = "engineering"
	DisciplineEnchanting  Discipline = "enchanting"
)

// Material is one stack of crafting input. Tier runs 1 to 4.
type Material struct {
	ID       string
	Tier     int
	Quantity int
}

// ParamRange is one minigame parameter's easy and hard bound. The bounds may
// run in either direction; a shrinking range means harder.
type ParamRange struct {
	Easy float64
	Hard float64
}

// MaterialError reports a material stack that fails validation.
type MaterialError struct {
	ID     string
	Reason string
}

func (e *MaterialError) Error() string {
	return fmt.Sprintf("crafting: material %q invalid: %s", e.ID, e.Reason)
}

const (
	minTier = 1
	maxTier = 4

	diversityStep = 0.1

	// Interpolation treats 1 point as trivially easy and 100 as maximally
	// hard; everything outside clamps.
	minPoints = 1
	maxPoints = 100
)

// usesDiversity reports whether the discipline rewards mixing distinct
// materials. Smithing is single-focus and excludes the bonus.
func (d Discipline) usesDiversity() bool {
	switch d {
	case DisciplineRefining, DisciplineAlchemy, DisciplineEngineering, DisciplineEnchanting:
		return true
	}
	return false
}

// Valid reports whether the discipline is one of the known five.
func (d Discipline) Valid() bool {
	switch d {
	case DisciplineSmithing, DisciplineRefining, DisciplineAlchemy, DisciplineEngineering, DisciplineEnchanting:
		return true
	}
	return false
}

// CalculatePoints folds a material list into a difficulty scalar. Each stack
// contributes 2^(tier-1) per unit, so one tier-4 unit weighs as much as eight
// tier-1 units. Disciplines with a diversity policy multiply the total by
// 1 + (uniqueCount-1) * 0.1.
func CalculatePoints(discipline Discipline, materials []Material) (float64, error) {
	if len(materials) == 0 {
		return 0, &MaterialError{Reason: "empty material list"}
	}
	unique := make(map[string]struct{}, len(materials))
	total := 0.0
	for _, m := range materials {
		if m.ID == "" {
			return 0, &MaterialError{Reason: "blank material id"}
		}
		if m.Tier < minTier || m.Tier > maxTier {
			return 0, &MaterialError{ID: m.ID, Reason: fmt.Sprintf("tier %d outside [%d,%d]", m.Tier, minTier, maxTier)}
		}
		if m.Quantity <= 0 {
			return 0, &MaterialError{ID: m.ID, Reason: fmt.Sprintf("quantity %d must be positive", m.Quantity)}
		}
		unique[m.ID] = struct{}{}
		total += float64(int(1)<<uint(m.Tier-1)) * float64(m.Quantity)
	}
	if discipline.usesDiversity() && len(unique) > 1 {
		total *= 1 + float64(len(unique)-1)*diversityStep
	}
	return total, nil
}

// Interpolate maps difficulty points onto each named parameter range. Points
// normalize to [0,1] across the 1..100 span and lerp from the easy bound to
// the hard bound, so more points always move toward hard.
func Interpolate(points float64, ranges map[string]ParamRange) map[string]float64 {
	t := (points - minPoints) / (maxPoints - minPoints)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	out := make(map[string]float64, len(ranges))
	for name, r := range ranges {
		out[name] = r.Easy + (r.Hard-r.Easy)*t
	}
	return out
}

// Ranges returns the built-in minigame parameter ranges for a discipline. The
// presentation layer consumes these; the calculator only guarantees the
// easy-to-hard direction.
func Ranges(d Discipline) map[string]ParamRange {
	switch d {
	case DisciplineSmithing:
		return map[string]ParamRange{
			"time_limit":    {Easy: 60, Hard: 20},
			"required_hits": {Easy: 3, Hard: 9},
			"target_width":  {Easy: 0.4, Hard: 0.1},
			"hammer_speed":  {Easy: 0.5, Hard: 1.5},
		}
	case DisciplineRefining:
		return map[string]ParamRange{
			"time_limit":    {Easy: 45, Hard: 15},
			"heat_window":   {Easy: 0.3, Hard: 0.08},
			"cooldown_rate": {Easy: 0.5, Hard: 1.2},
		}
	case DisciplineAlchemy:
		return map[string]ParamRange{
			"time_limit":      {Easy: 50, Hard: 20},
			"sequence_length": {Easy: 3, Hard: 8},
			"stir_tolerance":  {Easy: 0.35, Hard: 0.1},
		}
	case DisciplineEngineering:
		return map[string]ParamRange{
			"time_limit":  {Easy: 60, Hard: 25},
			"part_count":  {Easy: 4, Hard: 10},
			"slot_margin": {Easy: 0.3, Hard: 0.08},
		}
	case DisciplineEnchanting:
		return map[string]ParamRange{
			"time_limit":    {Easy: 40, Hard: 15},
			"glyph_count":   {Easy: 3, Hard: 7},
			"trace_padding": {Easy: 0.25, Hard: 0.06},
		}
	}
	return nil
}
