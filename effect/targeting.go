package effect

import (
	"math"
	"sort"

	"emberforge/core/tags"
)

// Position is a point in world units.
type Position struct {
	X float64
	Y float64
}

// Direction is a facing vector; it does not need to be normalized.
type Direction struct {
	X float64
	Y float64
}

// Candidate is a positional snapshot of a combatant taken at query time.
type Candidate struct {
	ID string
	X  float64
	Y  float64
}

// SpatialQuery is the world-side geometry collaborator. Implementations must
// return candidates in a stable order so chain and pierce tie-breaking stays
// deterministic.
type SpatialQuery interface {
	CandidatesWithin(x, y, radius float64) []Candidate
}

// FindTargets enumerates the concrete target set for one geometry resolution.
// Geometry is resolved exactly once against the state at call time; an empty
// result is a normal outcome, never an error.
func FindTargets(origin Position, facing Direction, geometryTag string, params map[string]float64, query SpatialQuery) []Candidate {
	if query == nil {
		return nil
	}
	get := func(key string, fallback float64) float64 {
		if v, ok := params[key]; ok {
			return v
		}
		return fallback
	}

	switch geometryTag {
	case tags.TagCone:
		return coneTargets(origin, facing, get(tags.ParamConeAngle, 60), get(tags.ParamConeRange, 5), query)
	case tags.TagCircle:
		return circleTargets(origin, get(tags.ParamCircleRadius, 3), get(tags.ParamCircleOrigin, 0) != 0, get(tags.ParamMaxRange, 8), query)
	case tags.TagChain:
		return chainTargets(origin, int(get(tags.ParamChainCount, 3)), get(tags.ParamChainRange, 4), get(tags.ParamMaxRange, 6), query)
	case tags.TagBeam:
		return lineTargets(origin, facing, get(tags.ParamBeamRange, 8), get(tags.ParamBeamWidth, 1), 0, query)
	case tags.TagPierce:
		return lineTargets(origin, facing, get(tags.ParamPierceRange, 8), get(tags.ParamBeamWidth, 1), int(get(tags.ParamPierceCount, 3)), query)
	default:
		// single
		if nearest, ok := nearestCandidate(origin, get(tags.ParamMaxRange, 6), query); ok {
			return []Candidate{nearest}
		}
		return nil
	}
}

func nearestCandidate(origin Position, maxRange float64, query SpatialQuery) (Candidate, bool) {
	candidates := query.CandidatesWithin(origin.X, origin.Y, maxRange)
	best := Candidate{}
	bestDist := math.Inf(1)
	found := false
	for _, c := range candidates {
		d := distance(origin.X, origin.Y, c.X, c.Y)
		if d > maxRange {
			continue
		}
		if d < bestDist || (d == bestDist && found && c.ID < best.ID) {
			best = c
			bestDist = d
			found = true
		}
	}
	return best, found
}

func coneTargets(origin Position, facing Direction, angleDeg, rangeLimit float64, query SpatialQuery) []Candidate {
	fx, fy, ok := normalize(facing.X, facing.Y)
	if !ok {
		fx, fy = 1, 0
	}
	halfAngle := angleDeg * math.Pi / 360
	var hits []Candidate
	for _, c := range query.CandidatesWithin(origin.X, origin.Y, rangeLimit) {
		dx := c.X - origin.X
		dy := c.Y - origin.Y
		d := math.Hypot(dx, dy)
		if d > rangeLimit {
			continue
		}
		if d == 0 {
			hits = append(hits, c)
			continue
		}
		cos := (dx*fx + dy*fy) / d
		if math.Acos(clampFloat(cos, -1, 1)) <= halfAngle {
			hits = append(hits, c)
		}
	}
	sortByDistance(hits, origin)
	return hits
}

func circleTargets(origin Position, radius float64, aroundTarget bool, maxRange float64, query SpatialQuery) []Candidate {
	center := origin
	if aroundTarget {
		// Target-centered circles need a primary resolved by a single pass
		// first; the blast is then centered on that target.
		primary, ok := nearestCandidate(origin, maxRange, query)
		if !ok {
			return nil
		}
		center = Position{X: primary.X, Y: primary.Y}
	}
	var hits []Candidate
	for _, c := range query.CandidatesWithin(center.X, center.Y, radius) {
		if distance(center.X, center.Y, c.X, c.Y) <= radius {
			hits = append(hits, c)
		}
	}
	sortByDistance(hits, center)
	return hits
}

func chainTargets(origin Position, count int, hopRange, maxRange float64, query SpatialQuery) []Candidate {
	if count < 1 {
		return nil
	}
	first, ok := nearestCandidate(origin, maxRange, query)
	if !ok {
		return nil
	}
	chain := []Candidate{first}
	visited := map[string]struct{}{first.ID: {}}
	current := first
	for len(chain) < count {
		next := Candidate{}
		nextDist := math.Inf(1)
		found := false
		for _, c := range query.CandidatesWithin(current.X, current.Y, hopRange) {
			if _, hit := visited[c.ID]; hit {
				continue
			}
			d := distance(current.X, current.Y, c.X, c.Y)
			if d > hopRange {
				continue
			}
			// Smallest entity id wins distance ties.
			if d < nextDist || (d == nextDist && found && c.ID < next.ID) {
				next = c
				nextDist = d
				found = true
			}
		}
		if !found {
			break
		}
		visited[next.ID] = struct{}{}
		chain = append(chain, next)
		current = next
	}
	return chain
}

// lineTargets covers beam (limit 0 means unlimited) and pierce (ordered,
// capped at limit) with a fixed-width corridor along the facing direction.
func lineTargets(origin Position, facing Direction, length, width float64, limit int, query SpatialQuery) []Candidate {
	fx, fy, ok := normalize(facing.X, facing.Y)
	if !ok {
		fx, fy = 1, 0
	}
	halfWidth := width / 2
	reach := math.Hypot(length, halfWidth)
	var hits []Candidate
	for _, c := range query.CandidatesWithin(origin.X, origin.Y, reach) {
		dx := c.X - origin.X
		dy := c.Y - origin.Y
		along := dx*fx + dy*fy
		if along < 0 || along > length {
			continue
		}
		across := math.Abs(dx*fy - dy*fx)
		if across > halfWidth {
			continue
		}
		hits = append(hits, c)
	}
	sortByDistance(hits, origin)
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func sortByDistance(candidates []Candidate, from Position) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di := distance(from.X, from.Y, candidates[i].X, candidates[i].Y)
		dj := distance(from.X, from.Y, candidates[j].X, candidates[j].Y)
		if di != dj {
			return di < dj
		}
		return candidates[i].ID < candidates[j].ID
	})
}

func distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

func normalize(x, y float64) (float64, float64, bool) {
	length := math.Hypot(x, y)
	if length == 0 {
		return 0, 0, false
	}
	return x / length, y / length, true
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
