package stats

const (
	baseCritDamageMult = 1.5
	armorMitigationK   = 100.0
)

func computeDerived(total ValueSet) DerivedSet {
	var derived DerivedSet

	derived[DerivedCritChance] = clamp(total[StatCritChance], 0, 1)
	critDamage := total[StatCritDamage]
	if critDamage < 1 {
		critDamage = baseCritDamageMult
	}
	derived[DerivedCritDamage] = clamp(critDamage, 1, 10)
	derived[DerivedMitigation] = computeMitigation(total[StatArmor])
	derived[DerivedMoveSpeed] = clamp(total[StatMoveSpeed], 0, 1e9)

	return derived
}

// computeMitigation maps armor onto a [0,1) physical mitigation fraction with
// diminishing returns.
func computeMitigation(armor float64) float64 {
	if armor <= 0 {
		return 0
	}
	return clamp(armor/(armor+armorMitigationK), 0, 0.9)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
