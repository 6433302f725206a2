package effect

import (
	"math"
	"strings"
	"time"

	"emberforge/core/tags"
)

// Parse resolves a raw tag list plus caller params into a validated Config.
// Defaults come from the registry, caller values always win, and synergy
// rules adjust only values the caller did not set explicitly. Parse is a pure
// function over the index and its inputs.
func Parse(index tags.Index, tagNames []string, params map[string]float64) (*Config, error) {
	if params == nil {
		params = map[string]float64{}
	}

	seen := make(map[string]struct{}, len(tagNames))
	ordered := make([]string, 0, len(tagNames))
	defs := make(map[string]tags.Definition, len(tagNames))
	for _, raw := range tagNames {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		def, ok := index.Lookup(name)
		if !ok {
			return nil, &UnknownTagError{Tag: name}
		}
		seen[name] = struct{}{}
		ordered = append(ordered, name)
		defs[name] = def
	}

	for i, a := range ordered {
		for _, b := range ordered[i+1:] {
			if defs[a].IsIncompatibleWith(b) || defs[b].IsIncompatibleWith(a) {
				return nil, &TagConflictError{First: a, Second: b}
			}
		}
	}

	cfg := &Config{
		DamageMults:   make(map[string]float64),
		SpecialParams: make(map[string]float64),
	}

	var geometryTags []string
	var statusTags []string
	for _, name := range ordered {
		switch defs[name].Category {
		case tags.CategoryDamageType:
			cfg.DamageTags = append(cfg.DamageTags, name)
		case tags.CategoryGeometry:
			geometryTags = append(geometryTags, name)
		case tags.CategoryStatusBuff, tags.CategoryStatusDebuff:
			statusTags = append(statusTags, name)
		case tags.CategorySpecial:
			cfg.SpecialTags = append(cfg.SpecialTags, name)
		case tags.CategoryContext:
			cfg.ContextTags = append(cfg.ContextTags, name)
		case tags.CategoryTrigger:
			cfg.TriggerTags = append(cfg.TriggerTags, name)
		}
	}

	if len(geometryTags) > 1 {
		return nil, &ConflictingGeometryError{Tags: geometryTags}
	}
	geometryTag := tags.TagSingle
	if len(geometryTags) == 1 {
		geometryTag = geometryTags[0]
	}
	cfg.GeometryTag = geometryTag

	// Resolve geometry and special params from defaults. Caller values are
	// merged after synergies so an explicit override is never adjusted.
	geoParams := cloneParams(defaultsFor(index, geometryTag))
	for _, name := range cfg.SpecialTags {
		for key, value := range defs[name].DefaultParams {
			if _, exists := cfg.SpecialParams[key]; !exists {
				cfg.SpecialParams[key] = value
			}
		}
	}

	specs := make([]StatusSpec, 0, len(statusTags))
	specIndex := make(map[string]int, len(statusTags))
	for _, name := range statusTags {
		kind, ok := statusKindFor(name)
		if !ok {
			return nil, &UnknownTagError{Tag: name}
		}
		defaults := defs[name].DefaultParams
		spec := StatusSpec{
			Tag:          name,
			Kind:         kind,
			Duration:     secondsToDuration(defaults[tags.ParamDuration]),
			Magnitude:    defaults[tags.ParamMagnitude],
			TickInterval: secondsToDuration(defaults[tags.ParamTickInterval]),
			MaxStacks:    int(defaults[tags.ParamMaxStacks]),
		}
		specIndex[name] = len(specs)
		specs = append(specs, spec)
	}

	applySynergies(ordered, defs, params, geoParams, cfg.SpecialParams, specs, specIndex, len(statusTags))

	// Caller geometry/special overrides.
	for key, value := range params {
		if _, known := geoParams[key]; known {
			geoParams[key] = value
		}
		if _, known := cfg.SpecialParams[key]; known {
			cfg.SpecialParams[key] = value
		}
	}
	cfg.GeometryParams = geoParams

	// Caller status overrides: "<tag>_<param>" always wins; a bare param name
	// applies only when a single status tag leaves it unambiguous.
	for i := range specs {
		spec := &specs[i]
		if v, ok := statusParam(params, spec.Tag, tags.ParamDuration, len(specs)); ok {
			spec.Duration = secondsToDuration(v)
		}
		if v, ok := statusParam(params, spec.Tag, tags.ParamMagnitude, len(specs)); ok {
			spec.Magnitude = v
		}
		if v, ok := statusParam(params, spec.Tag, tags.ParamTickInterval, len(specs)); ok {
			spec.TickInterval = secondsToDuration(v)
		}
		if v, ok := statusParam(params, spec.Tag, tags.ParamMaxStacks, len(specs)); ok {
			spec.MaxStacks = int(v)
		}
		if spec.MaxStacks <= 0 {
			spec.MaxStacks = 1
		}
	}
	cfg.Statuses = specs

	// Damage multipliers per damage tag.
	for _, name := range cfg.DamageTags {
		mult := defs[name].DefaultParams[tags.ParamDamageMult]
		if mult == 0 {
			mult = 1
		}
		if v, ok := params[name+"_"+tags.ParamDamageMult]; ok {
			mult = v
		} else if v, ok := params[tags.ParamDamageMult]; ok {
			mult = v
		}
		cfg.DamageMults[name] = mult
	}

	cfg.BaseDamage = params[tags.ParamBaseDamage]
	cfg.CritChanceBonus = params[tags.ParamCritChanceBonus]
	cfg.CritDamageMult = params[tags.ParamCritDamageMult]
	cfg.GuaranteedCrit = params[tags.ParamGuaranteedCrit] != 0

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applySynergies walks every present tag pair with a synergy rule and folds
// the rule's overrides into whichever param store holds the key. Keys the
// caller set explicitly are left alone.
func applySynergies(ordered []string, defs map[string]tags.Definition, callerParams map[string]float64, geoParams, specialParams map[string]float64, specs []StatusSpec, specIndex map[string]int, statusCount int) {
	present := make(map[string]struct{}, len(ordered))
	for _, name := range ordered {
		present[name] = struct{}{}
	}
	for _, name := range ordered {
		for _, rule := range defs[name].Synergies {
			if _, ok := present[rule.With]; !ok {
				continue
			}
			for key, value := range rule.Overrides {
				if _, explicit := callerParams[key]; explicit {
					continue
				}
				if current, ok := geoParams[key]; ok {
					geoParams[key] = combine(current, value, rule.Mode)
					continue
				}
				if current, ok := specialParams[key]; ok {
					specialParams[key] = combine(current, value, rule.Mode)
					continue
				}
				// Status partner params are held on the spec, not in a map.
				if idx, ok := specIndex[rule.With]; ok {
					adjustStatusSpec(&specs[idx], key, value, rule.Mode, callerParams, statusCount)
				} else if idx, ok := specIndex[name]; ok {
					adjustStatusSpec(&specs[idx], key, value, rule.Mode, callerParams, statusCount)
				}
			}
		}
	}
}

func adjustStatusSpec(spec *StatusSpec, key string, value float64, mode tags.SynergyMode, callerParams map[string]float64, statusCount int) {
	if _, explicit := statusParam(callerParams, spec.Tag, key, statusCount); explicit {
		return
	}
	switch key {
	case tags.ParamDuration:
		spec.Duration = secondsToDuration(combine(spec.Duration.Seconds(), value, mode))
	case tags.ParamMagnitude:
		spec.Magnitude = combine(spec.Magnitude, value, mode)
	case tags.ParamTickInterval:
		spec.TickInterval = secondsToDuration(combine(spec.TickInterval.Seconds(), value, mode))
	case tags.ParamMaxStacks:
		spec.MaxStacks = int(combine(float64(spec.MaxStacks), value, mode))
	}
}

func combine(current, override float64, mode tags.SynergyMode) float64 {
	if mode == tags.SynergyMultiply {
		return current * override
	}
	return current + override
}

func statusParam(params map[string]float64, tag, name string, statusCount int) (float64, bool) {
	if v, ok := params[tag+"_"+name]; ok {
		return v, true
	}
	if statusCount == 1 {
		if v, ok := params[name]; ok {
			return v, true
		}
	}
	return 0, false
}

func defaultsFor(index tags.Index, name string) map[string]float64 {
	def, ok := index.Lookup(name)
	if !ok {
		return nil
	}
	return def.DefaultParams
}

func cloneParams(src map[string]float64) map[string]float64 {
	dst := make(map[string]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func secondsToDuration(seconds float64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func validateConfig(cfg *Config) error {
	if cfg.BaseDamage < 0 || !isFinite(cfg.BaseDamage) {
		return &ParamRangeError{Param: tags.ParamBaseDamage, Value: cfg.BaseDamage, Reason: "must be >= 0"}
	}
	if cfg.CritChanceBonus < 0 || cfg.CritChanceBonus > 1 {
		return &ParamRangeError{Param: tags.ParamCritChanceBonus, Value: cfg.CritChanceBonus, Reason: "must be in [0,1]"}
	}
	if cfg.CritDamageMult != 0 && cfg.CritDamageMult < 1 {
		return &ParamRangeError{Param: tags.ParamCritDamageMult, Value: cfg.CritDamageMult, Reason: "must be >= 1 when set"}
	}

	positives := map[string]string{
		tags.ParamMaxRange:     "must be > 0",
		tags.ParamConeRange:    "must be > 0",
		tags.ParamCircleRadius: "must be > 0",
		tags.ParamChainRange:   "must be > 0",
		tags.ParamBeamRange:    "must be > 0",
		tags.ParamBeamWidth:    "must be > 0",
		tags.ParamPierceRange:  "must be > 0",
	}
	for key, reason := range positives {
		if v, ok := cfg.GeometryParams[key]; ok && (v <= 0 || !isFinite(v)) {
			return &ParamRangeError{Param: key, Value: v, Reason: reason}
		}
	}
	if v, ok := cfg.GeometryParams[tags.ParamConeAngle]; ok && (v <= 0 || v > 360) {
		return &ParamRangeError{Param: tags.ParamConeAngle, Value: v, Reason: "must be in (0,360]"}
	}
	for _, key := range []string{tags.ParamChainCount, tags.ParamPierceCount} {
		if v, ok := cfg.GeometryParams[key]; ok && v < 1 {
			return &ParamRangeError{Param: key, Value: v, Reason: "must be >= 1"}
		}
	}
	if v, ok := cfg.GeometryParams[tags.ParamHopFalloff]; ok && (v <= 0 || v > 1) {
		return &ParamRangeError{Param: tags.ParamHopFalloff, Value: v, Reason: "must be in (0,1]"}
	}

	for _, spec := range cfg.Statuses {
		if spec.Duration <= 0 {
			return &ParamRangeError{Param: spec.Tag + "_" + tags.ParamDuration, Value: spec.Duration.Seconds(), Reason: "must be > 0"}
		}
		if spec.Magnitude < 0 || !isFinite(spec.Magnitude) {
			return &ParamRangeError{Param: spec.Tag + "_" + tags.ParamMagnitude, Value: spec.Magnitude, Reason: "must be >= 0"}
		}
		if spec.TickInterval < 0 {
			return &ParamRangeError{Param: spec.Tag + "_" + tags.ParamTickInterval, Value: spec.TickInterval.Seconds(), Reason: "must be >= 0"}
		}
	}

	fractions := []string{tags.ParamLifestealPercent, tags.ParamReflectPercent}
	for _, key := range fractions {
		if v, ok := cfg.SpecialParams[key]; ok && (v < 0 || v > 1) {
			return &ParamRangeError{Param: key, Value: v, Reason: "must be in [0,1]"}
		}
	}
	if v, ok := cfg.SpecialParams[tags.ParamExecuteThreshold]; ok && (v <= 0 || v >= 1) {
		return &ParamRangeError{Param: tags.ParamExecuteThreshold, Value: v, Reason: "must be in (0,1)"}
	}
	if v, ok := cfg.SpecialParams[tags.ParamKnockbackDistance]; ok && (v < 0 || !isFinite(v)) {
		return &ParamRangeError{Param: tags.ParamKnockbackDistance, Value: v, Reason: "must be >= 0"}
	}
	if v, ok := cfg.SpecialParams[tags.ParamSummonCount]; ok && v < 1 {
		return &ParamRangeError{Param: tags.ParamSummonCount, Value: v, Reason: "must be >= 1"}
	}
	if v, ok := cfg.SpecialParams[tags.ParamTeleportRange]; ok && (v <= 0 || !isFinite(v)) {
		return &ParamRangeError{Param: tags.ParamTeleportRange, Value: v, Reason: "must be > 0"}
	}
	if v, ok := cfg.SpecialParams[tags.ParamPhaseDuration]; ok && (v <= 0 || !isFinite(v)) {
		return &ParamRangeError{Param: tags.ParamPhaseDuration, Value: v, Reason: "must be > 0"}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
