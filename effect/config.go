package effect

import (
	"time"

	"emberforge/core/status"
	"emberforge/core/tags"
)

// Config is the parsed, validated representation of one castable effect: a
// weapon hit, skill activation, enchantment trigger, or enemy ability. It is
// created fresh per cast, owned by the calling combat action, and discarded
// after execution.
type Config struct {
	BaseDamage float64

	// DamageTags holds damage-type tag names in input order; normally a
	// singleton but hybrid effects may carry several.
	DamageTags  []string
	DamageMults map[string]float64

	// Exactly one geometry tag resolves per config.
	GeometryTag    string
	GeometryParams map[string]float64

	Statuses []StatusSpec

	SpecialTags   []string
	SpecialParams map[string]float64

	ContextTags []string
	TriggerTags []string

	CritChanceBonus float64
	CritDamageMult  float64
	GuaranteedCrit  bool
}

// StatusSpec carries the fully-resolved parameters for one status tag.
type StatusSpec struct {
	Tag          string
	Kind         status.Kind
	Duration     time.Duration
	Magnitude    float64
	TickInterval time.Duration
	MaxStacks    int
}

// HasSpecial reports whether the named special-mechanic tag is present.
func (c *Config) HasSpecial(tag string) bool {
	if c == nil {
		return false
	}
	for _, t := range c.SpecialTags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasContext reports whether the named context tag is present.
func (c *Config) HasContext(tag string) bool {
	if c == nil {
		return false
	}
	for _, t := range c.ContextTags {
		if t == tag {
			return true
		}
	}
	return false
}

// SpecialParam returns the resolved special param or fallback when absent.
func (c *Config) SpecialParam(key string, fallback float64) float64 {
	if c == nil {
		return fallback
	}
	if v, ok := c.SpecialParams[key]; ok {
		return v
	}
	return fallback
}

// GeometryParam returns the resolved geometry param or fallback when absent.
func (c *Config) GeometryParam(key string, fallback float64) float64 {
	if c == nil {
		return fallback
	}
	if v, ok := c.GeometryParams[key]; ok {
		return v
	}
	return fallback
}

// statusKindFor maps a status tag name onto its closed state-machine variant.
// Tag names and kinds agree by construction; the indirection keeps the status
// package free of tag vocabulary.
func statusKindFor(tag string) (status.Kind, bool) {
	switch tag {
	case tags.TagBurn:
		return status.KindBurn, true
	case tags.TagPoison:
		return status.KindPoison, true
	case tags.TagBleed:
		return status.KindBleed, true
	case tags.TagFreeze:
		return status.KindFreeze, true
	case tags.TagStun:
		return status.KindStun, true
	case tags.TagRoot:
		return status.KindRoot, true
	case tags.TagSlow:
		return status.KindSlow, true
	case tags.TagVulnerable:
		return status.KindVulnerable, true
	case tags.TagWeaken:
		return status.KindWeaken, true
	case tags.TagHaste:
		return status.KindHaste, true
	case tags.TagShield:
		return status.KindShield, true
	case tags.TagRegeneration:
		return status.KindRegeneration, true
	default:
		return "", false
	}
}
