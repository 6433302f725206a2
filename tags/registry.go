package tags

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	errEmptyTagName    = errors.New("tag name must not be empty")
	errInvalidCategory = errors.New("tag category is not recognized")
	errSelfSynergy     = errors.New("synergy partner must differ from the tag itself")
	errEmptySynergy    = errors.New("synergy partner must not be empty")
	errInvalidMode     = errors.New("synergy mode must be add or multiply")
)

// Registry is an ordered collection of tag definitions. Callers should
// Validate (or build an Index, which validates) before use; once indexed the
// registry is shared read-only for the life of the process.
type Registry []Definition

// Validate ensures the registry holds unique, structurally sound definitions.
func (r Registry) Validate() error {
	seen := make(map[string]struct{}, len(r))
	for _, def := range r {
		if err := def.validate(); err != nil {
			return fmt.Errorf("tags: %q: %w", def.Name, err)
		}
		if _, exists := seen[def.Name]; exists {
			return fmt.Errorf("tags: duplicate definition %q", def.Name)
		}
		seen[def.Name] = struct{}{}
	}
	for _, def := range r {
		for _, other := range def.IncompatibleWith {
			if _, ok := seen[other]; !ok {
				return fmt.Errorf("tags: %q lists unknown incompatible tag %q", def.Name, other)
			}
		}
		for _, rule := range def.Synergies {
			if _, ok := seen[rule.With]; !ok {
				return fmt.Errorf("tags: %q lists unknown synergy partner %q", def.Name, rule.With)
			}
		}
	}
	return nil
}

func (d Definition) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errEmptyTagName
	}
	switch d.Category {
	case CategoryDamageType, CategoryGeometry, CategoryStatusBuff,
		CategoryStatusDebuff, CategorySpecial, CategoryContext, CategoryTrigger:
	default:
		return fmt.Errorf("%w (%q)", errInvalidCategory, d.Category)
	}
	for key, value := range d.DefaultParams {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("default param %q is not finite", key)
		}
	}
	for _, rule := range d.Synergies {
		if strings.TrimSpace(rule.With) == "" {
			return errEmptySynergy
		}
		if rule.With == d.Name {
			return errSelfSynergy
		}
		if rule.Mode != SynergyAdd && rule.Mode != SynergyMultiply {
			return fmt.Errorf("%w (%q)", errInvalidMode, rule.Mode)
		}
	}
	return nil
}

// Index is the validated lookup table handed to the parser and executor.
type Index map[string]Definition

// Index materialises a lookup map from the registry after validation.
func (r Registry) Index() (Index, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	out := make(Index, len(r))
	for _, def := range r {
		out[def.Name] = def
	}
	return out, nil
}

// MustIndex materialises the registry and panics if validation fails. Useful
// for tests and process startup where a bad built-in table is a programmer
// error.
func (r Registry) MustIndex() Index {
	index, err := r.Index()
	if err != nil {
		panic(err)
	}
	return index
}

// Lookup returns the definition for name.
func (i Index) Lookup(name string) (Definition, bool) {
	def, ok := i[name]
	return def, ok
}
