package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"emberforge/core/tags"
)

type source interface {
	Load() ([]byte, error)
	Path() string
}

type fileSource struct {
	path string
}

func (f fileSource) Load() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f fileSource) Path() string {
	return f.path
}

// memorySource backs tests with in-memory catalog data.
type memorySource struct {
	name string
	data []byte
}

func (m memorySource) Load() ([]byte, error) {
	return m.data, nil
}

func (m memorySource) Path() string {
	return m.name
}

// EntryDocument represents one tag definition as it appears on disk. The
// struct is exported so tooling (e.g. the schema generator) can reflect over
// the configuration contract shared with designers.
type EntryDocument struct {
	Name             string             `json:"name" jsonschema:"title=Tag Name,description=Identifier referenced from item and skill tag lists.,pattern=^[a-z0-9_]+$,minLength=1,required"`
	Category         string             `json:"category" jsonschema:"title=Category,description=Resolution role of the tag.,enum=damage_type,enum=geometry,enum=status_buff,enum=status_debuff,enum=special_mechanic,enum=context,enum=trigger,required"`
	DefaultParams    map[string]float64 `json:"defaultParams,omitempty" jsonschema:"title=Default Parameters,description=Numeric defaults applied when the caller omits a parameter."`
	IncompatibleWith []string           `json:"incompatibleWith,omitempty" jsonschema:"title=Incompatible Tags,description=Tags that may never co-occur with this one."`
	Synergies        []SynergyDocument  `json:"synergies,omitempty" jsonschema:"title=Synergies,description=Parameter bonuses unlocked when a partner tag is present."`
}

// SynergyDocument mirrors tags.SynergyRule for catalog authoring.
type SynergyDocument struct {
	With      string             `json:"with" jsonschema:"title=Partner Tag,minLength=1,required"`
	Mode      string             `json:"mode" jsonschema:"title=Combine Mode,enum=add,enum=multiply,required"`
	Overrides map[string]float64 `json:"overrides" jsonschema:"title=Overrides,description=Parameter adjustments folded in when both tags are present.,required"`
}

func (d EntryDocument) definition() tags.Definition {
	def := tags.Definition{
		Name:             strings.TrimSpace(d.Name),
		Category:         tags.Category(strings.TrimSpace(d.Category)),
		IncompatibleWith: append([]string(nil), d.IncompatibleWith...),
	}
	if len(d.DefaultParams) > 0 {
		def.DefaultParams = make(map[string]float64, len(d.DefaultParams))
		for key, value := range d.DefaultParams {
			def.DefaultParams[key] = value
		}
	}
	for _, syn := range d.Synergies {
		rule := tags.SynergyRule{
			With: strings.TrimSpace(syn.With),
			Mode: tags.SynergyMode(strings.TrimSpace(syn.Mode)),
		}
		if len(syn.Overrides) > 0 {
			rule.Overrides = make(map[string]float64, len(syn.Overrides))
			for key, value := range syn.Overrides {
				rule.Overrides[key] = value
			}
		}
		def.Synergies = append(def.Synergies, rule)
	}
	return def
}

// Resolver merges the built-in tag vocabulary with zero or more overlay
// sources into a validated, stable index. Call Reload to pick up on-disk
// changes (used for dev hot reload).
type Resolver struct {
	mu      sync.RWMutex
	base    tags.Registry
	sources []source
	index   tags.Index
}

// DefaultPaths returns the canonical catalog locations relative to the module
// root. Callers may pass these to Load.
func DefaultPaths() []string {
	candidates := []string{
		filepath.Join("config", "tags", "definitions.json"),
		filepath.Join("..", "config", "tags", "definitions.json"),
	}
	paths := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		cleaned := filepath.Clean(candidate)
		if _, duplicate := seen[cleaned]; duplicate {
			continue
		}
		seen[cleaned] = struct{}{}
		paths = append(paths, cleaned)
	}
	return paths
}

// Load constructs a Resolver over the built-in registry plus the provided
// overlay file paths. Missing files are skipped so a bare checkout still
// resolves the built-in vocabulary.
func Load(base tags.Registry, paths ...string) (*Resolver, error) {
	sources := make([]source, 0, len(paths))
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		sources = append(sources, fileSource{path: trimmed})
	}
	return NewResolver(base, sources...)
}

// NewResolver constructs a Resolver from arbitrary sources. Tests supply
// in-memory sources while production code uses fileSource.
func NewResolver(base tags.Registry, sources ...source) (*Resolver, error) {
	r := &Resolver{
		base:    base,
		sources: append([]source(nil), sources...),
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-parses all overlay sources on top of the base registry. Later
// sources override earlier ones, and any overlay entry overrides the built-in
// definition of the same name wholesale. The swap is atomic: a failed reload
// leaves the previous index serving.
func (r *Resolver) Reload() error {
	if r == nil {
		return nil
	}

	merged := make(map[string]tags.Definition, len(r.base))
	order := make([]string, 0, len(r.base))
	for _, def := range r.base {
		if _, exists := merged[def.Name]; !exists {
			order = append(order, def.Name)
		}
		merged[def.Name] = def
	}

	for _, src := range r.sources {
		data, err := src.Load()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("catalog: failed loading %s: %w", src.Path(), err)
		}
		documents, err := decodeEntries(data)
		if err != nil {
			return fmt.Errorf("catalog: failed parsing %s: %w", src.Path(), err)
		}
		seen := make(map[string]struct{}, len(documents))
		for _, doc := range documents {
			name := strings.TrimSpace(doc.Name)
			if name == "" {
				return fmt.Errorf("catalog: entry missing name in %s", src.Path())
			}
			if _, dup := seen[name]; dup {
				return fmt.Errorf("catalog: duplicate name %q in %s", name, src.Path())
			}
			seen[name] = struct{}{}
			if _, exists := merged[name]; !exists {
				order = append(order, name)
			}
			merged[name] = doc.definition()
		}
	}

	registry := make(tags.Registry, 0, len(order))
	for _, name := range order {
		registry = append(registry, merged[name])
	}
	index, err := registry.Index()
	if err != nil {
		return fmt.Errorf("catalog: merged registry invalid: %w", err)
	}

	r.mu.Lock()
	r.index = index
	r.mu.Unlock()
	return nil
}

// Index returns the current resolved index. The returned map must be treated
// as read-only; Reload replaces it rather than mutating in place.
func (r *Resolver) Index() tags.Index {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index
}

// Lookup resolves one tag definition from the current index.
func (r *Resolver) Lookup(name string) (tags.Definition, bool) {
	if r == nil {
		return tags.Definition{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index.Lookup(name)
}

// Names returns the sorted tag names in the current index.
func (r *Resolver) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.index))
	for name := range r.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// decodeEntries accepts both catalog shapes: a JSON array of entry documents,
// or an object keyed by tag name whose values are the documents.
func decodeEntries(data []byte) ([]EntryDocument, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		var entries []EntryDocument
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	case '{':
		var object map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &object); err != nil {
			return nil, err
		}
		names := make([]string, 0, len(object))
		for name := range object {
			names = append(names, name)
		}
		sort.Strings(names)
		entries := make([]EntryDocument, 0, len(names))
		for _, name := range names {
			var entry EntryDocument
			if err := json.Unmarshal(object[name], &entry); err != nil {
				return nil, fmt.Errorf("entry %q: %w", name, err)
			}
			if entry.Name == "" {
				entry.Name = name
			} else if entry.Name != name {
				return nil, fmt.Errorf("entry name %q does not match key %q", entry.Name, name)
			}
			entries = append(entries, entry)
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("catalog data must be a JSON array or object")
	}
}
