package data

import (
	"fmt"
	"os"

	"github.com/targetrange/server/internal/component"
	"gopkg.in/yaml.v3"
)

// TargetTemplate holds static data for a target type loaded from YAML.
type TargetTemplate struct {
	Name          string  `yaml:"name"`
	Kind          string  `yaml:"kind"` // "static" or "moving"
	Model         string  `yaml:"model"`
	CollisionMask uint32  `yaml:"collision_mask"`
	Scale         float64 `yaml:"scale"`
	Speed         float64 `yaml:"speed"`   // moving targets only; 0 = config default
	Default       bool    `yaml:"default"` // template used for bare Create(kind, pos)
}

// TargetKind maps the YAML kind string onto the component enum.
func (t *TargetTemplate) TargetKind() (component.TargetKind, error) {
	switch t.Kind {
	case "static":
		return component.KindStatic, nil
	case "moving":
		return component.KindMoving, nil
	default:
		return 0, fmt.Errorf("target %q: unknown kind %q", t.Name, t.Kind)
	}
}

type targetListFile struct {
	Targets []TargetTemplate `yaml:"targets"`
}

// TargetTable holds all target templates indexed by name, plus the
// per-kind default template used when a caller spawns by kind alone.
type TargetTable struct {
	templates map[string]*TargetTemplate
	defaults  map[component.TargetKind]*TargetTemplate
}

// LoadTargetTable loads target templates from a YAML file. Each kind must
// have exactly one template marked default; the pool falls back to it for
// Create calls that carry no template.
func LoadTargetTable(path string) (*TargetTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read target_list: %w", err)
	}
	var f targetListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse target_list: %w", err)
	}

	t := &TargetTable{
		templates: make(map[string]*TargetTemplate, len(f.Targets)),
		defaults:  make(map[component.TargetKind]*TargetTemplate, 2),
	}
	for i := range f.Targets {
		tmpl := &f.Targets[i]
		if tmpl.Name == "" {
			return nil, fmt.Errorf("target_list %s: template #%d has no name", path, i+1)
		}
		kind, err := tmpl.TargetKind()
		if err != nil {
			return nil, fmt.Errorf("target_list %s: %w", path, err)
		}
		if tmpl.Scale <= 0 {
			tmpl.Scale = 1.0
		}
		if _, dup := t.templates[tmpl.Name]; dup {
			return nil, fmt.Errorf("target_list %s: duplicate template %q", path, tmpl.Name)
		}
		t.templates[tmpl.Name] = tmpl
		if tmpl.Default {
			if _, dup := t.defaults[kind]; dup {
				return nil, fmt.Errorf("target_list %s: multiple default templates for kind %s", path, kind)
			}
			t.defaults[kind] = tmpl
		}
	}
	for _, kind := range []component.TargetKind{component.KindStatic, component.KindMoving} {
		if _, ok := t.defaults[kind]; !ok {
			return nil, fmt.Errorf("target_list %s: no default template for kind %s", path, kind)
		}
	}
	return t, nil
}

// Get returns a template by name, or nil if not found.
func (t *TargetTable) Get(name string) *TargetTemplate {
	return t.templates[name]
}

// DefaultFor returns the default template for a kind.
func (t *TargetTable) DefaultFor(kind component.TargetKind) *TargetTemplate {
	return t.defaults[kind]
}

// Count returns the number of loaded templates.
func (t *TargetTable) Count() int {
	return len(t.templates)
}
