// Package target holds the built-in hardware target registry.
package target

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/probekit/probekit/internal/format"
	"github.com/probekit/probekit/pkg/errors"
)

//go:embed targets.yaml
var targetsYAML []byte

// Target describes one supported chip. DefaultFormat is the format family
// the chip prefers when the user supplies none; empty means no preference.
type Target struct {
	Name          string      `yaml:"name"`
	Vendor        string      `yaml:"vendor"`
	Cores         int         `yaml:"cores"`
	FlashKB       int         `yaml:"flash-kb"`
	RAMKB         int         `yaml:"ram-kb"`
	DefaultFormat format.Kind `yaml:"default-format"`
}

// Registry is the loaded set of known targets.
type Registry struct {
	byName map[string]Target
}

// Load parses the embedded target registry. Targets declaring an unknown
// default format are rejected here rather than surfacing later during
// format resolution.
func Load() (*Registry, error) {
	var doc struct {
		Targets []Target `yaml:"targets"`
	}
	if err := yaml.Unmarshal(targetsYAML, &doc); err != nil {
		return nil, errors.NewParseError("built-in target registry is malformed", err)
	}

	registry := &Registry{byName: make(map[string]Target, len(doc.Targets))}
	for _, t := range doc.Targets {
		if t.Name == "" {
			return nil, errors.NewParseError("built-in target registry contains an unnamed target", nil)
		}
		if t.DefaultFormat != "" {
			if _, err := format.ParseKind(string(t.DefaultFormat)); err != nil {
				return nil, errors.NewParseError(
					fmt.Sprintf("target %s declares an invalid default format", t.Name), err)
			}
		}
		registry.byName[strings.ToLower(t.Name)] = t
	}
	return registry, nil
}

// Lookup finds a target by name, case-insensitively.
func (r *Registry) Lookup(name string) (Target, error) {
	t, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return Target{}, errors.NewConfigError(
			fmt.Sprintf("unknown chip %q, see 'probekit chip list'", name), nil)
	}
	return t, nil
}

// All returns every known target, sorted by name.
func (r *Registry) All() []Target {
	targets := make([]Target, 0, len(r.byName))
	for _, t := range r.byName {
		targets = append(targets, t)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Name < targets[j].Name })
	return targets
}
