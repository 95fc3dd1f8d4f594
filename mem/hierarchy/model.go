// Package hierarchy links cache and TLB levels into the memory hierarchy of a
// system model and propagates coherence-mode flags between neighbors.
package hierarchy

import (
	"strings"

	"github.com/sarchlab/archgen/config"
)

// SystemModel selects one of the fixed hierarchy templates.
type SystemModel string

// Supported system models.
const (
	Simple  SystemModel = "simple"
	Complex SystemModel = "complex"
)

// SupportedModels lists the supported system models.
func SupportedModels() []string {
	return []string{string(Simple), string(Complex)}
}

// ParseSystemModel accepts a model name in any letter case.
func ParseSystemModel(s string) (SystemModel, error) {
	switch m := SystemModel(strings.ToLower(strings.TrimSpace(s))); m {
	case Simple, Complex:
		return m, nil
	default:
		return "", &config.InvalidEnumError{
			Domain:    config.DomainSystem,
			Field:     "model",
			Value:     s,
			Supported: SupportedModels(),
		}
	}
}

// LevelTemplate names a level, the type name emitted for it and the fixed
// successor it forwards misses to.
type LevelTemplate struct {
	Name      string
	TypeName  string
	Successor Successor
}

// Template is the fixed list of levels of a system model.
type Template struct {
	Model  SystemModel
	Levels []LevelTemplate
}

// LevelNames lists the level names in template order.
func (t Template) LevelNames() []string {
	names := make([]string, len(t.Levels))
	for i, l := range t.Levels {
		names[i] = l.Name
	}

	return names
}

// HasWalker reports whether any level forwards to the page-table walker.
func (t Template) HasWalker() bool {
	for _, l := range t.Levels {
		if l.Successor.Kind == KindWalker {
			return true
		}
	}

	return false
}

var templates = map[SystemModel]Template{
	Simple: {
		Model: Simple,
		Levels: []LevelTemplate{
			{"LLC", "LLCache", ToMemory()},
		},
	},
	Complex: {
		Model: Complex,
		Levels: []LevelTemplate{
			{"LLC", "LLCache", ToMemory()},
			{"L2", "L2Cache", ToLevel("LLC")},
			{"L1d", "L1DCache", ToLevel("L2")},
			{"L1i", "L1ICache", ToLevel("L2")},
			{"L2TLB", "L2TLB", ToWalker()},
			{"iTLB", "ITLB", ToLevel("L2TLB")},
			{"dTLB", "DTLB", ToLevel("L2TLB")},
		},
	},
}

// TemplateFor returns the template of a system model.
func TemplateFor(m SystemModel) (Template, error) {
	t, ok := templates[m]
	if !ok {
		return Template{}, &config.InvalidEnumError{
			Domain:    config.DomainSystem,
			Field:     "model",
			Value:     string(m),
			Supported: SupportedModels(),
		}
	}

	return t, nil
}
