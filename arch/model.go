// Package arch elaborates a parsed architecture description into a fully
// derived and linked hardware model.
package arch

import (
	"fmt"

	"github.com/sarchlab/archgen/config"
	"github.com/sarchlab/archgen/mem/dram"
	"github.com/sarchlab/archgen/mem/hierarchy"
)

// Model is the elaborated hardware model. It is read-only once built.
type Model struct {
	System         config.SystemSpec
	SystemModel    hierarchy.SystemModel
	Core           config.CoreSpec
	Hierarchy      *hierarchy.Graph
	DRAM           config.DRAMSpec
	DRAMTiming     dram.Timing
	DRAMGeometry   dram.Geometry
	AddressMapping dram.AddressMapping
	OS             config.OSSpec
}

// HasPageTableWalker reports whether the model contains a page-table walker.
func (m *Model) HasPageTableWalker() bool {
	for _, n := range m.Hierarchy.Nodes {
		if n.Successor.Kind == hierarchy.KindWalker {
			return true
		}
	}

	return false
}

// ElaborateFile loads the file at path and elaborates it.
func ElaborateFile(path string) (*Model, error) {
	doc, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	return Elaborate(doc)
}

// Elaborate validates every domain of doc, decodes it, derives the dependent
// parameters and resolves the hierarchy. The document is mutated by
// validation. Any error leaves the caller with nothing to render.
func Elaborate(doc *config.Document) (*Model, error) {
	sysSec := doc.SectionOrEmpty(config.DomainSystem)
	if err := config.ValidateSystem(sysSec); err != nil {
		return nil, err
	}

	sys, err := config.DecodeSystem(sysSec)
	if err != nil {
		return nil, err
	}

	model, err := hierarchy.ParseSystemModel(sys.Model)
	if err != nil {
		return nil, err
	}

	tmpl, err := hierarchy.TemplateFor(model)
	if err != nil {
		return nil, err
	}

	levels := tmpl.LevelNames()
	if err := config.Validate(doc, levels); err != nil {
		return nil, err
	}

	m := &Model{System: sys, SystemModel: model}

	if err := m.decode(doc, levels); err != nil {
		return nil, err
	}

	if err := m.derive(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Model) decode(doc *config.Document, levels []string) error {
	var err error

	m.Core, err = config.DecodeCore(doc.SectionOrEmpty(config.DomainCore))
	if err != nil {
		return err
	}

	caches := make(map[string]config.CacheSpec, len(levels))
	for _, l := range levels {
		sec, _ := doc.Section(l)

		spec, err := config.DecodeCache(sec)
		if err != nil {
			return err
		}

		caches[l] = spec
	}

	m.Hierarchy, err = hierarchy.Resolve(m.SystemModel, caches)
	if err != nil {
		return fmt.Errorf("resolving %s hierarchy: %w", m.SystemModel, err)
	}

	dramSec, _ := doc.Section(config.DomainDRAM)

	m.DRAM, err = config.DecodeDRAM(dramSec)
	if err != nil {
		return err
	}

	m.OS, err = config.DecodeOS(doc.SectionOrEmpty(config.DomainOS))

	return err
}

func (m *Model) derive() error {
	var err error

	m.DRAMTiming, err = dram.DeriveFromSpec(m.DRAM)
	if err != nil {
		return err
	}

	m.AddressMapping, err = dram.ParseAddressMapping(m.DRAM.AddressMapping)
	if err != nil {
		return err
	}

	m.DRAMGeometry = dram.GeometryOf(m.DRAM)

	return nil
}
