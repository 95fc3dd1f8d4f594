// Package codegen renders an elaborated hardware model into the source and
// text files the simulator build consumes.
package codegen

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/template"

	"github.com/sarchlab/archgen/arch"
	"github.com/sarchlab/archgen/config"
	"github.com/sarchlab/archgen/mem/cache"
	"github.com/sarchlab/archgen/mem/dram"
	"github.com/sarchlab/archgen/mem/hierarchy"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Names of the generated files.
const (
	ConstantsFile  = "constants.h"
	GlobalsFile    = "globals.h"
	MemsysFile     = "memsys.h"
	DRAMTimingFile = "dram_timing.h"
	SimHeaderFile  = "sim.h"
	SimSourceFile  = "sim.cpp"
	CoreModelFile  = "core_model.txt"
	DefinesFile    = "defines.txt"
)

// PageSize is the virtual memory page size in bytes.
const PageSize = 4096

// ArtifactNames lists every generated file in emission order.
func ArtifactNames() []string {
	return []string{
		ConstantsFile,
		GlobalsFile,
		MemsysFile,
		DRAMTimingFile,
		SimHeaderFile,
		SimSourceFile,
		CoreModelFile,
		DefinesFile,
	}
}

// An Artifact is one rendered file.
type Artifact struct {
	Name    string
	Content []byte
}

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// view is the data handed to every template.
type view struct {
	LineSize int
	PageSize int

	SystemModel hierarchy.SystemModel
	System      config.SystemSpec
	Core        config.CoreSpec
	CoreFreq    string

	// Levels is in resolution order, successor first.
	Levels    []*hierarchy.Node
	HasWalker bool
	CacheRows []cacheRow

	DRAM                 config.DRAMSpec
	DRAMFreq             string
	TCK                  string
	TCKDisplay           string
	Timing               dram.Timing
	Geometry             dram.Geometry
	AddressMapping       string
	AddressMappingDefine string

	OS config.OSSpec
}

// cacheRow is one line of the cache table printed by the summary.
type cacheRow struct {
	config.CacheSpec
	Label string
}

var summaryLabels = map[string]string{
	"L1i": "L1I$",
	"L1d": "L1D$",
	"L2":  "L2$",
}

func newView(m *arch.Model) view {
	v := view{
		LineSize:       cache.LineSize,
		PageSize:       PageSize,
		SystemModel:    m.SystemModel,
		System:         m.System,
		Core:           m.Core,
		CoreFreq:       m.Core.Freq.String(),
		Levels:         m.Hierarchy.Nodes,
		HasWalker:      m.HasPageTableWalker(),
		DRAM:           m.DRAM,
		DRAMFreq:       m.DRAM.Freq.String(),
		Timing:         m.DRAMTiming,
		Geometry:       m.DRAMGeometry,
		AddressMapping: m.AddressMapping.String(),
		OS:             m.OS,
	}

	tck := m.DRAM.Freq.PeriodNS()
	v.TCK = strconv.FormatFloat(tck, 'g', -1, 64)
	v.TCKDisplay = strconv.FormatFloat(tck, 'f', 5, 64)

	if m.AddressMapping.Parameterized() {
		v.AddressMappingDefine = fmt.Sprintf("#define DRAM_AM_%s %d",
			m.AddressMapping.Scheme, m.AddressMapping.Granularity)
	} else {
		v.AddressMappingDefine = "#define DRAM_AM_" + m.AddressMapping.Scheme
	}

	// The summary lists levels from the core outwards.
	for i := len(m.Hierarchy.Nodes) - 1; i >= 0; i-- {
		n := m.Hierarchy.Nodes[i]

		label, ok := summaryLabels[n.Name]
		if !ok {
			label = n.Name
		}

		v.CacheRows = append(v.CacheRows, cacheRow{
			CacheSpec: n.CacheSpec,
			Label:     label,
		})
	}

	return v
}

// Render produces every artifact of the model. It performs no I/O and its
// output depends only on the model.
func Render(m *arch.Model) ([]Artifact, error) {
	v := newView(m)

	artifacts := make([]Artifact, 0, len(ArtifactNames()))
	for _, name := range ArtifactNames() {
		var buf bytes.Buffer

		err := templates.ExecuteTemplate(&buf, name+".tmpl", v)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", name, err)
		}

		artifacts = append(artifacts, Artifact{Name: name, Content: buf.Bytes()})
	}

	return artifacts, nil
}

// Write stores the artifacts in dir, which must exist.
func Write(dir string, artifacts []Artifact) error {
	for _, a := range artifacts {
		path := filepath.Join(dir, a.Name)

		if err := os.WriteFile(path, a.Content, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", a.Name, err)
		}
	}

	return nil
}
