package compiler

import (
	"fmt"
	"io"
	"strings"

	"github.com/syifan/goseth"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/archgen/arch"
	"github.com/sarchlab/archgen/mem/hierarchy"
)

// DumpFormat selects the encoding of a model dump.
type DumpFormat string

// Supported dump formats.
const (
	DumpJSON DumpFormat = "json"
	DumpYAML DumpFormat = "yaml"
)

// ParseDumpFormat accepts json or yaml in any letter case.
func ParseDumpFormat(s string) (DumpFormat, error) {
	switch f := DumpFormat(strings.ToLower(s)); f {
	case DumpJSON, DumpYAML:
		return f, nil
	case "yml":
		return DumpYAML, nil
	default:
		return "", fmt.Errorf("unsupported dump format %q, want json or yaml", s)
	}
}

const dumpDepth = 4

type levelDump struct {
	Name                  string `yaml:"name"`
	Type                  string `yaml:"type"`
	Successor             string `yaml:"successor"`
	SizeKB                int    `yaml:"size_kb,omitempty"`
	Sets                  int    `yaml:"sets"`
	Ways                  int    `yaml:"ways"`
	Policy                string `yaml:"replacement_policy"`
	MSHR                  int    `yaml:"mshr"`
	Ports                 int    `yaml:"rw_ports"`
	Latency               int    `yaml:"latency"`
	Queues                []int  `yaml:"queues,flow"`
	Mode                  string `yaml:"mode,omitempty"`
	NextIsInvalidateOnHit bool   `yaml:"next_is_invalidate_on_hit"`
}

type dramDump struct {
	Type           string         `yaml:"type"`
	FreqGHz        float64        `yaml:"frequency_ghz"`
	BurstLength    int            `yaml:"burst_length"`
	PagePolicy     string         `yaml:"page_policy"`
	AddressMapping string         `yaml:"address_mapping"`
	CapacityMB     uint64         `yaml:"capacity_mb"`
	Timing         map[string]int `yaml:"timing"`
}

type modelDump struct {
	Model      string      `yaml:"model"`
	Defines    []string    `yaml:"defines,omitempty"`
	NumThreads int         `yaml:"num_threads"`
	CoreGHz    float64     `yaml:"core_frequency_ghz"`
	Levels     []levelDump `yaml:"levels"`
	DRAM       dramDump    `yaml:"dram"`
	PTLevels   int         `yaml:"page_table_levels"`
}

func newModelDump(m *arch.Model) modelDump {
	d := modelDump{
		Model:      string(m.SystemModel),
		NumThreads: m.Core.NumThreads,
		CoreGHz:    m.Core.Freq.InGHz(),
		PTLevels:   m.OS.Levels,
		DRAM: dramDump{
			Type:           m.DRAM.Type,
			FreqGHz:        m.DRAM.Freq.InGHz(),
			BurstLength:    m.DRAM.BurstLength,
			PagePolicy:     string(m.DRAM.PagePolicy),
			AddressMapping: m.AddressMapping.String(),
			CapacityMB:     m.DRAMGeometry.CapacityMB(),
			Timing:         map[string]int{},
		},
	}

	for _, def := range m.System.Defines {
		d.Defines = append(d.Defines, def.Flag())
	}

	for _, n := range m.Hierarchy.Nodes {
		d.Levels = append(d.Levels, newLevelDump(n))
	}

	for _, p := range m.DRAMTiming.Params() {
		d.DRAM.Timing[p.Name] = p.Cycles
	}

	return d
}

func newLevelDump(n *hierarchy.Node) levelDump {
	return levelDump{
		Name:      n.Name,
		Type:      n.TypeName,
		Successor: n.Successor.String(),
		SizeKB:    n.SizeKB,
		Sets:      n.Sets,
		Ways:      n.Ways,
		Policy:    string(n.Policy),
		MSHR:      n.NumMSHR,
		Ports:     n.NumRWPorts,
		Latency:   n.Latency,
		Queues: []int{
			n.ReadQueueSize, n.WriteQueueSize, n.PrefetchQueueSize,
		},
		Mode:                  n.Mode.String(),
		NextIsInvalidateOnHit: n.NextIsInvalidateOnHit,
	}
}

// DumpModel writes a summary of the elaborated model to w. Levels are listed
// successor first.
func DumpModel(w io.Writer, m *arch.Model, format DumpFormat) error {
	d := newModelDump(m)

	switch format {
	case DumpJSON:
		serializer := goseth.NewSerializer()
		serializer.SetRoot(&d)
		serializer.SetMaxDepth(dumpDepth)

		return serializer.Serialize(w)
	case DumpYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(d); err != nil {
			return err
		}

		return enc.Close()
	default:
		return fmt.Errorf("unsupported dump format %q", format)
	}
}
