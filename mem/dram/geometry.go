package dram

import (
	"github.com/sarchlab/archgen/config"
	"github.com/sarchlab/archgen/mem/cache"
)

// Geometry is the organization of the DRAM array.
type Geometry struct {
	Channels   int
	Ranks      int
	BankGroups int
	Banks      int
	Rows       int
	Columns    int
}

// GeometryOf extracts the array organization from a DRAM spec.
func GeometryOf(spec config.DRAMSpec) Geometry {
	return Geometry{
		Channels:   spec.Channels,
		Ranks:      spec.Ranks,
		BankGroups: spec.BankGroups,
		Banks:      spec.Banks,
		Rows:       spec.Rows,
		Columns:    spec.Columns,
	}
}

// BanksPerChannel counts the banks behind one channel.
func (g Geometry) BanksPerChannel() int {
	return g.Ranks * g.BankGroups * g.Banks
}

// CapacityBytes is the total capacity when each column holds one cache line.
func (g Geometry) CapacityBytes() uint64 {
	return uint64(g.Channels) * uint64(g.BanksPerChannel()) *
		uint64(g.Rows) * uint64(g.Columns) * cache.LineSize
}

// CapacityMB is CapacityBytes in mebibytes.
func (g Geometry) CapacityMB() uint64 {
	return g.CapacityBytes() >> 20
}
