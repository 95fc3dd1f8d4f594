// Package dram derives the timing and address-mapping parameters of a DRAM
// subsystem from its speed grade, clock and geometry.
package dram

import (
	"github.com/sarchlab/archgen/config"
	"github.com/sarchlab/archgen/timing"
)

// Timing holds DRAM timing constraints in DRAM clock cycles.
type Timing struct {
	CL   int
	CWL  int
	TRCD int
	TRP  int
	TRAS int
	TRTP int
	TWR  int

	TCCDS    int
	TCCDSWR  int
	TCCDSWTR int
	TCCDSRTW int

	TCCDL    int
	TCCDLWR  int
	TCCDLWTR int
	TCCDLRTW int

	TRRDS int
	TRRDL int
	TFAW  int

	TRFC  int
	TREFI int
}

// Param is one named timing value.
type Param struct {
	Name   string
	Cycles int
}

// PairedParam is a timing value with a short (different bank group) and a
// long (same bank group) flavor. The flavor tag goes between Prefix and
// Suffix, as in tCCD_L_WR.
type PairedParam struct {
	Prefix string
	Suffix string
	Short  int
	Long   int
}

// ShortName is the name of the different bank group flavor.
func (p PairedParam) ShortName() string { return p.Prefix + "_S" + p.Suffix }

// LongName is the name of the same bank group flavor.
func (p PairedParam) LongName() string { return p.Prefix + "_L" + p.Suffix }

// Label names both flavors at once, e.g. tCCD_S(L)_WR.
func (p PairedParam) Label() string { return p.Prefix + "_S(L)" + p.Suffix }

// Derive computes the timing of the given speed grade at frequency freq with
// burst length burstLength.
func Derive(grade SpeedGrade, freq timing.Freq, burstLength int) Timing {
	ck := func(r Rule) int {
		return freq.CyclesAtLeast(r.NS, r.Floor)
	}

	t := Timing{
		CL:   ck(grade.CL),
		TRCD: ck(grade.TRCD),
		TRP:  ck(grade.TRP),
		TRAS: ck(grade.TRAS),
		TRTP: ck(grade.TRTP),
		TWR:  ck(grade.TWR),

		TCCDS:   ck(grade.TCCDS),
		TCCDSWR: ck(grade.TCCDSWR),
		TCCDL:   ck(grade.TCCDL),
		TCCDLWR: ck(grade.TCCDLWR),

		TRRDS: ck(grade.TRRDS),
		TRRDL: ck(grade.TRRDL),
		TFAW:  ck(grade.TFAW),
		TRFC:  ck(grade.TRFC),
		TREFI: ck(grade.TREFI),
	}

	t.CWL = t.CL - grade.CWLOffset

	// Write-to-read and read-to-write turnarounds wait for the write data
	// burst to finish on the bus before adding the bank group margin.
	t.TCCDSWTR = t.CWL + burstLength/2 + ck(grade.TurnaroundS)
	t.TCCDSRTW = t.TCCDSWTR
	t.TCCDLWTR = t.CWL + burstLength/2 + ck(grade.TurnaroundL)
	t.TCCDLRTW = t.TCCDLWTR

	return t
}

// DeriveFromSpec looks up the speed grade named by the DRAM spec and derives
// its timing. An unknown speed grade is reported as an InvalidEnumError.
func DeriveFromSpec(spec config.DRAMSpec) (Timing, error) {
	grade, ok := LookupSpeedGrade(spec.Type)
	if !ok {
		return Timing{}, &config.InvalidEnumError{
			Domain:    config.DomainDRAM,
			Field:     "dram_type",
			Value:     spec.Type,
			Supported: SupportedSpeedGrades(),
		}
	}

	return Derive(grade, spec.Freq, spec.BurstLength), nil
}

// BankParams lists the per-bank timing values.
func (t Timing) BankParams() []Param {
	return []Param{
		{"CL", t.CL},
		{"CWL", t.CWL},
		{"tRCD", t.TRCD},
		{"tRP", t.TRP},
		{"tRAS", t.TRAS},
		{"tRTP", t.TRTP},
		{"tWR", t.TWR},
	}
}

// PairedParams lists the timing values that differ between accesses to the
// same and to different bank groups.
func (t Timing) PairedParams() []PairedParam {
	return []PairedParam{
		{"tCCD", "", t.TCCDS, t.TCCDL},
		{"tCCD", "_WR", t.TCCDSWR, t.TCCDLWR},
		{"tCCD", "_WTR", t.TCCDSWTR, t.TCCDLWTR},
		{"tCCD", "_RTW", t.TCCDSRTW, t.TCCDLRTW},
		{"tRRD", "", t.TRRDS, t.TRRDL},
	}
}

// ChannelParams lists the channel-wide timing values.
func (t Timing) ChannelParams() []Param {
	return []Param{
		{"tFAW", t.TFAW},
		{"tRFC", t.TRFC},
		{"tREFI", t.TREFI},
	}
}

// Params flattens all timing values in declaration order, expanding each
// paired value into its _S and _L names.
func (t Timing) Params() []Param {
	params := append([]Param{}, t.BankParams()...)

	for _, p := range t.PairedParams() {
		params = append(params,
			Param{p.ShortName(), p.Short},
			Param{p.LongName(), p.Long},
		)
	}

	return append(params, t.ChannelParams()...)
}
