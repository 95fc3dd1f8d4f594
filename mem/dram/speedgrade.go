package dram

import (
	"sort"
)

// A Rule converts a datasheet latency into cycles. The result is
// max(Floor, ceil(NS * f)). A rule with NS == 0 is a fixed cycle count.
type Rule struct {
	NS    float64
	Floor int
}

// SpeedGrade holds the datasheet latencies of one DRAM speed bin.
type SpeedGrade struct {
	Name string

	CL   Rule
	TRCD Rule
	TRP  Rule
	TRAS Rule
	TRTP Rule
	TWR  Rule

	TCCDS   Rule
	TCCDSWR Rule
	TCCDL   Rule
	TCCDLWR Rule

	TRRDS Rule
	TRRDL Rule
	TFAW  Rule
	TRFC  Rule
	TREFI Rule

	// CWLOffset is subtracted from CL to obtain the write latency.
	CWLOffset int

	// TurnaroundS and TurnaroundL are the extra read/write bus turnaround
	// margins for different and same bank group accesses.
	TurnaroundS Rule
	TurnaroundL Rule
}

var speedGrades = map[string]SpeedGrade{
	"4800": {
		Name: "4800",

		CL:   Rule{NS: 16.0},
		TRCD: Rule{NS: 16.0},
		TRP:  Rule{NS: 16.0},
		TRAS: Rule{NS: 32.0},
		TRTP: Rule{NS: 7.5, Floor: 12},
		TWR:  Rule{NS: 30.0},

		TCCDS:   Rule{Floor: 8},
		TCCDSWR: Rule{Floor: 8},
		TCCDL:   Rule{NS: 5.0, Floor: 8},
		TCCDLWR: Rule{NS: 20.0, Floor: 32},

		TRRDS: Rule{Floor: 8},
		TRRDL: Rule{NS: 5.0, Floor: 8},
		TFAW:  Rule{NS: 13.333, Floor: 32},
		TRFC:  Rule{NS: 410.0},
		TREFI: Rule{NS: 32e6 / 8192.0},

		CWLOffset: 2,

		TurnaroundS: Rule{NS: 2.5, Floor: 4},
		TurnaroundL: Rule{NS: 10.0, Floor: 16},
	},
}

// LookupSpeedGrade finds a speed grade by its name, e.g. "4800".
func LookupSpeedGrade(name string) (SpeedGrade, bool) {
	g, ok := speedGrades[name]
	return g, ok
}

// SupportedSpeedGrades lists the known speed grade names in sorted order.
func SupportedSpeedGrades() []string {
	names := make([]string, 0, len(speedGrades))
	for n := range speedGrades {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}
