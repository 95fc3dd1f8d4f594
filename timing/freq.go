// Package timing converts wall-clock latencies into clock cycles.
package timing

import (
	"fmt"
	"math"
	"strconv"
)

// Freq defines the type of frequency
type Freq float64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// ParseGHz reads a frequency written in GHz, such as "2.4".
func ParseGHz(s string) (Freq, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("frequency %q is not a number", s)
	}

	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("frequency %q must be positive", s)
	}

	return Freq(v) * GHz, nil
}

// InGHz returns the frequency expressed in GHz.
func (f Freq) InGHz() float64 {
	return float64(f / GHz)
}

// PeriodNS returns the time between two consecutive ticks in nanoseconds.
func (f Freq) PeriodNS() float64 {
	if f == 0 {
		panic("frequency cannot be 0")
	}

	return 1.0 / f.InGHz()
}

// Cycles returns the number of ticks needed to cover ns nanoseconds. Partial
// ticks round up.
//
//	ns:     |------------|
//	ticks:  |---|---|---|---|
//	                        Cycles = 4
func (f Freq) Cycles(ns float64) int {
	if math.IsNaN(ns) {
		panic("invalid time")
	}

	return int(math.Ceil(ns * f.InGHz()))
}

// CyclesAtLeast is Cycles clamped from below by floor.
func (f Freq) CyclesAtLeast(ns float64, floor int) int {
	return max(floor, f.Cycles(ns))
}

// NS returns the duration of n ticks in nanoseconds.
func (f Freq) NS(n int) float64 {
	return float64(n) * f.PeriodNS()
}

// String prints the frequency in GHz without trailing zeros.
func (f Freq) String() string {
	return strconv.FormatFloat(f.InGHz(), 'g', -1, 64)
}
