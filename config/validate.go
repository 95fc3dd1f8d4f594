package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/archgen/mem/cache"
)

// ValidateSystem applies the SYSTEM schema.
func ValidateSystem(sec *Section) error {
	return SystemSchema.Apply(sec)
}

// ValidateCore applies the CORE schema.
func ValidateCore(sec *Section) error {
	return CoreSchema.Apply(sec)
}

// ValidateCache expands the capacity shortcuts of a cache level and applies
// the cache schema.
//
// size_kb_per_core is multiplied by numThreads into size_kb. size_kb is then
// turned into sets, which requires ways to be given explicitly.
func ValidateCache(sec *Section, numThreads int) error {
	if v, ok := sec.Get("size_kb_per_core"); ok {
		perCore, err := atoi(sec, "size_kb_per_core", v)
		if err != nil {
			return err
		}

		sec.Set("size_kb", strconv.Itoa(perCore*numThreads))
	}

	if v, ok := sec.Get("size_kb"); ok {
		sizeKB, err := atoi(sec, "size_kb", v)
		if err != nil {
			return err
		}

		w, ok := sec.Get("ways")
		if !ok {
			return &MissingFieldError{Domain: sec.Name(), Field: "ways"}
		}

		ways, err := atoi(sec, "ways", w)
		if err != nil {
			return err
		}

		sets, err := cache.SetsForCapacity(sizeKB, cache.LineSize, ways)
		if err != nil {
			return &DerivationError{
				Domain: sec.Name(), Field: "size_kb", Value: v, Reason: err.Error(),
			}
		}

		sec.Set("sets", strconv.Itoa(sets))
	}

	return CacheSchema.Apply(sec)
}

// ValidateDRAM applies the DRAM schema.
func ValidateDRAM(sec *Section) error {
	return DRAMSchema.Apply(sec)
}

// ValidateOS applies the OS schema and checks that every page-table level
// above the leaf has a walker cache geometry.
func ValidateOS(sec *Section) error {
	if err := OSSchema.Apply(sec); err != nil {
		return err
	}

	v, _ := sec.Get("levels")

	levels, err := atoi(sec, "levels", v)
	if err != nil {
		return err
	}

	for i := 1; i < levels; i++ {
		f := ptwcField(i)
		if !sec.Has(f) {
			return &MissingFieldError{Domain: sec.Name(), Field: f}
		}
	}

	return nil
}

// Validate normalizes every domain of the document. The SYSTEM, CORE and OS
// sections may be omitted and are created empty. Each name in levels must
// have a section. The CORE section is validated before the cache levels so
// that per-core capacities can be expanded.
//
// Nothing is validated lazily: when Validate returns nil every field any
// later stage reads is present.
func Validate(doc *Document, levels []string) error {
	if err := ValidateSystem(doc.SectionOrEmpty(DomainSystem)); err != nil {
		return err
	}

	core := doc.SectionOrEmpty(DomainCore)
	if err := ValidateCore(core); err != nil {
		return err
	}

	v, _ := core.Get("num_threads")

	numThreads, err := atoi(core, "num_threads", v)
	if err != nil {
		return err
	}

	for _, l := range levels {
		sec, ok := doc.Section(l)
		if !ok {
			return &MissingFieldError{Domain: l}
		}

		if err := ValidateCache(sec, numThreads); err != nil {
			return err
		}
	}

	dram, ok := doc.Section(DomainDRAM)
	if !ok {
		return &MissingFieldError{Domain: DomainDRAM}
	}

	if err := ValidateDRAM(dram); err != nil {
		return err
	}

	return ValidateOS(doc.SectionOrEmpty(DomainOS))
}

func ptwcField(level int) string {
	return fmt.Sprintf("ptwc_%d_sw", level)
}

func atoi(sec *Section, field, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &DerivationError{
			Domain: sec.Name(), Field: field, Value: v, Reason: "not an integer",
		}
	}

	return n, nil
}
