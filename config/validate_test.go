package config

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func sectionOf(name string, fields map[string]string) *Section {
	s := NewSection(name)
	for k, v := range fields {
		s.Set(k, v)
	}

	return s
}

func get(s *Section, field string) string {
	v, ok := s.Get(field)
	Expect(ok).To(BeTrue(), "field %s should be present", field)

	return v
}

var _ = Describe("Schema", func() {
	It("should fill defaults without touching given fields", func() {
		sec := sectionOf("CORE", map[string]string{"rob_size": "512"})

		Expect(ValidateCore(sec)).To(Succeed())

		Expect(get(sec, "rob_size")).To(Equal("512"))
		Expect(get(sec, "num_threads")).To(Equal("1"))
		Expect(get(sec, "fetch_width")).To(Equal("4"))
		Expect(get(sec, "frequency_ghz")).To(Equal("4"))
	})

	It("should report a missing required field", func() {
		sec := sectionOf("DRAM", nil)

		err := ValidateDRAM(sec)

		var missing *MissingFieldError
		Expect(errors.As(err, &missing)).To(BeTrue())
		Expect(missing.Domain).To(Equal("DRAM"))
		Expect(missing.Field).To(Equal("dram_type"))
	})
})

var _ = Describe("Cache validation", func() {
	It("should derive sets from size and ways", func() {
		sec := sectionOf("L1d", map[string]string{
			"size_kb": "32",
			"ways":    "8",
		})

		Expect(ValidateCache(sec, 1)).To(Succeed())

		Expect(get(sec, "sets")).To(Equal("64"))
	})

	It("should let size_kb override sets", func() {
		sec := sectionOf("L2", map[string]string{
			"sets":    "1",
			"size_kb": "512",
			"ways":    "8",
		})

		Expect(ValidateCache(sec, 1)).To(Succeed())

		Expect(get(sec, "sets")).To(Equal("1024"))
	})

	It("should scale per-core size by thread count", func() {
		sec := sectionOf("LLC", map[string]string{
			"size_kb_per_core": "512",
			"ways":             "8",
		})

		Expect(ValidateCache(sec, 2)).To(Succeed())

		Expect(get(sec, "size_kb")).To(Equal("1024"))
		Expect(get(sec, "sets")).To(Equal("2048"))
	})

	It("should require explicit ways when size is given", func() {
		sec := sectionOf("LLC", map[string]string{"size_kb": "2048"})

		err := ValidateCache(sec, 1)

		var missing *MissingFieldError
		Expect(errors.As(err, &missing)).To(BeTrue())
		Expect(missing.Field).To(Equal("ways"))
	})

	It("should reject a non-numeric size", func() {
		sec := sectionOf("LLC", map[string]string{
			"size_kb": "big",
			"ways":    "8",
		})

		err := ValidateCache(sec, 1)

		var derr *DerivationError
		Expect(errors.As(err, &derr)).To(BeTrue())
		Expect(derr.Field).To(Equal("size_kb"))
	})

	It("should accept any positive geometry", func() {
		sec := sectionOf("L2", map[string]string{
			"size_kb": "48",
			"ways":    "12",
		})

		Expect(ValidateCache(sec, 1)).To(Succeed())

		Expect(get(sec, "sets")).To(Equal("64"))
		Expect(get(sec, "replacement_policy")).To(Equal("LRU"))
		Expect(get(sec, "mode")).To(Equal(""))
	})
})

var _ = Describe("OS validation", func() {
	It("should accept the defaults", func() {
		sec := sectionOf("OS", nil)

		Expect(ValidateOS(sec)).To(Succeed())
		Expect(get(sec, "levels")).To(Equal("4"))
	})

	It("should require a walker cache for every upper level", func() {
		sec := sectionOf("OS", map[string]string{"levels": "5"})

		err := ValidateOS(sec)

		var missing *MissingFieldError
		Expect(errors.As(err, &missing)).To(BeTrue())
		Expect(missing.Field).To(Equal("ptwc_4_sw"))
	})
})

var _ = Describe("Document validation", func() {
	var doc *Document

	BeforeEach(func() {
		var err error
		doc, err = Parse([]byte(`
[CORE]
num_threads = 2

[LLC]
size_kb_per_core = 512
ways = 8

[DRAM]
dram_type = 4800
`))
		Expect(err).NotTo(HaveOccurred())
	})

	It("should validate every domain", func() {
		Expect(Validate(doc, []string{"LLC"})).To(Succeed())

		sys, ok := doc.Section(DomainSystem)
		Expect(ok).To(BeTrue())
		Expect(get(sys, "model")).To(Equal("complex"))

		llc, _ := doc.Section("LLC")
		Expect(get(llc, "sets")).To(Equal("2048"))

		osSec, ok := doc.Section(DomainOS)
		Expect(ok).To(BeTrue())
		Expect(get(osSec, "ptwc_1_sw")).To(Equal("4:8"))
	})

	It("should fail when an enabled level has no section", func() {
		err := Validate(doc, []string{"LLC", "L2"})

		var missing *MissingFieldError
		Expect(errors.As(err, &missing)).To(BeTrue())
		Expect(missing.Domain).To(Equal("L2"))
		Expect(missing.Field).To(BeEmpty())
	})
})
