package config

import (
	"errors"

	"github.com/sarchlab/archgen/mem/cache"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parse", func() {
	It("should lower-case keys and keep section names", func() {
		doc, err := Parse([]byte(`
[DRAM]
BL = 8
dram_type = 4800 ; speed bin
`))
		Expect(err).NotTo(HaveOccurred())

		sec, ok := doc.Section("dram")
		Expect(ok).To(BeTrue())
		Expect(sec.Name()).To(Equal("DRAM"))
		Expect(get(sec, "bl")).To(Equal("8"))
		Expect(get(sec, "dram_type")).To(Equal("4800"))
	})

	It("should apply DEFAULT fields to every section", func() {
		doc, err := Parse([]byte(`
[DEFAULT]
latency = 12

[L2]
ways = 8

[LLC]
latency = 40
`))
		Expect(err).NotTo(HaveOccurred())

		l2, _ := doc.Section("L2")
		llc, _ := doc.Section("LLC")
		Expect(get(l2, "latency")).To(Equal("12"))
		Expect(get(llc, "latency")).To(Equal("40"))

		_, ok := doc.Section("DEFAULT")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Decode", func() {
	It("should decode defines", func() {
		sec := sectionOf("SYSTEM", map[string]string{
			"model":   "Simple",
			"defines": "NO_WRITES, TRACE_LEVEL=2,,",
		})
		Expect(ValidateSystem(sec)).To(Succeed())

		s, err := DecodeSystem(sec)

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Model).To(Equal("simple"))
		Expect(s.Defines).To(Equal([]Define{
			{Name: "NO_WRITES"},
			{Name: "TRACE_LEVEL", Value: "2"},
		}))
		Expect(s.Defines[0].Flag()).To(Equal("-DNO_WRITES"))
		Expect(s.Defines[1].Flag()).To(Equal("-DTRACE_LEVEL=2"))
	})

	It("should reject a define without name", func() {
		sec := sectionOf("SYSTEM", map[string]string{"defines": "=3"})
		Expect(ValidateSystem(sec)).To(Succeed())

		_, err := DecodeSystem(sec)

		var derr *DerivationError
		Expect(errors.As(err, &derr)).To(BeTrue())
	})

	It("should decode a cache level", func() {
		sec := sectionOf("LLC", map[string]string{
			"size_kb":            "2048",
			"ways":               "16",
			"mode":               "INVALIDATE_ON_HIT",
			"replacement_policy": "rand",
		})
		Expect(ValidateCache(sec, 1)).To(Succeed())

		c, err := DecodeCache(sec)

		Expect(err).NotTo(HaveOccurred())
		Expect(c.Name).To(Equal("LLC"))
		Expect(c.SizeKB).To(Equal(2048))
		Expect(c.Sets).To(Equal(2048))
		Expect(c.Ways).To(Equal(16))
		Expect(c.Mode).To(Equal(cache.ModeInvalidateOnHit))
		Expect(c.Policy).To(Equal(cache.Rand))
		Expect(c.NumMSHR).To(Equal(8))
		Expect(c.PrefetchQueueSize).To(Equal(32))
	})

	It("should reject an unknown replacement policy", func() {
		sec := sectionOf("L1d", map[string]string{"replacement_policy": "PLRU"})
		Expect(ValidateCache(sec, 1)).To(Succeed())

		_, err := DecodeCache(sec)

		var eerr *InvalidEnumError
		Expect(errors.As(err, &eerr)).To(BeTrue())
		Expect(eerr.Field).To(Equal("replacement_policy"))
		Expect(eerr.Value).To(Equal("PLRU"))
	})

	It("should reject a non-numeric cache field", func() {
		sec := sectionOf("L1d", map[string]string{"latency": "fast"})
		Expect(ValidateCache(sec, 1)).To(Succeed())

		_, err := DecodeCache(sec)

		var derr *DerivationError
		Expect(errors.As(err, &derr)).To(BeTrue())
		Expect(derr.Field).To(Equal("latency"))
	})

	It("should decode DRAM", func() {
		sec := sectionOf("DRAM", map[string]string{
			"dram_type":   "4800",
			"page_policy": "close",
		})
		Expect(ValidateDRAM(sec)).To(Succeed())

		d, err := DecodeDRAM(sec)

		Expect(err).NotTo(HaveOccurred())
		Expect(d.Type).To(Equal("4800"))
		Expect(d.Freq.InGHz()).To(BeNumerically("~", 2.4))
		Expect(d.BurstLength).To(Equal(16))
		Expect(d.BankGroups).To(Equal(8))
		Expect(d.PagePolicy).To(Equal(ClosePage))
		Expect(d.AddressMapping).To(Equal("MOP4"))
	})

	It("should reject a non-numeric DRAM frequency", func() {
		sec := sectionOf("DRAM", map[string]string{
			"dram_type":     "4800",
			"frequency_ghz": "fast",
		})
		Expect(ValidateDRAM(sec)).To(Succeed())

		_, err := DecodeDRAM(sec)

		var derr *DerivationError
		Expect(errors.As(err, &derr)).To(BeTrue())
		Expect(derr.Field).To(Equal("frequency_ghz"))
	})

	It("should reject an unknown page policy", func() {
		sec := sectionOf("DRAM", map[string]string{
			"dram_type":   "4800",
			"page_policy": "ADAPTIVE",
		})
		Expect(ValidateDRAM(sec)).To(Succeed())

		_, err := DecodeDRAM(sec)

		var eerr *InvalidEnumError
		Expect(errors.As(err, &eerr)).To(BeTrue())
	})

	It("should decode walker caches", func() {
		sec := sectionOf("OS", nil)
		Expect(ValidateOS(sec)).To(Succeed())

		o, err := DecodeOS(sec)

		Expect(err).NotTo(HaveOccurred())
		Expect(o.Levels).To(Equal(4))
		Expect(o.PTWCaches).To(Equal([]PTWCacheSpec{
			{Level: 1, Sets: 4, Ways: 8},
			{Level: 2, Sets: 1, Ways: 4},
			{Level: 3, Sets: 1, Ways: 2},
		}))
	})

	It("should reject a malformed walker cache", func() {
		sec := sectionOf("OS", map[string]string{"ptwc_2_sw": "4x4"})
		Expect(ValidateOS(sec)).To(Succeed())

		_, err := DecodeOS(sec)

		var derr *DerivationError
		Expect(errors.As(err, &derr)).To(BeTrue())
		Expect(derr.Field).To(Equal("ptwc_2_sw"))
	})
})
