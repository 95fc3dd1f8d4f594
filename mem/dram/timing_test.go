package dram

import (
	"errors"

	"github.com/sarchlab/archgen/config"
	"github.com/sarchlab/archgen/timing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Timing", func() {
	var grade SpeedGrade

	BeforeEach(func() {
		var ok bool
		grade, ok = LookupSpeedGrade("4800")
		Expect(ok).To(BeTrue())
	})

	It("should derive the 4800 bin at 2.4 GHz", func() {
		t := Derive(grade, 2.4*timing.GHz, 16)

		Expect(t.CL).To(Equal(39))
		Expect(t.CWL).To(Equal(37))
		Expect(t.TRCD).To(Equal(39))
		Expect(t.TRP).To(Equal(39))
		Expect(t.TRAS).To(Equal(77))
		Expect(t.TRTP).To(Equal(18))
		Expect(t.TWR).To(Equal(72))
		Expect(t.TCCDS).To(Equal(8))
		Expect(t.TCCDL).To(Equal(12))
		Expect(t.TCCDSWR).To(Equal(8))
		Expect(t.TCCDLWR).To(Equal(48))
		Expect(t.TCCDSWTR).To(Equal(51))
		Expect(t.TCCDLWTR).To(Equal(69))
		Expect(t.TCCDSRTW).To(Equal(t.TCCDSWTR))
		Expect(t.TCCDLRTW).To(Equal(t.TCCDLWTR))
		Expect(t.TRRDS).To(Equal(8))
		Expect(t.TRRDL).To(Equal(12))
		Expect(t.TFAW).To(Equal(32))
		Expect(t.TRFC).To(Equal(984))
		Expect(t.TREFI).To(Equal(9375))
	})

	It("should keep the write latency two cycles below CL", func() {
		for _, ghz := range []float64{1.2, 1.6, 2.4, 3.2} {
			t := Derive(grade, timing.Freq(ghz)*timing.GHz, 16)
			Expect(t.CWL).To(Equal(t.CL - 2))
		}
	})

	It("should apply the cycle floors at low clocks", func() {
		t := Derive(grade, 1.2*timing.GHz, 16)

		Expect(t.TRTP).To(Equal(12))
		Expect(t.TCCDL).To(Equal(8))
		Expect(t.TCCDLWR).To(Equal(32))
		Expect(t.TFAW).To(Equal(32))
	})

	It("should never shrink when the clock speeds up", func() {
		slow := Derive(grade, 2.4*timing.GHz, 16).Params()
		fast := Derive(grade, 3.2*timing.GHz, 16).Params()

		Expect(fast).To(HaveLen(len(slow)))

		for i := range slow {
			Expect(fast[i].Name).To(Equal(slow[i].Name))
			Expect(fast[i].Cycles).To(
				BeNumerically(">=", slow[i].Cycles), slow[i].Name)
		}
	})

	It("should lengthen turnarounds with the burst length", func() {
		bl8 := Derive(grade, 2.4*timing.GHz, 8)
		bl16 := Derive(grade, 2.4*timing.GHz, 16)

		Expect(bl16.TCCDSWTR - bl8.TCCDSWTR).To(Equal(4))
	})

	It("should name paired parameters", func() {
		t := Derive(grade, 2.4*timing.GHz, 16)
		wr := t.PairedParams()[1]

		Expect(wr.ShortName()).To(Equal("tCCD_S_WR"))
		Expect(wr.LongName()).To(Equal("tCCD_L_WR"))
		Expect(wr.Label()).To(Equal("tCCD_S(L)_WR"))
		Expect(t.Params()).To(HaveLen(7 + 2*5 + 3))
	})

	It("should reject an unknown speed grade", func() {
		_, err := DeriveFromSpec(config.DRAMSpec{
			Type:        "6400",
			Freq:        3.2 * timing.GHz,
			BurstLength: 16,
		})

		var eerr *config.InvalidEnumError
		Expect(errors.As(err, &eerr)).To(BeTrue())
		Expect(eerr.Field).To(Equal("dram_type"))
		Expect(eerr.Supported).To(ContainElement("4800"))
	})
})

var _ = Describe("Address mapping", func() {
	It("should parse a MOP granularity", func() {
		m, err := ParseAddressMapping("mop4")

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Scheme).To(Equal("MOP"))
		Expect(m.Granularity).To(Equal(4))
		Expect(m.Parameterized()).To(BeTrue())
		Expect(m.String()).To(Equal("MOP4"))
	})

	It("should parse a named scheme", func() {
		m, err := ParseAddressMapping("CoffeeLake")

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Parameterized()).To(BeFalse())
		Expect(m.String()).To(Equal("COFFEELAKE"))
	})

	It("should reject a MOP without granularity", func() {
		_, err := ParseAddressMapping("MOPX")

		var derr *config.DerivationError
		Expect(errors.As(err, &derr)).To(BeTrue())
		Expect(derr.Field).To(Equal("address_mapping"))
	})

	It("should reject a malformed scheme name", func() {
		_, err := ParseAddressMapping("4-way")

		var eerr *config.InvalidEnumError
		Expect(errors.As(err, &eerr)).To(BeTrue())
	})
})

var _ = Describe("Geometry", func() {
	It("should compute the capacity", func() {
		g := Geometry{
			Channels: 2, Ranks: 1, BankGroups: 8, Banks: 4,
			Rows: 65536, Columns: 128,
		}

		Expect(g.BanksPerChannel()).To(Equal(32))
		Expect(g.CapacityMB()).To(Equal(uint64(32768)))
	})
})
