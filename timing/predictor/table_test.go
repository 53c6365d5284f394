package predictor_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/apexsim/timing/predictor"
)

func TestPredictor(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Predictor Suite")
}

var _ = Describe("Table", func() {
	var table *predictor.Table

	BeforeEach(func() {
		table = predictor.NewTable(7)
	})

	It("reports no prediction for a never-used slot", func() {
		_, ok := table.Lookup(3)
		Expect(ok).To(BeFalse())
	})

	It("records and returns a prediction", func() {
		table.Update(3, 0x100, true)

		pred, ok := table.Lookup(3)
		Expect(ok).To(BeTrue())
		Expect(pred.PC).To(Equal(uint64(0x100)))
		Expect(pred.Taken).To(BeTrue())
	})

	It("overwrites the prior prediction for the same slot", func() {
		table.Update(5, 0x10, true)
		table.Update(5, 0x20, false)

		pred, ok := table.Lookup(5)
		Expect(ok).To(BeTrue())
		Expect(pred.PC).To(Equal(uint64(0x20)))
		Expect(pred.Taken).To(BeFalse())
	})

	It("keeps slots independent", func() {
		table.Update(1, 0x10, true)
		table.Update(2, 0x20, false)

		p1, _ := table.Lookup(1)
		p2, _ := table.Lookup(2)
		Expect(p1.Taken).To(BeTrue())
		Expect(p2.Taken).To(BeFalse())
	})

	It("rejects out-of-range CFID slots", func() {
		_, ok := table.Lookup(0)
		Expect(ok).To(BeFalse())
		_, ok = table.Lookup(8)
		Expect(ok).To(BeFalse())
	})

	It("clears all slots on Reset", func() {
		table.Update(1, 0x10, true)
		table.Reset()

		_, ok := table.Lookup(1)
		Expect(ok).To(BeFalse())
	})
})
