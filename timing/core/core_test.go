package core_test

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/apexsim/insts"
	"github.com/sarchlab/apexsim/timing/core"
	"github.com/sarchlab/apexsim/timing/latency"
)

func TestCore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Core Suite")
}

func assemble(src string) []insts.Instruction {
	program, err := insts.Parse(strings.NewReader(src))
	Expect(err).NotTo(HaveOccurred())
	return program
}

var _ = Describe("Core", func() {
	It("should create a core over a program", func() {
		c := core.NewCore(nil, assemble("HALT"))
		Expect(c).NotTo(BeNil())
	})

	It("should not be halted initially", func() {
		c := core.NewCore(nil, assemble("MOVC R1, #1\nHALT"))
		Expect(c.Halted()).To(BeFalse())
	})

	It("should execute instructions through Tick", func() {
		c := core.NewCore(nil, assemble(`
			MOVC R1, #42
			HALT
		`))

		for i := 0; i < 20 && !c.Halted(); i++ {
			c.Tick()
		}

		regs, _ := c.RegisterFile()
		Expect(regs[1]).To(Equal(42))
	})

	It("should run to completion and report an exit code", func() {
		c := core.NewCore(nil, assemble(`
			MOVC R1, #1
			MOVC R2, #2
			ADD  R3, R1, R2
			HALT
		`))
		c.Run()

		Expect(c.Halted()).To(BeTrue())
		Expect(c.ExitCode()).To(Equal(0))

		regs, _ := c.RegisterFile()
		Expect(regs[3]).To(Equal(3))
	})

	It("should return accumulated stats", func() {
		c := core.NewCore(nil, assemble(`
			MOVC R1, #1
			HALT
		`))
		c.Run()

		stats := c.Stats()
		Expect(stats.Cycles).To(BeNumerically(">", uint64(0)))
	})

	It("should honor a custom timing configuration", func() {
		cfg := latency.DefaultTimingConfig()
		cfg.CommitWidth = 1
		c := core.NewCore(cfg, assemble(`
			MOVC R1, #1
			MOVC R2, #2
			HALT
		`))
		c.Run()

		regs, _ := c.RegisterFile()
		Expect(regs[1]).To(Equal(1))
		Expect(regs[2]).To(Equal(2))
	})
})
