package benchmarks

// Scenarios returns the benchmark suite: the six literal end-to-end
// programs used to validate the engine's architectural correctness, plus a
// couple of synthetic stress programs sized to exercise structural stalls
// and deeper branch/memory chains.
func Scenarios() []Benchmark {
	return []Benchmark{
		{
			Name:        "add_immediates",
			Description: "two MOVC-loaded immediates added together",
			Source: `
				MOVC R1, #5
				MOVC R2, #7
				ADD  R3, R1, R2
				HALT
			`,
		},
		{
			Name:        "zero_result",
			Description: "an ADD that produces a zero result and sets the zero flag",
			Source: `
				MOVC R1, #0
				MOVC R2, #0
				ADD  R3, R1, R2
				HALT
			`,
		},
		{
			Name:        "multiply_latency",
			Description: "a MUL that must cross its multi-cycle MulFU latency",
			Source: `
				MOVC R1, #3
				MOVC R2, #4
				MUL  R3, R1, R2
				ADD  R4, R3, R3
				HALT
			`,
		},
		{
			Name:        "branch_not_taken",
			Description: "a BZ that falls through because the guarding flag is clear",
			Source: `
				MOVC R1, #1
				BZ   #8
				MOVC R2, #99
				MOVC R3, #42
				HALT
			`,
		},
		{
			Name:        "branch_taken_squash",
			Description: "a BZ that is taken and must squash its speculative shadow",
			Source: `
				MOVC R1, #0
				ADD  R2, R1, R1
				BZ   #8
				MOVC R3, #111
				MOVC R4, #222
				HALT
			`,
		},
		{
			Name:        "store_load_ordering",
			Description: "a LOAD that must observe an in-flight STORE to the same address",
			Source: `
				MOVC  R1, #10
				STORE R1, R0, #4
				LOAD  R2, R0, #4
				HALT
			`,
		},
		{
			Name:        "mixed_stress",
			Description: "a longer mixed arithmetic/branch/memory chain",
			Source: `
				MOVC  R1, #1
				MOVC  R2, #2
				MOVC  R3, #3
				ADD   R4, R1, R2
				MUL   R5, R4, R3
				STORE R5, R0, #12
				LOAD  R6, R0, #12
				BZ    #8
				ADD   R7, R5, R6
				SUB   R7, R7, R1
				HALT
			`,
		},
		{
			Name:        "jal_call_chain",
			Description: "a JAL exercising a link-register write and a redirect past one instruction",
			Source: `
				MOVC R1, #0
				JAL  R2, R1, #4012
				MOVC R3, #123
				HALT
			`,
		},
	}
}
