// Package latency holds the sizing and timing constants that parameterize
// the APEX out-of-order engine: queue/file capacities and per-FU latencies.
package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds the structural sizes and functional-unit latencies for
// one simulator instance. Values default to the APEX reference model.
type TimingConfig struct {
	// ROBSize is the number of entries in the reorder buffer.
	ROBSize uint64 `json:"rob_size"`

	// IQSize is the number of entries in the issue queue.
	IQSize uint64 `json:"iq_size"`

	// LSQSize is the number of entries in the load/store queue.
	LSQSize uint64 `json:"lsq_size"`

	// URFSize is the number of physical registers in the unified register file.
	URFSize uint64 `json:"urf_size"`

	// CFIDSize is the number of live control-flow identifiers the BTB pool
	// can track at once. Fixed at 7 by the reference model; exposed here so
	// tests can shrink it to provoke CFID exhaustion.
	CFIDSize uint64 `json:"cfid_size"`

	// CommitWidth is the maximum number of ROB entries retired per tick.
	CommitWidth uint64 `json:"commit_width"`

	// IntLatency is the nominal IntFU latency in cycles (ALU ops, MOVC,
	// branches, JAL). Default: 1 cycle. Validate requires it to be non-zero;
	// the pipeline does not read it, and IntFU always completes in one cycle.
	IntLatency uint64 `json:"int_latency"`

	// MulLatency is the MulFU latency in cycles. Default: 2 cycles.
	MulLatency uint64 `json:"mul_latency"`

	// MemLatency is the MemFU latency in cycles (LOAD/STORE). Default: 3 cycles.
	MemLatency uint64 `json:"mem_latency"`

	// BranchMispredictPenalty is not read by the pipeline: the reference
	// model pays for a mispredict entirely through the flush + refetch, so
	// this knob does not gate any cycle count. Kept for parity with the
	// hardware's usual "lost cycles" accounting and for future predictors
	// that might charge an explicit penalty.
	BranchMispredictPenalty uint64 `json:"branch_mispredict_penalty"`
}

// DefaultTimingConfig returns a TimingConfig with the reference model's sizes
// and latencies (spec §6: ROB_SIZE, IQ_SIZE, LSQ_SIZE, URF_SIZE, CFID_SIZE=7,
// commit-width=2, MUL latency=2, MEM latency=3).
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ROBSize:                 16,
		IQSize:                  8,
		LSQSize:                 6,
		URFSize:                 32,
		CFIDSize:                7,
		CommitWidth:             2,
		IntLatency:              1,
		MulLatency:              2,
		MemLatency:              3,
		BranchMispredictPenalty: 0,
	}
}

// LoadConfig loads a TimingConfig from a JSON file, starting from the default
// and overwriting whichever fields are present in the file.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that every size/latency is usable.
func (c *TimingConfig) Validate() error {
	if c.ROBSize == 0 {
		return fmt.Errorf("rob_size must be > 0")
	}
	if c.IQSize == 0 {
		return fmt.Errorf("iq_size must be > 0")
	}
	if c.LSQSize == 0 {
		return fmt.Errorf("lsq_size must be > 0")
	}
	if c.URFSize == 0 {
		return fmt.Errorf("urf_size must be > 0")
	}
	if c.CFIDSize == 0 || c.CFIDSize > 7 {
		return fmt.Errorf("cfid_size must be in [1, 7]")
	}
	if c.CommitWidth == 0 {
		return fmt.Errorf("commit_width must be > 0")
	}
	if c.IntLatency == 0 || c.MulLatency == 0 || c.MemLatency == 0 {
		return fmt.Errorf("functional unit latencies must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	cp := *c
	return &cp
}
