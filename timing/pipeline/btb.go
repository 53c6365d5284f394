package pipeline

import "github.com/sarchlab/apexsim/timing/predictor"

// CFIDPool manages the fixed-size (spec §3: 7) pool of control-flow
// identifiers. A CFID is allocated to each speculative branch
// (BZ/BNZ/JUMP/JAL) at decode and freed at its retirement; every
// non-branch instruction inherits the pool's current last-issued CFID so
// a single flush range covers it and its guarding branch together.
type CFIDPool struct {
	size    int
	free    []int // stack of available CFIDs, 1-based
	order   []int // CF_instn_order: live CFIDs in program order
	last    int   // last_control_flow_instr; 0 means no branch in flight
	predict predictor.Predictor
}

// NewCFIDPool builds a pool of size live CFIDs (1..size).
func NewCFIDPool(size int) *CFIDPool {
	p := &CFIDPool{size: size, predict: predictor.NewTable(size)}
	for id := size; id >= 1; id-- {
		p.free = append(p.free, id)
	}
	return p
}

// Last returns the current last_control_flow_instr (0 if none in flight).
// Non-branch instructions at decode use this value as their own CFID.
func (p *CFIDPool) Last() int {
	return p.last
}

// Alloc allocates a fresh CFID for a branch at decode. Returns false if the
// pool is exhausted (spec §4.3 failure path: stage stalls).
func (p *CFIDPool) Alloc(pc uint64) (int, bool) {
	if len(p.free) == 0 {
		return 0, false
	}
	cfid := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.order = append(p.order, cfid)
	p.last = cfid

	// Consult the prediction table for extensibility (spec §9: kept behind
	// an interface, not acted on by a static-taken fetch policy).
	p.predict.Lookup(cfid)

	return cfid, true
}

// Observe records the resolved outcome of the branch that held cfid, for
// future (currently unconsulted) prediction.
func (p *CFIDPool) Observe(cfid int, pc uint64, taken bool) {
	p.predict.Update(cfid, pc, taken)
}

// Retire frees cfid back to the pool on in-order retirement of its branch
// and removes it from the live order. No-op if cfid is not live (a branch
// whose CFID was already freed elsewhere need not be freed again).
func (p *CFIDPool) Retire(cfid int) {
	if p.indexOf(cfid) < 0 {
		return
	}
	p.remove(cfid)
	p.free = append(p.free, cfid)
}

// FlushFrom frees every CFID allocated strictly after cfid, returning them
// (and cfid itself) to the caller for IQ/LSQ flushing: every instruction
// carrying cfid or a younger CFID was fetched on the wrong path. cfid
// itself stays live in the pool, since its branch still has a ROB entry
// that will free it normally via Retire; freeing it here too would double
// free it. last is left pointing at cfid, the still in-flight branch.
// Idempotent: flushing an already-empty newer region re-reports only cfid.
func (p *CFIDPool) FlushFrom(cfid int) []int {
	idx := p.indexOf(cfid)
	if idx < 0 {
		return nil
	}
	younger := append([]int(nil), p.order[idx+1:]...)
	p.order = p.order[:idx+1]
	for _, id := range younger {
		p.free = append(p.free, id)
	}
	p.last = cfid
	return append([]int{cfid}, younger...)
}

// LiveSet returns the CFIDs currently in flight, oldest first.
func (p *CFIDPool) LiveSet() []int {
	cp := make([]int, len(p.order))
	copy(cp, p.order)
	return cp
}

func (p *CFIDPool) indexOf(cfid int) int {
	for i, id := range p.order {
		if id == cfid {
			return i
		}
	}
	return -1
}

func (p *CFIDPool) remove(cfid int) {
	idx := p.indexOf(cfid)
	if idx < 0 {
		return
	}
	p.order = append(p.order[:idx], p.order[idx+1:]...)
	if p.last == cfid {
		if len(p.order) == 0 {
			p.last = 0
		} else {
			p.last = p.order[len(p.order)-1]
		}
	}
}
