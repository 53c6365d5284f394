package pipeline

import "testing"

func TestROBAdmitAssignsMonotonicSlots(t *testing.T) {
	r := NewROB(4)
	slot1, ok := r.Admit(ROBEntry{})
	if !ok {
		t.Fatal("Admit failed with room available")
	}
	slot2, ok := r.Admit(ROBEntry{})
	if !ok {
		t.Fatal("Admit failed with room available")
	}
	if slot2 != slot1+1 {
		t.Fatalf("slot2 = %d, want %d", slot2, slot1+1)
	}
}

func TestROBFullRejectsAdmit(t *testing.T) {
	r := NewROB(1)
	if _, ok := r.Admit(ROBEntry{}); !ok {
		t.Fatal("first Admit should succeed")
	}
	if _, ok := r.Admit(ROBEntry{}); ok {
		t.Fatal("Admit should fail once full")
	}
}

func TestROBUpdateAndRetire(t *testing.T) {
	r := NewROB(4)
	slot, _ := r.Admit(ROBEntry{})
	if r.Head().Valid {
		t.Fatal("newly admitted entry should start INVALID")
	}
	r.Update(slot, 42, true)
	if !r.Head().Valid || r.Head().Result != 42 || !r.Head().ZeroFlag {
		t.Fatal("Update should mark the entry VALID with its result")
	}
	r.Retire()
	if r.Len() != 0 {
		t.Fatalf("Len() after Retire = %d, want 0", r.Len())
	}
}

func TestROBFlushFromIsIdempotent(t *testing.T) {
	r := NewROB(8)
	s1, _ := r.Admit(ROBEntry{})
	r.Admit(ROBEntry{})
	r.Admit(ROBEntry{})

	flushed := r.FlushFrom(s1)
	if len(flushed) != 2 {
		t.Fatalf("FlushFrom removed %d entries, want 2", len(flushed))
	}
	if r.Len() != 1 {
		t.Fatalf("Len() after FlushFrom = %d, want 1", r.Len())
	}

	again := r.FlushFrom(s1)
	if len(again) != 0 {
		t.Fatal("a second FlushFrom against an already-empty newer region should be a no-op")
	}
}

func TestROBZeroFlagAt(t *testing.T) {
	r := NewROB(4)
	slot, _ := r.Admit(ROBEntry{})
	r.Update(slot, 0, true)

	zf, ok := r.ZeroFlagAt(slot)
	if !ok || !zf {
		t.Fatal("ZeroFlagAt should report the recorded zero flag")
	}
	if _, ok := r.ZeroFlagAt(slot + 99); ok {
		t.Fatal("ZeroFlagAt should report false for an absent slot")
	}
}
