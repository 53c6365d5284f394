package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sarchlab/apexsim/insts"
	"github.com/sarchlab/apexsim/loader"
)

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.asm")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("failed to write test program: %v", err)
	}
	return path
}

func TestLoadValidProgram(t *testing.T) {
	path := writeProgram(t, "MOVC R1, #5\nMOVC R2, #10\nADD R3, R1, R2\nHALT\n")

	prog, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if prog.Len() != 4 {
		t.Fatalf("expected 4 instructions, got %d", prog.Len())
	}

	inst, ok := prog.At(insts.CodeAddress(2))
	if !ok {
		t.Fatal("expected instruction at index 2")
	}
	if inst.Rd != 3 {
		t.Fatalf("expected Rd=3, got %d", inst.Rd)
	}
}

func TestLoadRejectsEmptyProgram(t *testing.T) {
	path := writeProgram(t, "\n\n; only comments\n")
	if _, err := loader.Load(path); err == nil {
		t.Fatal("expected error for empty program")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := loader.Load(filepath.Join(t.TempDir(), "missing.asm")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAtOutOfRange(t *testing.T) {
	path := writeProgram(t, "NOP\n")
	prog, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := prog.At(-1); ok {
		t.Fatal("expected At(-1) to report not found")
	}
	if _, ok := prog.At(insts.CodeAddress(5)); ok {
		t.Fatal("expected At(CodeAddress(5)) to report not found (past end)")
	}
}
