package debugger

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/arm64x86/dbt/internal/dispatch"
	"github.com/arm64x86/dbt/internal/guest"
)

func retImage(base uint64) *guest.Image {
	var code [4]byte
	binary.LittleEndian.PutUint32(code[:], 0xD65F03C0) // RET
	return guest.NewImage(base, code[:])
}

func newTestDebugger(t *testing.T) *Debugger {
	t.Helper()
	d, err := dispatch.New(16, 4096, 16, true, false)
	if err != nil {
		t.Fatalf("unexpected error building dispatcher: %v", err)
	}
	t.Cleanup(func() { d.Arena.Close() })
	img := retImage(0x1000)
	st := guest.New()
	st.PC = 0x1000
	return New(d, img, st)
}

func TestStepAdvancesPCAndDoesNotPanicUnderDefaultInvoker(t *testing.T) {
	dbg := newTestDebugger(t)
	if err := dbg.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// DefaultInvoker always reports the halt sentinel as the exit PC.
	if dbg.State.PC&dispatch.TrapMask != dispatch.TrapMask {
		t.Fatalf("expected a trap-range PC after stepping under DefaultInvoker, got %#x", dbg.State.PC)
	}
}

func TestContinueStopsOnTrap(t *testing.T) {
	dbg := newTestDebugger(t)
	reason, err := dbg.Continue(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reason, "trapped") {
		t.Fatalf("expected a trap stop reason, got %q", reason)
	}
	if dbg.Running {
		t.Fatal("expected Running to be false after Continue returns")
	}
}

func TestGetOutputDrainsAndResets(t *testing.T) {
	dbg := newTestDebugger(t)
	dbg.Output.WriteString("hello")
	got := dbg.GetOutput()
	if got != "hello" {
		t.Fatalf("expected %q, got %q", "hello", got)
	}
	if dbg.GetOutput() != "" {
		t.Fatal("expected Output to be drained")
	}
}

func TestExecuteCommandRecordsHistory(t *testing.T) {
	dbg := newTestDebugger(t)
	if err := dbg.ExecuteCommand("regs"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hist := dbg.History()
	if len(hist) != 1 || hist[0] != "regs" {
		t.Fatalf("expected history [\"regs\"], got %v", hist)
	}
}

func TestExecuteCommandIgnoresBlankLines(t *testing.T) {
	dbg := newTestDebugger(t)
	if err := dbg.ExecuteCommand("   "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dbg.History()) != 0 {
		t.Fatal("expected blank lines to be ignored, not recorded")
	}
}

func TestExecuteCommandUnknown(t *testing.T) {
	dbg := newTestDebugger(t)
	if err := dbg.ExecuteCommand("frobnicate"); err == nil {
		t.Fatal("expected an error for an unknown command")
	}
}
