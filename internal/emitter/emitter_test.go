package emitter

import (
	"testing"

	"github.com/arm64x86/dbt/internal/buffer"
)

func buf() *buffer.Buffer {
	return buffer.New(64)
}

func assertBytes(t *testing.T, got, want []byte) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %x want %x", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %#x want %#x (full: got=%x want=%x)", i, got[i], want[i], got, want)
		}
	}
}

func TestRexOmittedForLowRegsNoWidth(t *testing.T) {
	b := buf()
	emitRexIfNeeded(b, false, RAX, RCX)
	if len(b.Bytes()) != 0 {
		t.Fatalf("expected no REX prefix emitted, got %x", b.Bytes())
	}
}

func TestRexEmittedWhenWidthRequested(t *testing.T) {
	b := buf()
	emitRexIfNeeded(b, true, RAX, RCX)
	if len(b.Bytes()) != 1 {
		t.Fatalf("expected one REX byte, got %x", b.Bytes())
	}
}

func TestModRMPacksFields(t *testing.T) {
	got := modrm(modDirect, 3, 5)
	want := byte(0b11_011_101)
	if got != want {
		t.Fatalf("got %08b want %08b", got, want)
	}
}

func TestDefaultGuestMapHostMapping(t *testing.T) {
	m := DefaultGuestMap()
	if m.Host(0) != RAX {
		t.Fatalf("expected X0 -> RAX, got %v", m.Host(0))
	}
	if m.Host(30) != RAX {
		t.Fatalf("expected X30 (wraps to index 30) -> RAX, got %v", m.Host(30))
	}
}

func TestNeedsRexBit(t *testing.T) {
	if needsRexBit(RAX) {
		t.Fatal("RAX should not need a REX bit")
	}
	if !needsRexBit(R8) {
		t.Fatal("R8 should need a REX bit")
	}
}
