package arena

import (
	"testing"

	"github.com/arm64x86/dbt/internal/guest"
)

func TestDefaultInvokerReturnsHaltSentinel(t *testing.T) {
	st := guest.New()
	exit := DefaultInvoker(0xdead0000, st)
	if exit != haltSentinel {
		t.Fatalf("expected halt sentinel, got %#x", exit)
	}
}

func TestDefaultInvokerNeverMutatesState(t *testing.T) {
	st := guest.New()
	st.SetX(0, 0x42)
	DefaultInvoker(0, st)
	if st.GetX(0) != 0x42 {
		t.Fatal("DefaultInvoker must not touch guest state, it never runs generated code")
	}
}
