package xlate

import (
	"testing"

	"github.com/arm64x86/dbt/internal/buffer"
)

func TestTranslateLDRUnsignedImmediate(t *testing.T) {
	// LDR X1, [X0, #8]
	tr := New(true, true)
	blk := blockOf(0xF9400401)
	buf := buffer.New(4096)
	if err := tr.Translate(buf, blk); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.CurrentSize() == 0 {
		t.Fatal("expected non-empty host code for a load")
	}
}

func TestTranslateSTRUnsignedImmediate(t *testing.T) {
	// STR X1, [X0, #8] -- same encoding family with opc=00 (store).
	tr := New(true, true)
	blk := blockOf(0xF9000401)
	buf := buffer.New(4096)
	if err := tr.Translate(buf, blk); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.CurrentSize() == 0 {
		t.Fatal("expected non-empty host code for a store")
	}
}
