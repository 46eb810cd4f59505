package xlate

import (
	"testing"

	"github.com/arm64x86/dbt/internal/buffer"
	"github.com/arm64x86/dbt/internal/decoder"
	"github.com/arm64x86/dbt/internal/guest"
)

func TestTranslateBitfieldLSL(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	d := decoder.Decoded{Op: decoder.OpBitfield, Mnemonic: "LSL", Rd: 1, Rn: 0, Amt: 4, Amt2: 59, Is32: false}
	if err := tr.translateOne(buf, d, 0x1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.CurrentSize() == 0 {
		t.Fatal("expected host code for LSL")
	}
}

func TestTranslateBitfieldLSR(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	d := decoder.Decoded{Op: decoder.OpBitfield, Mnemonic: "LSR", Rd: 1, Rn: 0, Amt: 4, Amt2: 63, Is32: false}
	if err := tr.translateOne(buf, d, 0x1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.CurrentSize() == 0 {
		t.Fatal("expected host code for LSR")
	}
}

func TestTranslateBitfieldASR(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	d := decoder.Decoded{Op: decoder.OpBitfield, Mnemonic: "ASR", Rd: 1, Rn: 0, Amt: 4, Amt2: 63, Is32: false}
	if err := tr.translateOne(buf, d, 0x1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.CurrentSize() == 0 {
		t.Fatal("expected host code for ASR")
	}
}

func TestTranslateBitfieldUBFMGeneralCase(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	// UBFM extracting an 8-bit field starting at bit 8: immr=8, imms=15.
	d := decoder.Decoded{Op: decoder.OpBitfield, Mnemonic: "UBFM", Rd: 1, Rn: 0, Amt: 8, Amt2: 15, Is32: false}
	if err := tr.translateOne(buf, d, 0x1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.CurrentSize() == 0 {
		t.Fatal("expected host code for UBFM")
	}
}

func TestTranslateBitfieldBFMPreservesDestinationBits(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	d := decoder.Decoded{Op: decoder.OpBitfield, Mnemonic: "BFM", Rd: 1, Rn: 0, Amt: 0, Amt2: 7, Is32: false}
	if err := tr.translateOne(buf, d, 0x1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.CurrentSize() == 0 {
		t.Fatal("expected host code for BFM")
	}
}

func TestTranslateCondSelectCSINC(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	d := decoder.Decoded{Op: decoder.OpCondSelect, Mnemonic: "CSINC", Rd: 2, Rn: 0, Rm: 1, Cond: guest.CondEQ, Is32: false}
	if err := tr.translateOne(buf, d, 0x1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.CurrentSize() == 0 {
		t.Fatal("expected host code for CSINC")
	}
}

func TestTranslateCondSelectCSETM(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	d := decoder.Decoded{Op: decoder.OpCondSelect, Mnemonic: "CSETM", Rd: 2, Rn: 31, Rm: 31, Cond: guest.CondEQ, Is32: false}
	if err := tr.translateOne(buf, d, 0x1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.CurrentSize() == 0 {
		t.Fatal("expected host code for CSETM")
	}
}
