package xlate

import (
	"testing"

	"github.com/arm64x86/dbt/internal/buffer"
	"github.com/arm64x86/dbt/internal/decoder"
)

func TestTranslateSystemNopHint(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	d := decoder.Decoded{Op: decoder.OpSystem, Mnemonic: "NOP"}
	if err := tr.translateOne(buf, d, 0x1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.CurrentSize() == 0 {
		t.Fatal("expected host code for NOP")
	}
}

func TestTranslateSystemDMBEmitsFence(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	d := decoder.Decoded{Op: decoder.OpSystem, Mnemonic: "DMB"}
	if err := tr.translateOne(buf, d, 0x1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.CurrentSize() == 0 {
		t.Fatal("expected host code for DMB")
	}
}

func TestTranslateSystemSVCEmitsTrapExit(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	d := decoder.Decoded{Op: decoder.OpSystem, Mnemonic: "SVC", Imm: 0}
	if err := tr.translateOne(buf, d, 0x1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := buf.Bytes()
	// The sequence ends in RET (0xC3) after loading the trap sentinel.
	if len(got) == 0 || got[len(got)-1] != 0xC3 {
		t.Fatalf("expected the SVC lowering to end in a RET, got % x", got)
	}
}

func TestTranslateSystemUDFEmitsUD2(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	d := decoder.Decoded{Op: decoder.OpSystem, Mnemonic: "UDF"}
	if err := tr.translateOne(buf, d, 0x1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := buf.Bytes()
	if len(got) != 2 || got[0] != 0x0F || got[1] != 0x0B {
		t.Fatalf("expected a bare UD2, got % x", got)
	}
}

func TestTranslateSystemMRSFPCRRoundTrip(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	d := decoder.Decoded{Op: decoder.OpSystem, Mnemonic: "MRS_FPCR", Rd: 3}
	if err := tr.translateOne(buf, d, 0x1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.CurrentSize() == 0 {
		t.Fatal("expected host code for MRS_FPCR")
	}
}

func TestTranslateSystemUnknownMnemonic(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	d := decoder.Decoded{Op: decoder.OpSystem, Mnemonic: "NOTAREALOP"}
	if err := tr.translateOne(buf, d, 0x1000); err == nil {
		t.Fatal("expected an error for an unrecognized system mnemonic")
	}
}
