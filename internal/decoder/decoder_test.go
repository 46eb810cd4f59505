package decoder

import "testing"

func TestDecodeADDImmediate(t *testing.T) {
	// ADD X1, X1, #1: sf=1, op=0, S=0 -- the S bit lives at bit 29, which is
	// 0 in this word, so it lowers to plain ADD and never touches PSTATE.
	d := Decode(0x91000421)
	if d.Op != OpALU {
		t.Fatalf("expected OpALU (S=0 leaves flags untouched), got %v", d.Op)
	}
	if d.Mnemonic != "ADD" {
		t.Fatalf("expected ADD, got %s", d.Mnemonic)
	}
	if d.Rd != 1 || d.Rn != 1 {
		t.Fatalf("expected Rd=Rn=1, got Rd=%d Rn=%d", d.Rd, d.Rn)
	}
	if d.Imm != 1 {
		t.Fatalf("expected imm=1, got %d", d.Imm)
	}
	if d.SetFlags {
		t.Fatal("expected SetFlags=false for plain ADD")
	}
	if d.Is32 {
		t.Fatal("expected 64-bit operand (sf=1)")
	}
}

func TestDecodeADDSImmediate(t *testing.T) {
	// ADDS X1, X1, #1: same as above with S=1 (bit 29 set).
	d := Decode(0xB1000421)
	if d.Op != OpCompare {
		t.Fatalf("expected OpCompare (ADDS updates flags), got %v", d.Op)
	}
	if d.Mnemonic != "ADDS" {
		t.Fatalf("expected ADDS, got %s", d.Mnemonic)
	}
	if d.Rd != 1 || d.Rn != 1 {
		t.Fatalf("expected Rd=Rn=1, got Rd=%d Rn=%d", d.Rd, d.Rn)
	}
	if d.Imm != 1 {
		t.Fatalf("expected imm=1, got %d", d.Imm)
	}
	if !d.SetFlags {
		t.Fatal("expected SetFlags=true for ADDS")
	}
	if d.Is32 {
		t.Fatal("expected 64-bit operand (sf=1)")
	}
}

func TestDecodeSUBSImmediate(t *testing.T) {
	// SUBS W0, W0, #1
	d := Decode(0x71000400)
	if d.Mnemonic != "SUBS" {
		t.Fatalf("expected SUBS, got %s", d.Mnemonic)
	}
	if !d.Is32 {
		t.Fatal("expected 32-bit operand")
	}
	if d.Rd != 0 || d.Rn != 0 || d.Imm != 1 {
		t.Fatalf("unexpected operands: Rd=%d Rn=%d Imm=%d", d.Rd, d.Rn, d.Imm)
	}
}

func TestDecodeCSEL(t *testing.T) {
	// CSEL X0, X1, X2, EQ
	d := Decode(0x1A820020)
	if d.Op != OpCondSelect {
		t.Fatalf("expected OpCondSelect, got %v", d.Op)
	}
	if d.Mnemonic != "CSEL" {
		t.Fatalf("expected CSEL, got %s", d.Mnemonic)
	}
	if d.Rd != 0 || d.Rn != 1 || d.Rm != 2 {
		t.Fatalf("unexpected operands: Rd=%d Rn=%d Rm=%d", d.Rd, d.Rn, d.Rm)
	}
}

func TestDecodeUnconditionalBranch(t *testing.T) {
	// B +8 (two instructions forward)
	d := Decode(0x14000002)
	if d.Op != OpBranch || d.Mnemonic != "B" {
		t.Fatalf("expected B, got op=%v mnemonic=%s", d.Op, d.Mnemonic)
	}
	if d.PCRelOffset != 8 {
		t.Fatalf("expected offset +8, got %d", d.PCRelOffset)
	}
}

func TestDecodeRET(t *testing.T) {
	d := Decode(0xD65F03C0)
	if d.Op != OpBranch || d.Mnemonic != "RET" {
		t.Fatalf("expected RET, got op=%v mnemonic=%s", d.Op, d.Mnemonic)
	}
	if d.Rn != 30 {
		t.Fatalf("expected Rn=30 (LR default), got %d", d.Rn)
	}
}

func TestDecodeCondBranchOffset(t *testing.T) {
	// B.EQ -4: cond=EQ(0x0), 19-bit imm19 = -1 (word offset)
	w := uint32(0b01010100<<24) | (uint32(0x7FFFF) << 5) | 0x0
	d := Decode(w)
	if d.Op != OpBranch || d.Mnemonic != "B.cond" {
		t.Fatalf("expected B.cond, got %v %s", d.Op, d.Mnemonic)
	}
	if d.PCRelOffset != -4 {
		t.Fatalf("expected offset -4, got %d", d.PCRelOffset)
	}
}

func TestDecodeUnknown(t *testing.T) {
	d := Decode(0xFFFFFFFF)
	if d.Op != OpUnknown {
		t.Fatalf("expected OpUnknown for garbage word, got %v", d.Op)
	}
}

func TestDecodeIsTotal(t *testing.T) {
	// A handful of arbitrary words must never panic and must always
	// produce a concrete Op (never a zero-value Decoded posing as valid).
	words := []uint32{0, 0x12345678, 0x91000421, 0xD65F03C0, 0xFFFFFFFF, 0x14000002}
	for _, w := range words {
		d := Decode(w)
		if d.Raw != w {
			t.Fatalf("expected Raw to echo input %#x, got %#x", w, d.Raw)
		}
	}
}
