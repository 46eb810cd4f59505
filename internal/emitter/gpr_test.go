package emitter

import "testing"

func TestMovRegRegNoRexForLowRegs(t *testing.T) {
	b := buf()
	MovRegReg(b, RCX, RAX, Width32)
	got := b.Bytes()
	want := []byte{0x89, modrm(modDirect, byte(RAX), byte(RCX))}
	assertBytes(t, got, want)
}

func TestMovRegRegRexWFor64Bit(t *testing.T) {
	b := buf()
	MovRegReg(b, RCX, RAX, Width64)
	got := b.Bytes()
	if got[0] != rex(true, false, false, false) {
		t.Fatalf("expected REX.W prefix, got %#x", got[0])
	}
}

func TestMovRegRegRexBForHighReg(t *testing.T) {
	b := buf()
	MovRegReg(b, R8, RAX, Width32)
	got := b.Bytes()
	if len(got) != 3 {
		t.Fatalf("expected a REX prefix byte for R8 destination, got %d bytes: %x", len(got), got)
	}
	if got[0] != rex(false, false, false, true) {
		t.Fatalf("expected REX.B only, got %#x", got[0])
	}
}

func TestMovImm32ZeroExtends(t *testing.T) {
	b := buf()
	MovImm32(b, RAX, 0x12345678)
	got := b.Bytes()
	want := []byte{0xB8, 0x78, 0x56, 0x34, 0x12}
	assertBytes(t, got, want)
}

func TestMovImm64UsesRexW(t *testing.T) {
	b := buf()
	MovImm64(b, RAX, 0x0102030405060708)
	got := b.Bytes()
	if got[0] != rex(true, false, false, false) {
		t.Fatalf("expected REX.W prefix, got %#x", got[0])
	}
	if got[1] != 0xB8 {
		t.Fatalf("expected B8+r opcode, got %#x", got[1])
	}
	if len(got) != 10 {
		t.Fatalf("expected 10-byte movabs encoding, got %d", len(got))
	}
}

func TestAddRegRegOpcode(t *testing.T) {
	b := buf()
	AddRegReg(b, RDI, RSI, Width64)
	got := b.Bytes()
	if got[len(got)-2] != 0x01 {
		t.Fatalf("expected ADD r/m,r opcode 0x01, got %#x", got[len(got)-2])
	}
}

func TestCmpRegImm32Digit(t *testing.T) {
	b := buf()
	CmpRegImm32(b, RAX, 5, Width32)
	got := b.Bytes()
	if got[0] != 0x81 {
		t.Fatalf("expected opcode 0x81, got %#x", got[0])
	}
	wantModRM := modrm(modDirect, 7, byte(RAX)) // /7 selects CMP
	if got[1] != wantModRM {
		t.Fatalf("expected ModRM %#x, got %#x", wantModRM, got[1])
	}
}

func TestLeaRegMemRSPNeedsSIB(t *testing.T) {
	b := buf()
	LeaRegMem(b, RAX, RSP, 16, Width64)
	got := b.Bytes()
	// REX.W, 0x8D, modrm(disp32, RAX, 4), SIB 0x24, disp32(4 bytes) = 8 bytes total.
	if len(got) != 8 {
		t.Fatalf("expected 8-byte encoding, got %d: %x", len(got), got)
	}
	if got[1] != 0x8D {
		t.Fatalf("expected LEA opcode at index 1, got %#x", got[1])
	}
	if got[3] != 0x24 {
		t.Fatalf("expected SIB byte 0x24 for RSP base, got %#x", got[3])
	}
}

func TestLoadMemDisp0OmitsDisplacement(t *testing.T) {
	b := buf()
	LoadMem(b, RAX, RDI, 0, 8)
	got := b.Bytes()
	// REX.W, 0x8B, modrm(disp0, RAX, RDI) -- no displacement bytes.
	if len(got) != 3 {
		t.Fatalf("expected 3-byte encoding for zero-displacement load, got %d: %x", len(got), got)
	}
}

func TestLoadMemSmallDispUsesDisp8(t *testing.T) {
	b := buf()
	LoadMem(b, RAX, RDI, 16, 8)
	got := b.Bytes()
	if len(got) != 4 {
		t.Fatalf("expected disp8 form (4 bytes), got %d: %x", len(got), got)
	}
	if got[len(got)-1] != 16 {
		t.Fatalf("expected displacement byte 16, got %d", got[len(got)-1])
	}
}

func TestLoadMemLargeDispUsesDisp32(t *testing.T) {
	b := buf()
	LoadMem(b, RAX, RDI, 1000, 8)
	got := b.Bytes()
	if len(got) != 7 {
		t.Fatalf("expected disp32 form (7 bytes), got %d: %x", len(got), got)
	}
}

func TestLoadMemSignedByte(t *testing.T) {
	b := buf()
	LoadMemSigned(b, RAX, RDI, 0, 1)
	got := b.Bytes()
	// 0x0F 0xBE is MOVSX r32/64, r/m8
	foundMovsx := false
	for i := 0; i < len(got)-1; i++ {
		if got[i] == 0x0F && got[i+1] == 0xBE {
			foundMovsx = true
		}
	}
	if !foundMovsx {
		t.Fatalf("expected MOVSX byte opcode 0F BE in %x", got)
	}
}

func TestShiftByImm8Encoding(t *testing.T) {
	b := buf()
	ShiftByImm8(b, ShiftSHL, RAX, 4, Width64)
	got := b.Bytes()
	if got[len(got)-3] != 0xC1 {
		t.Fatalf("expected C1 opcode, got %#x", got[len(got)-3])
	}
	if got[len(got)-1] != 4 {
		t.Fatalf("expected immediate 4, got %d", got[len(got)-1])
	}
}
