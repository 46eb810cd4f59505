package emitter

import "testing"

func TestPaddBEncoding(t *testing.T) {
	b := buf()
	PaddB(b, 0, 1)
	assertBytes(t, b.Bytes(), []byte{0x66, 0x0F, 0xFC, modrm(modDirect, 0, 1)})
}

func TestPxorEncoding(t *testing.T) {
	b := buf()
	Pxor(b, 2, 3)
	assertBytes(t, b.Bytes(), []byte{0x66, 0x0F, 0xEF, modrm(modDirect, 2, 3)})
}

func TestPmaxSBUsesThreeByteOpcode(t *testing.T) {
	b := buf()
	PmaxSB(b, 0, 1)
	assertBytes(t, b.Bytes(), []byte{0x66, 0x0F, 0x38, 0x3C, modrm(modDirect, 0, 1)})
}

func TestPsrlQShiftImmediate(t *testing.T) {
	b := buf()
	PsrlQ(b, 5, 7)
	got := b.Bytes()
	want := []byte{0x66, 0x0F, 0x73, modrm(modDirect, 2, 5), 7}
	assertBytes(t, got, want)
}

func TestShiftHighRegNeedsRex(t *testing.T) {
	b := buf()
	PsllD(b, R9, 3)
	got := b.Bytes()
	if len(got) != 6 {
		t.Fatalf("expected 66+REX+0F+opcode+modrm+imm (6 bytes) for high reg, got %d: %x", len(got), got)
	}
}

func TestVexThreeOpTwoByteForm(t *testing.T) {
	b := buf()
	VpxorReg(b, 0, 1, 2)
	got := b.Bytes()
	if got[0] != 0xC5 {
		t.Fatalf("expected two-byte VEX prefix (both operands low), got %#x", got[0])
	}
}

func TestVexThreeOpThreeByteFormForHighReg(t *testing.T) {
	b := buf()
	VpxorReg(b, 0, 1, R9)
	got := b.Bytes()
	if got[0] != 0xC4 {
		t.Fatalf("expected three-byte VEX prefix when src2 needs REX.B, got %#x", got[0])
	}
}
