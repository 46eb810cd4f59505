package emitter

import "testing"

func TestAesEncEncoding(t *testing.T) {
	b := buf()
	AesEnc(b, 0, 1)
	assertBytes(t, b.Bytes(), []byte{0x66, 0x0F, 0x38, 0xDC, modrm(modDirect, 0, 1)})
}

func TestPclmulqdqCarriesImmediate(t *testing.T) {
	b := buf()
	Pclmulqdq(b, 0, 1, 0x11)
	got := b.Bytes()
	if got[len(got)-1] != 0x11 {
		t.Fatalf("expected trailing immediate 0x11, got %#x", got[len(got)-1])
	}
}

func TestCrc32ByteSourceOpcode(t *testing.T) {
	b := buf()
	Crc32(b, RAX, RCX, 1)
	got := b.Bytes()
	// F2, [no 66], REX?, 0F, 38, F0, modrm
	if got[0] != 0xF2 {
		t.Fatalf("expected F2 prefix, got %#x", got[0])
	}
	foundF0 := false
	for i := 0; i < len(got)-1; i++ {
		if got[i] == 0x0F && got[i+1] == 0x38 && i+2 < len(got) && got[i+2] == 0xF0 {
			foundF0 = true
		}
	}
	if !foundF0 {
		t.Fatalf("expected 0F 38 F0 byte-source opcode sequence, got %x", got)
	}
}

func TestCrc32QwordSourceUsesRexW(t *testing.T) {
	b := buf()
	Crc32(b, RAX, RCX, 8)
	got := b.Bytes()
	if got[1] != rex(true, false, false, false) {
		t.Fatalf("expected REX.W for 64-bit source, got %#x", got[1])
	}
}

func TestCrc32WordSourceHas66Prefix(t *testing.T) {
	b := buf()
	Crc32(b, RAX, RCX, 2)
	got := b.Bytes()
	if got[0] != 0xF2 || got[1] != 0x66 {
		t.Fatalf("expected F2 66 prefix pair for 16-bit source, got %x", got[:2])
	}
}
