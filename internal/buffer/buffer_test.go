package buffer

import "testing"

func TestEmitByteAndBytes(t *testing.T) {
	b := New(4)
	b.EmitByte(0x90)
	b.EmitByte(0xC3)
	if got := b.Bytes(); len(got) != 2 || got[0] != 0x90 || got[1] != 0xC3 {
		t.Fatalf("unexpected bytes: %x", got)
	}
	if b.Overflowed() {
		t.Fatal("buffer should not report overflow yet")
	}
}

func TestOverflowIsSticky(t *testing.T) {
	b := New(2)
	b.EmitBytes([]byte{1, 2, 3, 4})
	if !b.Overflowed() {
		t.Fatal("expected overflow after writing past capacity")
	}
	if b.CurrentSize() != 4 {
		t.Fatalf("expected CurrentSize to report logical size 4, got %d", b.CurrentSize())
	}
	if len(b.Bytes()) != 2 {
		t.Fatalf("expected Bytes() truncated to capacity 2, got %d", len(b.Bytes()))
	}
	b.EmitByte(5)
	if !b.Overflowed() {
		t.Fatal("overflow flag must remain set")
	}
}

func TestEmitWord32LittleEndian(t *testing.T) {
	b := New(8)
	b.EmitWord32(0x01020304)
	want := []byte{0x04, 0x03, 0x02, 0x01}
	got := b.Bytes()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: want %#x got %#x", i, want[i], got[i])
		}
	}
}

func TestEmitWord64LittleEndian(t *testing.T) {
	b := New(8)
	b.EmitWord64(0x0102030405060708)
	got := b.Bytes()
	want := []byte{8, 7, 6, 5, 4, 3, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: want %#x got %#x", i, want[i], got[i])
		}
	}
}

func TestAlignTo(t *testing.T) {
	b := New(16)
	b.EmitByte(1)
	b.AlignTo(4)
	if b.CurrentSize() != 4 {
		t.Fatalf("expected aligned size 4, got %d", b.CurrentSize())
	}
	got := b.Bytes()
	for i := 1; i < 4; i++ {
		if got[i] != 0x90 {
			t.Fatalf("expected NOP padding at %d, got %#x", i, got[i])
		}
	}
}

func TestReset(t *testing.T) {
	b := New(4)
	b.EmitBytes([]byte{1, 2, 3, 4, 5})
	b.Reset()
	if b.CurrentSize() != 0 || b.Overflowed() {
		t.Fatal("Reset should clear cursor and overflow flag")
	}
}
