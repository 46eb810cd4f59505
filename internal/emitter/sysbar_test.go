package emitter

import "testing"

func TestNop(t *testing.T) {
	b := buf()
	Nop(b)
	assertBytes(t, b.Bytes(), []byte{0x90})
}

func TestFences(t *testing.T) {
	b := buf()
	MFence(b)
	assertBytes(t, b.Bytes(), []byte{0x0F, 0xAE, 0xF0})

	b = buf()
	LFence(b)
	assertBytes(t, b.Bytes(), []byte{0x0F, 0xAE, 0xE8})

	b = buf()
	SFence(b)
	assertBytes(t, b.Bytes(), []byte{0x0F, 0xAE, 0xF8})
}

func TestUD2(t *testing.T) {
	b := buf()
	UD2(b)
	assertBytes(t, b.Bytes(), []byte{0x0F, 0x0B})
}

func TestInt3(t *testing.T) {
	b := buf()
	Int3(b)
	assertBytes(t, b.Bytes(), []byte{0xCC})
}
