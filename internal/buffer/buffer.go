// Package buffer implements the append-only host code byte sink that the
// emitter writes into.
package buffer

import "encoding/binary"

// Buffer is a bounded, append-only byte sink with a sticky overflow flag.
// Once Overflowed is set, further emissions are dropped, but the cursor
// is not clamped to capacity: it keeps counting so CurrentSize reports
// the true logical size of the block being translated, while Bytes
// stays truncated to capacity.
type Buffer struct {
	data       []byte
	cursor     int
	overflowed bool
}

// New allocates a code buffer with the given byte capacity.
func New(capacity int) *Buffer {
	return &Buffer{data: make([]byte, capacity)}
}

// Overflowed reports whether any emission has been dropped.
func (b *Buffer) Overflowed() bool { return b.overflowed }

// CurrentSize returns the write cursor, i.e. the number of bytes logically
// emitted so far (including any that overflowed capacity).
func (b *Buffer) CurrentSize() int { return b.cursor }

// Cap returns the buffer's byte capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// Bytes returns the committed bytes, truncated to capacity.
func (b *Buffer) Bytes() []byte {
	n := b.cursor
	if n > len(b.data) {
		n = len(b.data)
	}
	return b.data[:n]
}

func (b *Buffer) room(n int) bool {
	return b.cursor+n <= len(b.data)
}

// EmitByte appends a single byte.
func (b *Buffer) EmitByte(v byte) {
	if b.room(1) {
		b.data[b.cursor] = v
	} else {
		b.overflowed = true
	}
	b.cursor++
}

// EmitBytes appends a slice of raw bytes.
func (b *Buffer) EmitBytes(v []byte) {
	if b.room(len(v)) {
		copy(b.data[b.cursor:], v)
	} else {
		b.overflowed = true
	}
	b.cursor += len(v)
}

// EmitWord32 appends a little-endian 32-bit value.
func (b *Buffer) EmitWord32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.EmitBytes(tmp[:])
}

// EmitWord64 appends a little-endian 64-bit value.
func (b *Buffer) EmitWord64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.EmitBytes(tmp[:])
}

// AlignTo pads with NOP (0x90) bytes until CurrentSize is a multiple of n.
func (b *Buffer) AlignTo(n int) {
	if n <= 1 {
		return
	}
	rem := b.cursor % n
	if rem == 0 {
		return
	}
	b.EmitNopFill(n - rem)
}

// EmitNopFill appends n single-byte NOPs.
func (b *Buffer) EmitNopFill(n int) {
	for i := 0; i < n; i++ {
		b.EmitByte(0x90)
	}
}

// Reset clears the buffer for reuse without reallocating.
func (b *Buffer) Reset() {
	b.cursor = 0
	b.overflowed = false
}
