package guest

import (
	"encoding/binary"
	"fmt"
)

// Image is the guest memory abstraction the core reads instructions from.
// It is read-only from the translator's perspective: the decoder never
// mutates it, and the only writer is whatever loaded the guest program
// before translation started. A flat byte slice is an identity mapping,
// which the specification calls out as an acceptable implementation of
// "translate(guest_addr) -> host_ptr".
type Image struct {
	base  uint64 // guest address of data[0]
	data  []byte
}

// NewImage wraps data as guest memory starting at the given base address.
func NewImage(base uint64, data []byte) *Image {
	return &Image{base: base, data: data}
}

// Contains reports whether addr..addr+n falls inside the mapped region.
func (m *Image) Contains(addr uint64, n uint64) bool {
	if addr < m.base {
		return false
	}
	off := addr - m.base
	return off+n <= uint64(len(m.data))
}

// Translate returns the byte offset of addr within the backing slice,
// i.e. the identity-mapped "host pointer" for guest address addr.
func (m *Image) Translate(addr uint64) (int, error) {
	if !m.Contains(addr, 1) {
		return 0, fmt.Errorf("guest address 0x%x out of range", addr)
	}
	return int(addr - m.base), nil
}

// ReadWord32 reads one little-endian 32-bit guest instruction word.
func (m *Image) ReadWord32(addr uint64) (uint32, error) {
	off, err := m.Translate(addr)
	if err != nil {
		return 0, err
	}
	if off+4 > len(m.data) {
		return 0, fmt.Errorf("guest address 0x%x: word read past end of image", addr)
	}
	return binary.LittleEndian.Uint32(m.data[off : off+4]), nil
}

// ReadBytes reads n raw bytes starting at addr.
func (m *Image) ReadBytes(addr uint64, n int) ([]byte, error) {
	off, err := m.Translate(addr)
	if err != nil {
		return nil, err
	}
	if off+n > len(m.data) {
		return nil, fmt.Errorf("guest address 0x%x: read of %d bytes past end of image", addr, n)
	}
	return m.data[off : off+n], nil
}
