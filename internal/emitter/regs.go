// Package emitter is the host code generation library: each exported
// function appends the byte-exact x86_64 encoding of one instruction to a
// code buffer, given register indices and an optional displacement or
// immediate. Every emitter is pure over the buffer -- it introduces no
// hidden state -- and follows the Intel SDM encoding tables directly.
package emitter

import "github.com/arm64x86/dbt/internal/buffer"

// Reg is a host general-purpose or xmm/ymm register index, 0..15.
type Reg uint8

const (
	RAX Reg = 0
	RCX Reg = 1
	RDX Reg = 2
	RBX Reg = 3
	RSP Reg = 4
	RBP Reg = 5
	RSI Reg = 6
	RDI Reg = 7
	R8  Reg = 8
	R9  Reg = 9
	R10 Reg = 10
	R11 Reg = 11
	R12 Reg = 12
	R13 Reg = 13
	R14 Reg = 14
	R15 Reg = 15
)

// GuestMap is the static AArch64-register -> host-register mapping (C4.6).
// The xlate translators do not read it: they keep guest registers in
// guest.State and address them through the context pointer. Index 31 (the
// architectural zero/stack register) has no entry, since its meaning
// depends on the instruction class.
type GuestMap struct {
	table [31]Reg
}

// DefaultGuestMap returns the fixed AArch64 X0..X30 -> host register
// assignment: X0-X14 take RAX, RCX, RDX, RBX, RSI, RDI, RBP and R8-R15 in
// order (RSP is skipped), X15-X29 repeat that sequence, and X30 maps to
// RAX.
func DefaultGuestMap() *GuestMap {
	return &GuestMap{table: [31]Reg{
		RAX, RCX, RDX, RBX, RSI, RDI, RBP,
		R8, R9, R10, R11, R12, R13, R14, R15,
		RAX, RCX, RDX, RBX, RSI, RDI, RBP,
		R8, R9, R10, R11, R12, R13, R14, R15,
		RAX,
	}}
}

// Host returns the host register backing AArch64 general register n,
// 0..30. Index 31 (zero/stack register) is not addressable here.
func (m *GuestMap) Host(n uint8) Reg {
	return m.table[n&0x1F]
}

// Scratch1 and Scratch2 name two host registers reserved by the
// translators for operand staging (holding a shifted source, a folded
// immediate, or a temporary flags snapshot). DefaultGuestMap also assigns
// R13 and R14 to guest registers; the translators, which keep guest
// registers in memory, do not use that map.
const (
	Scratch1 Reg = R13
	Scratch2 Reg = R14
)

// needsRexBit reports whether r requires REX.R/X/B, i.e. r >= 8.
func needsRexBit(r Reg) bool { return r >= 8 }

// rex builds a REX prefix byte. w selects 64-bit operand size; r/x/b are
// the high bits of reg/index/rm respectively. The caller omits the byte
// entirely when w is false and no field needs a high bit, matching the
// specified "REX prefixes omitted when not needed" contract.
func rex(w, r, x, b bool) byte {
	v := byte(0x40)
	if w {
		v |= 0x08
	}
	if r {
		v |= 0x04
	}
	if x {
		v |= 0x02
	}
	if b {
		v |= 0x01
	}
	return v
}

func emitRexIfNeeded(buf *buffer.Buffer, w bool, reg, rm Reg) {
	r := needsRexBit(reg)
	b := needsRexBit(rm)
	if w || r || b {
		buf.EmitByte(rex(w, r, false, b))
	}
}

func modrm(mod, reg, rm byte) byte {
	return mod<<6 | (reg&7)<<3 | (rm & 7)
}

const (
	modDirect    = 0b11
	modDisp0     = 0b00
	modDisp8     = 0b01
	modDisp32    = 0b10
)

func le32(v int32) [4]byte {
	return [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func le64(v int64) [8]byte {
	var out [8]byte
	for i := 0; i < 8; i++ {
		out[i] = byte(v >> (8 * i))
	}
	return out
}
