// Package decoder classifies fixed-width 32-bit AArch64 guest instruction
// words into a tagged Decoded operation. Classification is total: every
// 32-bit word produces either a concrete operation with populated operand
// fields, or OpUnknown. The decoder never mutates its input and performs
// no side effects; it is a pure structural classifier.
package decoder

import "github.com/arm64x86/dbt/internal/guest"

// Op is the top-level discriminant of a decoded operation.
type Op uint8

const (
	OpUnknown Op = iota
	OpALU
	OpCompare
	OpMoveWide
	OpLoad
	OpStore
	OpBranch
	OpCondSelect
	OpBitfield
	OpSystem
	OpFPScalar
	OpSIMD
	OpCrypto
)

// ShiftKind names the four AArch64 shift/rotate types.
type ShiftKind uint8

const (
	ShiftLSL ShiftKind = iota
	ShiftLSR
	ShiftASR
	ShiftROR
)

// Decoded is the tagged sum produced by Decode. Only the fields relevant
// to Mnemonic's family are meaningful; an OpUnknown Decoded has no further
// operand constraints.
type Decoded struct {
	Op       Op
	Mnemonic string // e.g. "ADD", "ADDS", "CSEL", "CRC32B" -- drives translator routing

	Rd, Rn, Rm uint8
	Ra         uint8 // third source (MADD) or paired register (LDP/STP Rt2)
	HasRa      bool

	Imm   int64 // sign-extended where the encoding requires it
	Shift ShiftKind
	Amt   uint8 // shift amount, or bitfield immr/lsb depending on family

	Amt2 uint8 // bitfield imms/width, second shift-family operand

	Cond guest.Cond

	Size       uint8 // memory access size in bytes: 1,2,4,8
	SignExtend bool
	Is32       bool // 32-bit (W) operand size vs 64-bit (X)
	SetFlags   bool // S-bit
	ImmSrc     bool // second ALU source is Imm, not Rm (disambiguates Rm==0 as a real register)

	ElemWidth uint8 // SIMD/crypto element width in bits: 8,16,32,64
	Q         bool  // vector length: true=128-bit, false=64-bit

	TestBit uint8 // TBZ/TBNZ bit index, 0..63

	PCRelOffset int64 // byte offset for PC-relative branches / literal loads

	PreIndex  bool
	PostIndex bool
	WriteBack bool

	Raw uint32
}

func bits(w uint32, hi, lo uint) uint32 {
	n := hi - lo + 1
	mask := uint32(1)<<n - 1
	return (w >> lo) & mask
}

func bit(w uint32, pos uint) bool {
	return (w>>pos)&1 != 0
}

func signExtend(v uint32, width uint) int64 {
	shift := 32 - width
	return int64(int32(v<<shift)) >> shift
}

// Decode classifies one 32-bit guest word. The cascade is ordered from
// most specific pattern to most general, per the specified edge-case
// policy: the more specific mask wins when multiple patterns could match.
func Decode(w uint32) Decoded {
	d := Decoded{Raw: w, Op: OpUnknown, Mnemonic: "UNKNOWN"}

	switch {
	case matchBR(w, &d):
	case matchUncondBranch(w, &d):
	case matchCondBranch(w, &d):
	case matchCompareBranch(w, &d):
	case matchTestBranch(w, &d):
	case matchSystem(w, &d):
	case matchMoveWide(w, &d):
	case matchBitfield(w, &d):
	case matchCondSelect(w, &d):
	case matchCrypto(w, &d):
	case matchSIMD(w, &d):
	case matchFPScalar(w, &d):
	case matchLoadStoreExclusive(w, &d):
	case matchLoadStorePair(w, &d):
	case matchLoadStore(w, &d):
	case matchLogicalImmediate(w, &d):
	case matchAddSubImmediate(w, &d):
	case matchLogicalShiftedReg(w, &d):
	case matchAddSubShiftedReg(w, &d):
	default:
		// leaves d as OpUnknown
	}

	return d
}
