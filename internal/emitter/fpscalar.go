package emitter

import "github.com/arm64x86/dbt/internal/buffer"

// XReg is an xmm/ymm register index, aliased to Reg since both register
// files share the same 0..15 ModRM encoding space.
type XReg = Reg

func emitSSEPrefixed(buf *buffer.Buffer, prefix byte, op0F, opcode byte, dst, src XReg) {
	if prefix != 0 {
		buf.EmitByte(prefix)
	}
	if needsRexBit(dst) || needsRexBit(src) {
		buf.EmitByte(rex(false, needsRexBit(dst), false, needsRexBit(src)))
	}
	buf.EmitByte(op0F)
	buf.EmitByte(opcode)
	buf.EmitByte(modrm(modDirect, byte(dst), byte(src)))
}

// scalar prefixes: F3 = single precision, F2 = double precision.
const (
	prefixSS = 0xF3
	prefixSD = 0xF2
)

func MovssRegReg(buf *buffer.Buffer, dst, src XReg) { emitSSEPrefixed(buf, prefixSS, 0x0F, 0x10, dst, src) }
func MovsdRegReg(buf *buffer.Buffer, dst, src XReg) { emitSSEPrefixed(buf, prefixSD, 0x0F, 0x10, dst, src) }

func AddssRegReg(buf *buffer.Buffer, dst, src XReg) { emitSSEPrefixed(buf, prefixSS, 0x0F, 0x58, dst, src) }
func AddsdRegReg(buf *buffer.Buffer, dst, src XReg) { emitSSEPrefixed(buf, prefixSD, 0x0F, 0x58, dst, src) }
func SubssRegReg(buf *buffer.Buffer, dst, src XReg) { emitSSEPrefixed(buf, prefixSS, 0x0F, 0x5C, dst, src) }
func SubsdRegReg(buf *buffer.Buffer, dst, src XReg) { emitSSEPrefixed(buf, prefixSD, 0x0F, 0x5C, dst, src) }
func MulssRegReg(buf *buffer.Buffer, dst, src XReg) { emitSSEPrefixed(buf, prefixSS, 0x0F, 0x59, dst, src) }
func MulsdRegReg(buf *buffer.Buffer, dst, src XReg) { emitSSEPrefixed(buf, prefixSD, 0x0F, 0x59, dst, src) }
func DivssRegReg(buf *buffer.Buffer, dst, src XReg) { emitSSEPrefixed(buf, prefixSS, 0x0F, 0x5E, dst, src) }
func DivsdRegReg(buf *buffer.Buffer, dst, src XReg) { emitSSEPrefixed(buf, prefixSD, 0x0F, 0x5E, dst, src) }
func SqrtssRegReg(buf *buffer.Buffer, dst, src XReg) { emitSSEPrefixed(buf, prefixSS, 0x0F, 0x51, dst, src) }
func SqrtsdRegReg(buf *buffer.Buffer, dst, src XReg) { emitSSEPrefixed(buf, prefixSD, 0x0F, 0x51, dst, src) }

// XorpsRegReg (no prefix) clears or negates-by-mask; used to synthesize
// FNEG/FABS through a sign-bit mask XOR/AND against a constant loaded
// into a scratch xmm register.
func XorpsRegReg(buf *buffer.Buffer, dst, src XReg) { emitSSEPrefixed(buf, 0, 0x0F, 0x57, dst, src) }
func AndpsRegReg(buf *buffer.Buffer, dst, src XReg) { emitSSEPrefixed(buf, 0, 0x0F, 0x54, dst, src) }

// UcomissRegReg/UcomisdRegReg emit unordered scalar compares (0F 2E /r),
// the lowering target for AArch64 FCMP; the resulting ZF/PF/CF triple
// maps onto the AArch64 FP condition codes the same way the host FPU
// already defines them.
func UcomissRegReg(buf *buffer.Buffer, a, b XReg) { emitSSEPrefixed(buf, 0, 0x0F, 0x2E, a, b) }
func UcomisdRegReg(buf *buffer.Buffer, a, b XReg) { emitSSEPrefixed(buf, 0x66, 0x0F, 0x2E, a, b) }

// CvtsiToSs/Sd and CvttssToSi/CvttsdToSi implement the scalar
// integer<->float conversions AArch64 SCVTF/FCVTZS need; the REX.W bit
// selects the 32- vs 64-bit integer side independent of the SS/SD
// selection of the float side.
func CvtsiToSs(buf *buffer.Buffer, dst XReg, src Reg, w Width) {
	buf.EmitByte(prefixSS)
	emitRexIfNeeded(buf, w.is64(), dst, src)
	buf.EmitByte(0x0F)
	buf.EmitByte(0x2A)
	buf.EmitByte(modrm(modDirect, byte(dst), byte(src)))
}

func CvtsiToSd(buf *buffer.Buffer, dst XReg, src Reg, w Width) {
	buf.EmitByte(prefixSD)
	emitRexIfNeeded(buf, w.is64(), dst, src)
	buf.EmitByte(0x0F)
	buf.EmitByte(0x2A)
	buf.EmitByte(modrm(modDirect, byte(dst), byte(src)))
}

func CvttssToSi(buf *buffer.Buffer, dst Reg, src XReg, w Width) {
	buf.EmitByte(prefixSS)
	emitRexIfNeeded(buf, w.is64(), dst, src)
	buf.EmitByte(0x0F)
	buf.EmitByte(0x2C)
	buf.EmitByte(modrm(modDirect, byte(dst), byte(src)))
}

func CvttsdToSi(buf *buffer.Buffer, dst Reg, src XReg, w Width) {
	buf.EmitByte(prefixSD)
	emitRexIfNeeded(buf, w.is64(), dst, src)
	buf.EmitByte(0x0F)
	buf.EmitByte(0x2C)
	buf.EmitByte(modrm(modDirect, byte(dst), byte(src)))
}

// MovqXToGpr/MovqGprToX move a raw 64-bit pattern between a GPR and the
// low 64 bits of an xmm register (66 REX.W 0F 7E / 66 REX.W 0F 6E),
// which backs FMOV between X and V registers without going through
// memory.
func MovqGprToX(buf *buffer.Buffer, dst XReg, src Reg) {
	buf.EmitByte(0x66)
	buf.EmitByte(rex(true, needsRexBit(dst), false, needsRexBit(src)))
	buf.EmitByte(0x0F)
	buf.EmitByte(0x6E)
	buf.EmitByte(modrm(modDirect, byte(dst), byte(src)))
}

func MovqXToGpr(buf *buffer.Buffer, dst Reg, src XReg) {
	buf.EmitByte(0x66)
	buf.EmitByte(rex(true, needsRexBit(src), false, needsRexBit(dst)))
	buf.EmitByte(0x0F)
	buf.EmitByte(0x7E)
	buf.EmitByte(modrm(modDirect, byte(src), byte(dst)))
}
