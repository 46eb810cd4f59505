package emitter

import "github.com/arm64x86/dbt/internal/buffer"

// Packed SSE2/SSSE3/SSE4.1 vector ops, used to lower AArch64 Advanced
// SIMD three-register-same arithmetic onto 128-bit xmm operations. Each
// emits the mandatory 0x66 prefix, an optional REX, the two- or
// three-byte opcode, and a direct-register ModRM -- a reg/reg-only
// subset; the translator loads vector operands from guest state into xmm
// registers and stores the result back for each instruction.

func emit66(buf *buffer.Buffer, dst, src XReg, opcode ...byte) {
	buf.EmitByte(0x66)
	if needsRexBit(dst) || needsRexBit(src) {
		buf.EmitByte(rex(false, needsRexBit(dst), false, needsRexBit(src)))
	}
	buf.EmitBytes(opcode)
	buf.EmitByte(modrm(modDirect, byte(dst), byte(src)))
}

// PaddB/W/D/Q and PsubB/W/D/Q cover AArch64 ADD/SUB across all four
// element widths.
func PaddB(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xFC) }
func PaddW(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xFD) }
func PaddD(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xFE) }
func PaddQ(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xD4) }
func PsubB(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xF8) }
func PsubW(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xF9) }
func PsubD(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xFA) }
func PsubQ(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xFB) }

// saturating adds/subs, covering SQADD/UQADD/SQSUB/UQSUB at byte/word
// width (the only widths SSE2 defines saturating ops for).
func PaddSB(buf *buffer.Buffer, dst, src XReg)  { emit66(buf, dst, src, 0x0F, 0xEC) }
func PaddSW(buf *buffer.Buffer, dst, src XReg)  { emit66(buf, dst, src, 0x0F, 0xED) }
func PaddUSB(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xDC) }
func PaddUSW(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xDD) }
func PsubSB(buf *buffer.Buffer, dst, src XReg)  { emit66(buf, dst, src, 0x0F, 0xE8) }
func PsubSW(buf *buffer.Buffer, dst, src XReg)  { emit66(buf, dst, src, 0x0F, 0xE9) }
func PsubUSB(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xD8) }
func PsubUSW(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xD9) }

// bitwise: AND/ANDN/OR/XOR for AArch64 AND/BIC/ORR/EOR.
func Pand(buf *buffer.Buffer, dst, src XReg)  { emit66(buf, dst, src, 0x0F, 0xDB) }
func Pandn(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xDF) }
func Por(buf *buffer.Buffer, dst, src XReg)   { emit66(buf, dst, src, 0x0F, 0xEB) }
func Pxor(buf *buffer.Buffer, dst, src XReg)  { emit66(buf, dst, src, 0x0F, 0xEF) }

// compares: CMGT/CMEQ at byte/word/dword (SSE2 has no native 64-bit
// compare; the translator falls back to a subtract+sign-test sequence
// for CMGT at 64-bit, consistent with the decoder's own documented
// approximation of the NEON space).
func PcmpgtB(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0x64) }
func PcmpgtW(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0x65) }
func PcmpgtD(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0x66) }
func PcmpeqB(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0x74) }
func PcmpeqW(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0x75) }
func PcmpeqD(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0x76) }

// signed/unsigned max/min: PmaxSW/PminSW and PmaxUB/PminUB are SSE2; the
// signed byte/dword and unsigned word/dword forms were added in SSE4.1
// (0F 38 opcode map).
func PmaxSW(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xEE) }
func PminSW(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xEA) }
func PmaxUB(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xDE) }
func PminUB(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0xDA) }

func emit660F38(buf *buffer.Buffer, dst, src XReg, opcode byte) {
	emit66(buf, dst, src, 0x0F, 0x38, opcode)
}

func PmaxSB(buf *buffer.Buffer, dst, src XReg) { emit660F38(buf, dst, src, 0x3C) }
func PminSB(buf *buffer.Buffer, dst, src XReg) { emit660F38(buf, dst, src, 0x38) }
func PmaxSD(buf *buffer.Buffer, dst, src XReg) { emit660F38(buf, dst, src, 0x3D) }
func PminSD(buf *buffer.Buffer, dst, src XReg) { emit660F38(buf, dst, src, 0x39) }
func PmaxUW(buf *buffer.Buffer, dst, src XReg) { emit660F38(buf, dst, src, 0x3E) }
func PminUW(buf *buffer.Buffer, dst, src XReg) { emit660F38(buf, dst, src, 0x3A) }
func PmaxUD(buf *buffer.Buffer, dst, src XReg) { emit660F38(buf, dst, src, 0x3F) }
func PminUD(buf *buffer.Buffer, dst, src XReg) { emit660F38(buf, dst, src, 0x3B) }

// shift-by-immediate: PsrlW/D/Q, PsllW/D/Q, PsraW/D use the /2 and /6 and
// /4 ModRM-extension immediate forms of opcode group 71/72/73, covering
// AArch64 USHR/SHL/SSHR.
func shiftImmGroup(buf *buffer.Buffer, opcode, digit byte, dst XReg, imm uint8) {
	buf.EmitByte(0x66)
	if needsRexBit(dst) {
		buf.EmitByte(rex(false, false, false, true))
	}
	buf.EmitByte(0x0F)
	buf.EmitByte(opcode)
	buf.EmitByte(modrm(modDirect, digit, byte(dst)))
	buf.EmitByte(imm)
}

func PsrlW(buf *buffer.Buffer, dst XReg, imm uint8) { shiftImmGroup(buf, 0x71, 2, dst, imm) }
func PsrlD(buf *buffer.Buffer, dst XReg, imm uint8) { shiftImmGroup(buf, 0x72, 2, dst, imm) }
func PsrlQ(buf *buffer.Buffer, dst XReg, imm uint8) { shiftImmGroup(buf, 0x73, 2, dst, imm) }
func PsllW(buf *buffer.Buffer, dst XReg, imm uint8) { shiftImmGroup(buf, 0x71, 6, dst, imm) }
func PsllD(buf *buffer.Buffer, dst XReg, imm uint8) { shiftImmGroup(buf, 0x72, 6, dst, imm) }
func PsllQ(buf *buffer.Buffer, dst XReg, imm uint8) { shiftImmGroup(buf, 0x73, 6, dst, imm) }
func PsraW(buf *buffer.Buffer, dst XReg, imm uint8) { shiftImmGroup(buf, 0x71, 4, dst, imm) }
func PsraD(buf *buffer.Buffer, dst XReg, imm uint8) { shiftImmGroup(buf, 0x72, 4, dst, imm) }

// MovdquRegReg/MovdqaRegReg move a full 128-bit vector register
// (unaligned and aligned forms).
func MovdqaRegReg(buf *buffer.Buffer, dst, src XReg) { emit66(buf, dst, src, 0x0F, 0x6F) }
func MovdquRegReg(buf *buffer.Buffer, dst, src XReg) { emitSSEPrefixed(buf, prefixSS, 0x0F, 0x6F, dst, src) }

// VexThreeOp emits a VEX-prefixed three-operand form (VEX.128.66.0F op
// /r): the two-byte C5 prefix when neither dst nor src2 is R8-R15, the
// three-byte C4 prefix otherwise. It is used when the translator targets an AVX host
// and wants dst = src1 op src2 without the destructive two-operand SSE
// convention. pp/mmmmm is fixed to 66 0F for the opcodes this module
// needs (the packed integer ops above); L is always 0 (128-bit).
func VexThreeOp(buf *buffer.Buffer, opcode byte, dst, src1, src2 XReg) {
	r := !needsRexBit(dst)
	vvvv := (^byte(src1)) & 0x0F
	b := !needsRexBit(src2)
	if r && b {
		buf.EmitByte(0xC5)
		buf.EmitByte((boolBit(r) << 7) | (vvvv << 3) | 0b01) // pp=01 (66)
	} else {
		buf.EmitByte(0xC4)
		buf.EmitByte((boolBit(r) << 7) | (boolBit(true) << 6) | (boolBit(b) << 5) | 0b00001)
		buf.EmitByte((vvvv << 3) | 0b01)
	}
	buf.EmitByte(opcode)
	buf.EmitByte(modrm(modDirect, byte(dst), byte(src2)))
}

func boolBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// VpaddD/VpsubD/VpxorReg are the AVX non-destructive equivalents of
// PaddD/PsubD/Pxor, wired in alongside the SSE forms so the translator
// can prefer the three-operand encoding when the target supports it.
func VpaddD(buf *buffer.Buffer, dst, src1, src2 XReg) { VexThreeOp(buf, 0xFE, dst, src1, src2) }
func VpsubD(buf *buffer.Buffer, dst, src1, src2 XReg) { VexThreeOp(buf, 0xFA, dst, src1, src2) }
func VpxorReg(buf *buffer.Buffer, dst, src1, src2 XReg) { VexThreeOp(buf, 0xEF, dst, src1, src2) }
