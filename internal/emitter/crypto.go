package emitter

import "github.com/arm64x86/dbt/internal/buffer"

// AES-NI: the 66 0F 38 opcode map covers the encrypt/decrypt round
// steps; AESIMC uses the same map, AESKEYGENASSIST lives in 66 0F 3A.
// These back AArch64 AESE/AESD/AESMC/AESIMC directly -- the single
// domain where the guest and host instruction sets line up almost
// one-to-one, since both describe the same Rijndael round structure.
func AesEnc(buf *buffer.Buffer, dst, src XReg)     { emit660F38(buf, dst, src, 0xDC) }
func AesEncLast(buf *buffer.Buffer, dst, src XReg) { emit660F38(buf, dst, src, 0xDD) }
func AesDec(buf *buffer.Buffer, dst, src XReg)     { emit660F38(buf, dst, src, 0xDE) }
func AesDecLast(buf *buffer.Buffer, dst, src XReg) { emit660F38(buf, dst, src, 0xDF) }
func AesImc(buf *buffer.Buffer, dst, src XReg)     { emit660F38(buf, dst, src, 0xDB) }

// Pclmulqdq emits the carry-less multiply (66 0F 3A 44 /r ib); imm
// selects which 64-bit halves of dst/src are multiplied, matching the
// AArch64 PMULL/PMULL2 high/low-half selection via Q.
func Pclmulqdq(buf *buffer.Buffer, dst, src XReg, imm uint8) {
	emit66(buf, dst, src, 0x0F, 0x3A, 0x44)
	buf.EmitByte(imm)
}

// Crc32 emits the SSE4.2 CRC32 instruction (F2 0F 38 F0/F1 /r), which
// computes the Castagnoli polynomial -- directly usable for AArch64
// CRC32C but not for the plain CRC32 family, which the translator
// reports as unsupported.
func Crc32(buf *buffer.Buffer, dst, src Reg, srcSize uint8) {
	buf.EmitByte(0xF2)
	if srcSize == 2 {
		buf.EmitByte(0x66) // 16-bit source needs the operand-size override too
	}
	w := srcSize == 8
	emitRexIfNeeded(buf, w, dst, src)
	buf.EmitByte(0x0F)
	buf.EmitByte(0x38)
	if srcSize == 1 {
		buf.EmitByte(0xF0)
	} else {
		buf.EmitByte(0xF1)
	}
	buf.EmitByte(modrm(modDirect, byte(dst), byte(src)))
}
