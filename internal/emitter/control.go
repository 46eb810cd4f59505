package emitter

import "github.com/arm64x86/dbt/internal/buffer"

// CC is a host x86_64 condition code, used both for direct Jcc/SETcc/CMOVcc
// emission and as the translation target of an AArch64 guest.Cond.
type CC uint8

const (
	CCO  CC = 0x0
	CCNO CC = 0x1
	CCB  CC = 0x2 // CF=1 (unsigned <)
	CCAE CC = 0x3 // CF=0 (unsigned >=)
	CCE  CC = 0x4
	CCNE CC = 0x5
	CCBE CC = 0x6 // unsigned <=
	CCA  CC = 0x7 // unsigned >
	CCS  CC = 0x8
	CCNS CC = 0x9
	CCP  CC = 0xA
	CCNP CC = 0xB
	CCL  CC = 0xC // signed <
	CCGE CC = 0xD // signed >=
	CCLE CC = 0xE // signed <=
	CCG  CC = 0xF // signed >
)

// JmpRel32 emits a near unconditional jump with a placeholder 32-bit
// relative displacement and returns the buffer offset of that
// displacement field, so the caller can patch it once the target offset
// within the same code buffer is known (used for intra-block branches;
// cross-block targets instead go through the dispatch trampoline).
func JmpRel32(buf *buffer.Buffer, rel int32) int {
	buf.EmitByte(0xE9)
	at := buf.CurrentSize()
	d := le32(rel)
	buf.EmitBytes(d[:])
	return at
}

// JccRel32 emits a near conditional jump (0F 80+cc) with a placeholder
// displacement, returning its patch offset like JmpRel32.
func JccRel32(buf *buffer.Buffer, cc CC, rel int32) int {
	buf.EmitByte(0x0F)
	buf.EmitByte(0x80 + byte(cc))
	at := buf.CurrentSize()
	d := le32(rel)
	buf.EmitBytes(d[:])
	return at
}

// PatchRel32 overwrites the 4 bytes at offset `at` in buf with a
// relative displacement computed against `at+4` (the address of the
// instruction following the patched field).
func PatchRel32(buf *buffer.Buffer, at int, rel int32) {
	d := le32(rel)
	copy(buf.Bytes()[at:at+4], d[:])
}

// CallReg emits CALL dst (FF /2), used to reach the dispatch trampoline
// at the end of a translated block.
func CallReg(buf *buffer.Buffer, dst Reg) {
	if needsRexBit(dst) {
		buf.EmitByte(rex(false, false, false, true))
	}
	buf.EmitByte(0xFF)
	buf.EmitByte(modrm(modDirect, 2, byte(dst)))
}

// JmpReg emits JMP dst (FF /4), the indirect tail-jump used to chain
// directly into the next cached block when the target PC is already
// resident.
func JmpReg(buf *buffer.Buffer, dst Reg) {
	if needsRexBit(dst) {
		buf.EmitByte(rex(false, false, false, true))
	}
	buf.EmitByte(0xFF)
	buf.EmitByte(modrm(modDirect, 4, byte(dst)))
}

// Ret emits a bare RET (0xC3), the standard exit from a translated block
// invoked through the funcval trampoline.
func Ret(buf *buffer.Buffer) { buf.EmitByte(0xC3) }

// CMovRegReg emits CMOVcc dst, src (0F 40+cc /r), the direct host encoding
// for AArch64 CSEL/CSINC/CSINV/CSNEG once the increment/invert/negate has
// been folded into src by the caller.
func CMovRegReg(buf *buffer.Buffer, cc CC, dst, src Reg, w Width) {
	emitRexIfNeeded(buf, w.is64(), dst, src)
	buf.EmitByte(0x0F)
	buf.EmitByte(0x40 + byte(cc))
	buf.EmitByte(modrm(modDirect, byte(dst), byte(src)))
}

// SetCC emits SETcc dst8 (0F 90+cc /0), writing a 0/1 byte into the low
// 8 bits of dst and leaving the rest of the register untouched; callers
// that need a full-width 0/1 value follow with MovzxByte.
func SetCC(buf *buffer.Buffer, cc CC, dst Reg) {
	if needsRexBit(dst) {
		buf.EmitByte(rex(false, false, false, true))
	}
	buf.EmitByte(0x0F)
	buf.EmitByte(0x90 + byte(cc))
	buf.EmitByte(modrm(modDirect, 0, byte(dst)))
}

// PushReg/PopReg emit the single-byte 50+r/58+r forms, used by the block
// prologue/epilogue to save/restore callee-saved host registers around a
// translated block invocation.
func PushReg(buf *buffer.Buffer, r Reg) {
	if needsRexBit(r) {
		buf.EmitByte(rex(false, false, false, true))
	}
	buf.EmitByte(0x50 + byte(r&7))
}

func PopReg(buf *buffer.Buffer, r Reg) {
	if needsRexBit(r) {
		buf.EmitByte(rex(false, false, false, true))
	}
	buf.EmitByte(0x58 + byte(r&7))
}
