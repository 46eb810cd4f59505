package emitter

import "github.com/arm64x86/dbt/internal/buffer"

// Width selects the operand size an emitter targets: 32-bit operations
// implicitly zero the upper 32 bits of the destination, matching both the
// x86_64 and the AArch64 W-register conventions, so translators pick
// Width32 for AArch64 32-bit (W) forms and Width64 for X forms.
type Width uint8

const (
	Width32 Width = 32
	Width64 Width = 64
)

func (w Width) is64() bool { return w == Width64 }

// MovRegReg emits MOV dst, src (REX.W + 0x89 /r).
func MovRegReg(buf *buffer.Buffer, dst, src Reg, w Width) {
	emitRexIfNeeded(buf, w.is64(), src, dst)
	buf.EmitByte(0x89)
	buf.EmitByte(modrm(modDirect, byte(src), byte(dst)))
}

// MovImm32 emits MOV dst, imm32, zero-extending into the 64-bit register.
func MovImm32(buf *buffer.Buffer, dst Reg, imm uint32) {
	if needsRexBit(dst) {
		buf.EmitByte(rex(false, false, false, true))
	}
	buf.EmitByte(0xB8 + byte(dst&7))
	buf.EmitWord32(imm)
}

// MovImm64 emits the 10-byte REX.W + B8+r movabs form.
func MovImm64(buf *buffer.Buffer, dst Reg, imm uint64) {
	buf.EmitByte(rex(true, false, false, needsRexBit(dst)))
	buf.EmitByte(0xB8 + byte(dst&7))
	buf.EmitWord64(imm)
}

// aluOp is one ADD/SUB/AND/OR/XOR/CMP-family reg,reg opcode pair: the /r
// opcode used with a register operand and the /digit ModRM extension used
// with the immediate forms (see aluImm32).
type aluOp struct {
	regOpcode byte // e.g. 0x01 for ADD r/m, r
	immDigit  byte // ModRM reg field when r/m, imm32 form is used
}

var (
	aluADD = aluOp{0x01, 0}
	aluOR  = aluOp{0x09, 1}
	aluAND = aluOp{0x21, 4}
	aluSUB = aluOp{0x29, 5}
	aluXOR = aluOp{0x31, 6}
	aluCMP = aluOp{0x39, 7}
)

func emitAluRegReg(buf *buffer.Buffer, op aluOp, dst, src Reg, w Width) {
	emitRexIfNeeded(buf, w.is64(), src, dst)
	buf.EmitByte(op.regOpcode)
	buf.EmitByte(modrm(modDirect, byte(src), byte(dst)))
}

func emitAluRegImm32(buf *buffer.Buffer, op aluOp, dst Reg, imm uint32, w Width) {
	emitRexIfNeeded(buf, w.is64(), 0, dst)
	buf.EmitByte(0x81)
	buf.EmitByte(modrm(modDirect, op.immDigit, byte(dst)))
	buf.EmitWord32(imm)
}

func AddRegReg(buf *buffer.Buffer, dst, src Reg, w Width) { emitAluRegReg(buf, aluADD, dst, src, w) }
func SubRegReg(buf *buffer.Buffer, dst, src Reg, w Width) { emitAluRegReg(buf, aluSUB, dst, src, w) }
func AndRegReg(buf *buffer.Buffer, dst, src Reg, w Width) { emitAluRegReg(buf, aluAND, dst, src, w) }
func OrRegReg(buf *buffer.Buffer, dst, src Reg, w Width)  { emitAluRegReg(buf, aluOR, dst, src, w) }
func XorRegReg(buf *buffer.Buffer, dst, src Reg, w Width) { emitAluRegReg(buf, aluXOR, dst, src, w) }
func CmpRegReg(buf *buffer.Buffer, a, b Reg, w Width)     { emitAluRegReg(buf, aluCMP, a, b, w) }

func AddRegImm32(buf *buffer.Buffer, dst Reg, imm uint32, w Width) {
	emitAluRegImm32(buf, aluADD, dst, imm, w)
}
func SubRegImm32(buf *buffer.Buffer, dst Reg, imm uint32, w Width) {
	emitAluRegImm32(buf, aluSUB, dst, imm, w)
}
func AndRegImm32(buf *buffer.Buffer, dst Reg, imm uint32, w Width) {
	emitAluRegImm32(buf, aluAND, dst, imm, w)
}
func OrRegImm32(buf *buffer.Buffer, dst Reg, imm uint32, w Width) {
	emitAluRegImm32(buf, aluOR, dst, imm, w)
}
func XorRegImm32(buf *buffer.Buffer, dst Reg, imm uint32, w Width) {
	emitAluRegImm32(buf, aluXOR, dst, imm, w)
}
func CmpRegImm32(buf *buffer.Buffer, dst Reg, imm uint32, w Width) {
	emitAluRegImm32(buf, aluCMP, dst, imm, w)
}

// NotReg emits NOT dst (F7 /2), a one's complement matching
// AArch64 ORN/BIC/MVN lowering through De Morgan rewrites in the
// translators.
func NotReg(buf *buffer.Buffer, dst Reg, w Width) {
	emitRexIfNeeded(buf, w.is64(), 0, dst)
	buf.EmitByte(0xF7)
	buf.EmitByte(modrm(modDirect, 2, byte(dst)))
}

// NegReg emits NEG dst (F7 /3), used for AArch64 SUB with a zero left
// operand and for building conditional-negate (CSNEG) sequences.
func NegReg(buf *buffer.Buffer, dst Reg, w Width) {
	emitRexIfNeeded(buf, w.is64(), 0, dst)
	buf.EmitByte(0xF7)
	buf.EmitByte(modrm(modDirect, 3, byte(dst)))
}

// IMulRegReg emits the two-byte-opcode IMUL dst, src form (0F AF /r),
// covering AArch64 MUL/MADD/MNEG once the accumulate/negate is folded in
// by the caller.
func IMulRegReg(buf *buffer.Buffer, dst, src Reg, w Width) {
	emitRexIfNeeded(buf, w.is64(), dst, src)
	buf.EmitByte(0x0F)
	buf.EmitByte(0xAF)
	buf.EmitByte(modrm(modDirect, byte(dst), byte(src)))
}

// ShiftOp selects the ModRM /digit extension for the shift-group
// opcodes, shared by the shift-by-imm8 form (C1 /digit ib) and the
// shift-by-CL form (D3 /digit).
type ShiftOp byte

const (
	ShiftSHL ShiftOp = 4
	ShiftSHR ShiftOp = 5 // logical right
	ShiftSAR ShiftOp = 7 // arithmetic right
	ShiftROL ShiftOp = 0
	ShiftROR ShiftOp = 1
)

// ShiftByCL emits dst <<|>> CL (D3 /digit), requiring the shift count to
// already be staged in CL (RCX low byte) by the caller.
func ShiftByCL(buf *buffer.Buffer, op ShiftOp, dst Reg, w Width) {
	emitRexIfNeeded(buf, w.is64(), 0, dst)
	buf.EmitByte(0xD3)
	buf.EmitByte(modrm(modDirect, byte(op), byte(dst)))
}

// ShiftByImm8 emits dst <<|>> imm8 (C1 /digit ib).
func ShiftByImm8(buf *buffer.Buffer, op ShiftOp, dst Reg, imm uint8, w Width) {
	emitRexIfNeeded(buf, w.is64(), 0, dst)
	buf.EmitByte(0xC1)
	buf.EmitByte(modrm(modDirect, byte(op), byte(dst)))
	buf.EmitByte(imm)
}

// TestRegReg emits TEST a, b (0x85 /r) -- used to synthesize AArch64 TBZ
// and ANDS-with-no-writeback without clobbering either operand.
func TestRegReg(buf *buffer.Buffer, a, b Reg, w Width) {
	emitRexIfNeeded(buf, w.is64(), b, a)
	buf.EmitByte(0x85)
	buf.EmitByte(modrm(modDirect, byte(b), byte(a)))
}

// BTImm emits BT dst, imm8 (0F BA /4 ib), setting CF to bit `imm` of dst;
// this backs TBZ/TBNZ translation directly instead of a shift+test pair.
func BTImm(buf *buffer.Buffer, dst Reg, imm uint8, w Width) {
	emitRexIfNeeded(buf, w.is64(), 0, dst)
	buf.EmitByte(0x0F)
	buf.EmitByte(0xBA)
	buf.EmitByte(modrm(modDirect, 4, byte(dst)))
	buf.EmitByte(imm)
}

// MovzxByte/MovzxWord implement AArch64 UXTB/UXTH; MovsxByte/MovsxWord/
// MovsxDword implement SXTB/SXTH/SXTW.
func MovzxByte(buf *buffer.Buffer, dst, src Reg, w Width) {
	emitRexIfNeeded(buf, w.is64(), dst, src)
	buf.EmitByte(0x0F)
	buf.EmitByte(0xB6)
	buf.EmitByte(modrm(modDirect, byte(dst), byte(src)))
}

func MovzxWord(buf *buffer.Buffer, dst, src Reg, w Width) {
	emitRexIfNeeded(buf, w.is64(), dst, src)
	buf.EmitByte(0x0F)
	buf.EmitByte(0xB7)
	buf.EmitByte(modrm(modDirect, byte(dst), byte(src)))
}

func MovsxByte(buf *buffer.Buffer, dst, src Reg, w Width) {
	emitRexIfNeeded(buf, w.is64(), dst, src)
	buf.EmitByte(0x0F)
	buf.EmitByte(0xBE)
	buf.EmitByte(modrm(modDirect, byte(dst), byte(src)))
}

func MovsxWord(buf *buffer.Buffer, dst, src Reg, w Width) {
	emitRexIfNeeded(buf, w.is64(), dst, src)
	buf.EmitByte(0x0F)
	buf.EmitByte(0xBF)
	buf.EmitByte(modrm(modDirect, byte(dst), byte(src)))
}

// MovsxDword emits the REX.W MOVSXD dst, src (0x63 /r) used for AArch64
// SXTW and for any W-register result that must sign-extend into X.
func MovsxDword(buf *buffer.Buffer, dst, src Reg) {
	buf.EmitByte(rex(true, needsRexBit(dst), false, needsRexBit(src)))
	buf.EmitByte(0x63)
	buf.EmitByte(modrm(modDirect, byte(dst), byte(src)))
}

// LeaRegMem emits LEA dst, [base+disp32], used both for address
// computation and as a non-flag-clobbering three-operand add idiom.
func LeaRegMem(buf *buffer.Buffer, dst, base Reg, disp int32, w Width) {
	emitRexIfNeeded(buf, w.is64(), dst, base)
	buf.EmitByte(0x8D)
	if base&7 == 4 { // RSP/R12 require a SIB byte
		buf.EmitByte(modrm(modDisp32, byte(dst), 4))
		buf.EmitByte(0x24)
	} else {
		buf.EmitByte(modrm(modDisp32, byte(dst), byte(base)))
	}
	d := le32(disp)
	buf.EmitBytes(d[:])
}

// LoadMem/StoreMem emit MOV reg, [base+disp32] and MOV [base+disp32], reg
// in byte/word/dword/qword forms, covering AArch64 LDR/STR/LDUR/STUR
// after address computation has produced the host base register.
func LoadMem(buf *buffer.Buffer, dst, base Reg, disp int32, size uint8) {
	emitMemOp(buf, dst, base, disp, size, true, false)
}

func StoreMem(buf *buffer.Buffer, src, base Reg, disp int32, size uint8) {
	emitMemOp(buf, src, base, disp, size, false, false)
}

// LoadMemSigned emits a sign-extending load (MOVSX/MOVSXD) for sizes < 8.
func LoadMemSigned(buf *buffer.Buffer, dst, base Reg, disp int32, size uint8) {
	emitMemOp(buf, dst, base, disp, size, true, true)
}

func emitMemOp(buf *buffer.Buffer, reg, base Reg, disp int32, size uint8, isLoad, signed bool) {
	w := size == 8
	needsSIB := base&7 == 4
	switch size {
	case 1:
		if isLoad && signed {
			emitRexIfNeeded(buf, false, reg, base)
			buf.EmitByte(0x0F)
			buf.EmitByte(0xBE)
		} else if isLoad {
			emitRexIfNeeded(buf, false, reg, base)
			buf.EmitByte(0x0F)
			buf.EmitByte(0xB6)
		} else {
			emitRexIfNeeded(buf, false, reg, base)
			buf.EmitByte(0x88)
		}
	case 2:
		buf.EmitByte(0x66)
		if isLoad && signed {
			emitRexIfNeeded(buf, false, reg, base)
			buf.EmitByte(0x0F)
			buf.EmitByte(0xBF)
		} else if isLoad {
			emitRexIfNeeded(buf, false, reg, base)
			buf.EmitByte(0x0F)
			buf.EmitByte(0xB7)
		} else {
			emitRexIfNeeded(buf, false, reg, base)
			buf.EmitByte(0x89)
		}
	case 4:
		if isLoad && signed {
			emitRexIfNeeded(buf, true, reg, base)
			buf.EmitByte(0x63)
		} else if isLoad {
			emitRexIfNeeded(buf, false, reg, base)
			buf.EmitByte(0x8B)
		} else {
			emitRexIfNeeded(buf, false, reg, base)
			buf.EmitByte(0x89)
		}
	default: // 8
		emitRexIfNeeded(buf, w, reg, base)
		if isLoad {
			buf.EmitByte(0x8B)
		} else {
			buf.EmitByte(0x89)
		}
	}

	if disp == 0 && base&7 != 5 {
		if needsSIB {
			buf.EmitByte(modrm(modDisp0, byte(reg), 4))
			buf.EmitByte(0x24)
		} else {
			buf.EmitByte(modrm(modDisp0, byte(reg), byte(base)))
		}
		return
	}
	if disp >= -128 && disp <= 127 {
		if needsSIB {
			buf.EmitByte(modrm(modDisp8, byte(reg), 4))
			buf.EmitByte(0x24)
		} else {
			buf.EmitByte(modrm(modDisp8, byte(reg), byte(base)))
		}
		buf.EmitByte(byte(disp))
		return
	}
	if needsSIB {
		buf.EmitByte(modrm(modDisp32, byte(reg), 4))
		buf.EmitByte(0x24)
	} else {
		buf.EmitByte(modrm(modDisp32, byte(reg), byte(base)))
	}
	d := le32(disp)
	buf.EmitBytes(d[:])
}
