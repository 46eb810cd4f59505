package xlate

import (
	"github.com/arm64x86/dbt/internal/buffer"
	"github.com/arm64x86/dbt/internal/decoder"
	"github.com/arm64x86/dbt/internal/emitter"
)

// translateALU lowers the register-register and register-immediate
// ALU/compare families (ADD/SUB/AND/ORR/EOR and their flag-setting and
// NOT-operand variants) through a uniform load-compute-store shape: Rn
// (and Rm, if present) are staged into scratch host registers, the
// operation runs there, and the result is committed back to Rd's slot in
// guest state, all addressed through the context pointer so no guest
// register occupies a host register across instructions.
func (t *Translator) translateALU(buf *buffer.Buffer, d decoder.Decoded) error {
	w := width(d)

	switch d.Mnemonic {
	case "ADD", "ADDS", "CMN":
		if d.ImmSrc {
			ldSP(buf, emitter.RAX, d.Rn, w)
		} else {
			ldX(buf, emitter.RAX, d.Rn, w)
		}
		t.stageOperand(buf, emitter.RCX, d, w)
		emitter.AddRegReg(buf, emitter.RAX, emitter.RCX, w)
		if d.Mnemonic != "CMN" {
			if d.ImmSrc {
				stSP(buf, d.Rd, emitter.RAX, w)
			} else {
				stX(buf, d.Rd, emitter.RAX, w)
			}
		}
		if d.Mnemonic != "ADD" {
			t.emitCaptureNZCV(buf, false)
		}
		return nil

	case "SUB", "SUBS", "CMP":
		if d.ImmSrc {
			ldSP(buf, emitter.RAX, d.Rn, w)
		} else {
			ldX(buf, emitter.RAX, d.Rn, w)
		}
		t.stageOperand(buf, emitter.RCX, d, w)
		emitter.SubRegReg(buf, emitter.RAX, emitter.RCX, w)
		if d.Mnemonic != "CMP" {
			if d.ImmSrc {
				stSP(buf, d.Rd, emitter.RAX, w)
			} else {
				stX(buf, d.Rd, emitter.RAX, w)
			}
		}
		if d.Mnemonic != "SUB" {
			t.emitCaptureNZCV(buf, true)
		}
		return nil

	case "AND", "ANDS", "TST":
		ldX(buf, emitter.RAX, d.Rn, w)
		t.stageOperand(buf, emitter.RCX, d, w)
		emitter.AndRegReg(buf, emitter.RAX, emitter.RCX, w)
		if d.Mnemonic != "TST" {
			stX(buf, d.Rd, emitter.RAX, w)
		}
		if d.Mnemonic != "AND" {
			t.emitLogicalFlags(buf)
		}
		return nil

	case "ORR", "MOV":
		// Both aliases decode with Rn==31 (XZR), so the plain OR-with-zero
		// path below already reproduces MOV's register/immediate copy.
		ldX(buf, emitter.RAX, d.Rn, w)
		t.stageOperand(buf, emitter.RCX, d, w)
		emitter.OrRegReg(buf, emitter.RAX, emitter.RCX, w)
		stX(buf, d.Rd, emitter.RAX, w)
		return nil

	case "EOR":
		ldX(buf, emitter.RAX, d.Rn, w)
		t.stageOperand(buf, emitter.RCX, d, w)
		emitter.XorRegReg(buf, emitter.RAX, emitter.RCX, w)
		stX(buf, d.Rd, emitter.RAX, w)
		return nil

	case "BIC", "BICS":
		ldX(buf, emitter.RCX, d.Rm, w)
		applyShift(buf, emitter.RCX, d, w)
		emitter.NotReg(buf, emitter.RCX, w)
		ldX(buf, emitter.RAX, d.Rn, w)
		emitter.AndRegReg(buf, emitter.RAX, emitter.RCX, w)
		stX(buf, d.Rd, emitter.RAX, w)
		if d.Mnemonic == "BICS" {
			t.emitLogicalFlags(buf)
		}
		return nil

	case "ORN":
		ldX(buf, emitter.RCX, d.Rm, w)
		applyShift(buf, emitter.RCX, d, w)
		emitter.NotReg(buf, emitter.RCX, w)
		ldX(buf, emitter.RAX, d.Rn, w)
		emitter.OrRegReg(buf, emitter.RAX, emitter.RCX, w)
		stX(buf, d.Rd, emitter.RAX, w)
		return nil

	case "EON":
		ldX(buf, emitter.RCX, d.Rm, w)
		applyShift(buf, emitter.RCX, d, w)
		emitter.NotReg(buf, emitter.RCX, w)
		ldX(buf, emitter.RAX, d.Rn, w)
		emitter.XorRegReg(buf, emitter.RAX, emitter.RCX, w)
		stX(buf, d.Rd, emitter.RAX, w)
		return nil

	default:
		return &UnsupportedError{Mnemonic: d.Mnemonic, Raw: d.Raw}
	}
}

// stageOperand loads the instruction's second source -- an immediate or
// Rm with its shift applied -- into dst.
func (t *Translator) stageOperand(buf *buffer.Buffer, dst emitter.Reg, d decoder.Decoded, w emitter.Width) {
	if d.ImmSrc {
		emitter.MovImm64(buf, dst, uint64(d.Imm))
		return
	}
	ldX(buf, dst, d.Rm, w)
	applyShift(buf, dst, d, w)
}

// applyShift rewrites reg in place by d's shift/rotate amount, matching
// the shifted-register ALU encodings' Amt/Shift fields.
func applyShift(buf *buffer.Buffer, reg emitter.Reg, d decoder.Decoded, w emitter.Width) {
	if d.Amt == 0 {
		return
	}
	switch d.Shift {
	case decoder.ShiftLSL:
		emitter.ShiftByImm8(buf, emitter.ShiftSHL, reg, d.Amt, w)
	case decoder.ShiftLSR:
		emitter.ShiftByImm8(buf, emitter.ShiftSHR, reg, d.Amt, w)
	case decoder.ShiftASR:
		emitter.ShiftByImm8(buf, emitter.ShiftSAR, reg, d.Amt, w)
	case decoder.ShiftROR:
		emitter.ShiftByImm8(buf, emitter.ShiftROR, reg, d.Amt, w)
	}
}

// translateMoveWide lowers MOVZ/MOVN/MOVK.
func (t *Translator) translateMoveWide(buf *buffer.Buffer, d decoder.Decoded) error {
	w := width(d)
	switch d.Mnemonic {
	case "MOVZ":
		emitter.MovImm32(buf, emitter.RAX, uint32(d.Imm)<<d.Amt)
		stX(buf, d.Rd, emitter.RAX, w)
	case "MOVN":
		v := uint64(d.Imm) << d.Amt
		if w == emitter.Width32 {
			v = uint64(uint32(^v))
		} else {
			v = ^v
		}
		emitter.MovImm64(buf, emitter.RAX, v)
		stX(buf, d.Rd, emitter.RAX, w)
	case "MOVK":
		ldX(buf, emitter.RAX, d.Rd, w)
		mask := uint64(0xFFFF) << d.Amt
		emitter.MovImm64(buf, emitter.RCX, ^mask)
		emitter.AndRegReg(buf, emitter.RAX, emitter.RCX, w)
		emitter.MovImm64(buf, emitter.RCX, uint64(d.Imm)<<d.Amt)
		emitter.OrRegReg(buf, emitter.RAX, emitter.RCX, w)
		stX(buf, d.Rd, emitter.RAX, w)
	default:
		return &UnsupportedError{Mnemonic: d.Mnemonic, Raw: d.Raw}
	}
	return nil
}
