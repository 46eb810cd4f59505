package xlate

import (
	"github.com/arm64x86/dbt/internal/buffer"
	"github.com/arm64x86/dbt/internal/decoder"
	"github.com/arm64x86/dbt/internal/emitter"
	"github.com/arm64x86/dbt/internal/guest"
)

// translateBitfield lowers SBFM/BFM/UBFM (and the LSL/LSR/ASR aliases
// the decoder already resolves) through a shift-pair: a left shift to
// discard the bits above the field, then a left-or-right shift to
// discard the bits below it and to reposition the field, matching the
// standard "double shift" bitfield-extract idiom.
func (t *Translator) translateBitfield(buf *buffer.Buffer, d decoder.Decoded) error {
	w := width(d)
	bits := uint8(32)
	if w == emitter.Width64 {
		bits = 64
	}
	immr, imms := d.Amt, d.Amt2

	switch d.Mnemonic {
	case "LSL":
		ldX(buf, emitter.RAX, d.Rn, w)
		shiftAmt := bits - immr
		emitter.ShiftByImm8(buf, emitter.ShiftSHL, emitter.RAX, shiftAmt, w)
		stX(buf, d.Rd, emitter.RAX, w)
		return nil

	case "LSR":
		ldX(buf, emitter.RAX, d.Rn, w)
		emitter.ShiftByImm8(buf, emitter.ShiftSHR, emitter.RAX, immr, w)
		stX(buf, d.Rd, emitter.RAX, w)
		return nil

	case "ASR":
		ldX(buf, emitter.RAX, d.Rn, w)
		emitter.ShiftByImm8(buf, emitter.ShiftSAR, emitter.RAX, immr, w)
		stX(buf, d.Rd, emitter.RAX, w)
		return nil
	}

	// imms >= immr extracts Rn<imms:immr> to bit 0; imms < immr inserts
	// Rn<imms:0> at bit bits-immr.
	width, pos := imms-immr+1, uint8(0)
	if imms < immr {
		width, pos = imms+1, bits-immr
	}
	ldX(buf, emitter.RAX, d.Rn, w)
	// Isolate the field at the bottom of the register: shift left to
	// clear everything above it, then shift back right (logical or
	// arithmetic per signedness) to land it at bit 0.
	emitter.ShiftByImm8(buf, emitter.ShiftSHL, emitter.RAX, bits-imms-1, w)
	switch d.Mnemonic {
	case "SBFM":
		emitter.ShiftByImm8(buf, emitter.ShiftSAR, emitter.RAX, bits-width, w)
	default: // UBFM, BFM
		emitter.ShiftByImm8(buf, emitter.ShiftSHR, emitter.RAX, bits-width, w)
	}
	if pos != 0 {
		// Insert forms: move the field from bit 0 up to its position.
		emitter.ShiftByImm8(buf, emitter.ShiftSHL, emitter.RAX, pos, w)
	}
	if d.Mnemonic == "BFM" {
		ldX(buf, emitter.RCX, d.Rd, w)
		mask := uint64(1)<<width - 1
		mask <<= pos
		emitter.MovImm64(buf, emitter.RDX, ^mask)
		emitter.AndRegReg(buf, emitter.RCX, emitter.RDX, w)
		emitter.OrRegReg(buf, emitter.RAX, emitter.RCX, w)
	}
	stX(buf, d.Rd, emitter.RAX, w)
	return nil
}

// translateCondSelect lowers CSEL/CSINC/CSINV/CSNEG (and their CSET/
// CSETM aliases) by computing both arms and choosing between them with
// CMOVcc once the branch condition's outcome has been reduced to a
// host-flags test, the same reduction translateBranch uses.
func (t *Translator) translateCondSelect(buf *buffer.Buffer, d decoder.Decoded) error {
	w := width(d)

	ldX(buf, emitter.RAX, d.Rm, w) // "false" arm, pre-transform
	switch d.Mnemonic {
	case "CSINC", "CSET":
		emitter.AddRegImm32(buf, emitter.RAX, 1, w)
	case "CSINV", "CSETM":
		emitter.NotReg(buf, emitter.RAX, w)
	case "CSNEG":
		emitter.NegReg(buf, emitter.RAX, w)
	}

	ldX(buf, emitter.RCX, d.Rn, w) // "true" arm

	ps := emitter.Scratch1
	emitter.LoadMem(buf, ps, ctxReg, int32(guest.OffsetPSTATE()), 4)
	testNZCVBit(buf, ps, d.Cond)
	emitter.CMovRegReg(buf, condToHostCC(d.Cond), emitter.RAX, emitter.RCX, w)

	stX(buf, d.Rd, emitter.RAX, w)
	return nil
}
