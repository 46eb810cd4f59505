package xlate

import (
	"github.com/arm64x86/dbt/internal/buffer"
	"github.com/arm64x86/dbt/internal/decoder"
	"github.com/arm64x86/dbt/internal/emitter"
	"github.com/arm64x86/dbt/internal/guest"
)

// translateBranch lowers unconditional, conditional, compare-and-branch,
// test-and-branch, and register-indirect branches. Every form commits
// its resolved absolute target PC into RAX before returning, which ends
// the block: the cache layer reads RAX-equivalent exit metadata to
// decide the next lookup rather than re-entering the dispatcher blind.
func (t *Translator) translateBranch(buf *buffer.Buffer, d decoder.Decoded, pc uint64) error {
	switch d.Mnemonic {
	case "B":
		emitter.MovImm64(buf, emitter.RAX, pc+uint64(d.PCRelOffset))
		emitter.Ret(buf)
		return nil

	case "BL":
		emitter.MovImm64(buf, emitter.RCX, pc+4)
		stX(buf, 30, emitter.RCX, emitter.Width64)
		emitter.MovImm64(buf, emitter.RAX, pc+uint64(d.PCRelOffset))
		emitter.Ret(buf)
		return nil

	case "BR", "RET":
		ldX(buf, emitter.RAX, d.Rn, emitter.Width64)
		emitter.Ret(buf)
		return nil

	case "BLR":
		ldX(buf, emitter.RAX, d.Rn, emitter.Width64) // stage target before clobbering RCX
		emitter.MovImm64(buf, emitter.RCX, pc+4)
		stX(buf, 30, emitter.RCX, emitter.Width64)
		emitter.Ret(buf)
		return nil

	case "B.cond":
		return t.emitCondTarget(buf, d.Cond, d, pc)

	case "CBZ", "CBNZ":
		w := emitter.Width64
		if d.Is32 {
			w = emitter.Width32
		}
		ldX(buf, emitter.RCX, d.Rn, w)
		emitter.CmpRegImm32(buf, emitter.RCX, 0, w)
		cc := emitter.CCE
		if d.Mnemonic == "CBNZ" {
			cc = emitter.CCNE
		}
		return t.emitSelectedTarget(buf, cc, d, pc)

	case "TBZ", "TBNZ":
		ldX(buf, emitter.RCX, d.Rn, emitter.Width64)
		emitter.BTImm(buf, emitter.RCX, d.TestBit, emitter.Width64)
		cc := emitter.CCAE // CF=0: tested bit was 0
		if d.Mnemonic == "TBNZ" {
			cc = emitter.CCB
		}
		return t.emitSelectedTarget(buf, cc, d, pc)

	default:
		return &UnsupportedError{PC: pc, Mnemonic: d.Mnemonic, Raw: d.Raw}
	}
}

func (t *Translator) emitCondTarget(buf *buffer.Buffer, c guest.Cond, d decoder.Decoded, pc uint64) error {
	ps := emitter.Scratch1
	emitter.LoadMem(buf, ps, ctxReg, int32(guest.OffsetPSTATE()), 4)
	testNZCVBit(buf, ps, c)
	return t.emitSelectedTarget(buf, condToHostCC(c), d, pc)
}

// emitSelectedTarget emits RAX = cc ? target : fallthrough and returns.
func (t *Translator) emitSelectedTarget(buf *buffer.Buffer, cc emitter.CC, d decoder.Decoded, pc uint64) error {
	emitter.MovImm64(buf, emitter.RAX, pc+4)
	emitter.MovImm64(buf, emitter.RCX, pc+uint64(d.PCRelOffset))
	emitter.CMovRegReg(buf, cc, emitter.RAX, emitter.RCX, emitter.Width64)
	emitter.Ret(buf)
	return nil
}

// nzcvTemp picks the one scratch register testNZCVBit needs beyond ps:
// the call sites that pass Scratch1 use RAX/RCX for the CMOV that
// follows (CSEL has both arms loaded already), and the FCSEL call site that passes Scratch2 still has
// xmm0/xmm1 staged, so the composite math is confined to R13/R14.
func nzcvTemp(ps emitter.Reg) emitter.Reg {
	if ps == emitter.Scratch1 {
		return emitter.Scratch2
	}
	return emitter.Scratch1
}

// testNZCVBit evaluates guest condition c against the PSTATE word already
// loaded into ps and leaves ZF clear in EFLAGS when c holds, set when it
// doesn't. EQ/NE/MI/PL/VS/VC/CS/CC read a single flag bit directly; HI/LS
// and the signed GE/LT/GT/LE family compare two flag bits exactly as
// guest.EvaluateCondition does, by shifting a second copy of ps so the
// two bits line up and combining them with the usual bitwise ops -- ps
// and one scratch register are all the call sites can spare, so the two
// flags are never materialized as separate 0/1 values at the same time.
func testNZCVBit(buf *buffer.Buffer, ps emitter.Reg, c guest.Cond) {
	const w = emitter.Width32
	tmp := nzcvTemp(ps)

	// align sets tmp = ps >> n, leaving ps untouched.
	align := func(n uint8) {
		emitter.MovRegReg(buf, tmp, ps, w)
		emitter.ShiftByImm8(buf, emitter.ShiftSHR, tmp, n, w)
	}
	// finalize tests ps's bit at pos and materializes it as 0/1 in tmp.
	finalize := func(pos uint8) {
		emitter.XorRegReg(buf, tmp, tmp, w) // before BT: XOR clears CF
		emitter.BTImm(buf, ps, pos, w)
		emitter.SetCC(buf, emitter.CCB, tmp)
	}
	invert := func() { emitter.XorRegImm32(buf, tmp, 1, w) }

	switch c {
	case guest.CondEQ:
		finalize(30) // Z
	case guest.CondNE:
		finalize(30)
		invert()
	case guest.CondCS:
		finalize(29) // C
	case guest.CondCC:
		finalize(29)
		invert()
	case guest.CondMI:
		finalize(31) // N
	case guest.CondPL:
		finalize(31)
		invert()
	case guest.CondVS:
		finalize(28) // V
	case guest.CondVC:
		finalize(28)
		invert()

	case guest.CondHI, guest.CondLS: // C && !Z
		align(1)             // tmp bit29 = Z
		emitter.NotReg(buf, tmp, w)
		emitter.AndRegReg(buf, ps, tmp, w) // ps bit29 = C && !Z
		finalize(29)
		if c == guest.CondLS {
			invert()
		}

	case guest.CondGE, guest.CondLT: // N == V / N != V
		align(3) // tmp bit28 = N
		emitter.XorRegReg(buf, ps, tmp, w) // ps bit28 = N ^ V
		if c == guest.CondGE {
			emitter.NotReg(buf, ps, w) // ps bit28 = N == V
		}
		finalize(28)

	case guest.CondGT, guest.CondLE: // (N == V) && !Z
		align(3)
		emitter.XorRegReg(buf, ps, tmp, w) // ps bit28 = N ^ V, ps bit30 still Z
		emitter.NotReg(buf, ps, w)         // ps bit28 = N == V, ps bit30 = !Z
		align(2)                           // tmp bit28 = ps bit30 = !Z
		emitter.AndRegReg(buf, ps, tmp, w) // ps bit28 = (N == V) && !Z
		finalize(28)
		if c == guest.CondLE {
			invert()
		}

	default: // AL, NV: always taken
		emitter.XorRegReg(buf, tmp, tmp, w)
		invert()
	}
	emitter.TestRegReg(buf, tmp, tmp, w)
}

// condToHostCC reads the boolean testNZCVBit leaves behind: it always
// runs a TEST of a 0/1 result, so the guest condition holding is always
// signaled by CCNE regardless of which AArch64 condition c was.
func condToHostCC(c guest.Cond) emitter.CC {
	return emitter.CCNE
}
