package xlate

import (
	"github.com/arm64x86/dbt/internal/buffer"
	"github.com/arm64x86/dbt/internal/emitter"
	"github.com/arm64x86/dbt/internal/guest"
)

// emitCaptureNZCV packs the host EFLAGS left by the immediately
// preceding ADD/SUB into an AArch64 NZCV word and commits it to guest
// PSTATE. It must run before anything that clobbers flags; the
// intervening register-to-memory stores the ALU translators emit are
// MOV/store instructions, which never touch EFLAGS, so the ordering the
// callers use is safe.
//
// invertSub flips the carry-flag sense: ARM's C flag after a subtraction
// means "no borrow occurred" (a>=b unsigned), the logical opposite of
// x86's CF, which is set when a borrow did occur.
func (t *Translator) emitCaptureNZCV(buf *buffer.Buffer, invertSub bool) {
	acc, tmp := emitter.Scratch1, emitter.Scratch2

	setFlagBit := func(cc emitter.CC, bitpos uint8) {
		emitter.XorRegReg(buf, tmp, tmp, emitter.Width32)
		emitter.SetCC(buf, cc, tmp)
		emitter.ShiftByImm8(buf, emitter.ShiftSHL, tmp, bitpos, emitter.Width32)
		emitter.OrRegReg(buf, acc, tmp, emitter.Width32)
	}

	emitter.XorRegReg(buf, acc, acc, emitter.Width32)
	setFlagBit(emitter.CCS, 31) // N
	setFlagBit(emitter.CCE, 30) // Z
	if invertSub {
		setFlagBit(emitter.CCAE, 29) // C: host CF=0 (no borrow) -> ARM C=1
	} else {
		setFlagBit(emitter.CCB, 29) // C: host CF=1 (carry out) -> ARM C=1
	}
	setFlagBit(emitter.CCO, 28) // V

	emitter.StoreMem(buf, acc, ctxReg, int32(guest.OffsetPSTATE()), 4)
}

// emitLogicalFlags captures N and Z from the preceding AND/TST and
// forces C and V to zero, matching the architectural definition of
// ANDS/BICS/TST (the logical group never computes a carry or overflow).
func (t *Translator) emitLogicalFlags(buf *buffer.Buffer) {
	acc, tmp := emitter.Scratch1, emitter.Scratch2
	// MOV zeroes without touching EFLAGS; both SETcc run before the
	// shifts and OR below overwrite the flags.
	emitter.MovImm32(buf, acc, 0)
	emitter.MovImm32(buf, tmp, 0)
	emitter.SetCC(buf, emitter.CCS, acc)
	emitter.SetCC(buf, emitter.CCE, tmp)
	emitter.ShiftByImm8(buf, emitter.ShiftSHL, acc, 31, emitter.Width32)
	emitter.ShiftByImm8(buf, emitter.ShiftSHL, tmp, 30, emitter.Width32)
	emitter.OrRegReg(buf, acc, tmp, emitter.Width32)
	emitter.StoreMem(buf, acc, ctxReg, int32(guest.OffsetPSTATE()), 4)
}
