package xlate

import (
	"github.com/arm64x86/dbt/internal/buffer"
	"github.com/arm64x86/dbt/internal/decoder"
	"github.com/arm64x86/dbt/internal/emitter"
	"github.com/arm64x86/dbt/internal/guest"
)

// translateSystem lowers the system-instruction class: hints fold to a
// host NOP or fence, exception generation and UDF fold to a trap the
// dispatcher recognizes by exit code, and the known MRS/MSR registers
// move directly between a GPR slot and their dedicated State field.
func (t *Translator) translateSystem(buf *buffer.Buffer, d decoder.Decoded) error {
	switch d.Mnemonic {
	case "NOP", "YIELD", "SEV", "SEVL":
		emitter.Nop(buf)
		return nil
	case "WFE", "WFI":
		emitter.Nop(buf) // no host equivalent of waiting for an event; treated as a no-op
		return nil
	case "DMB", "DSB":
		emitter.MFence(buf)
		return nil
	case "ISB":
		emitter.LFence(buf)
		return nil
	case "SVC", "HVC", "SMC", "BRK", "HLT":
		// Exit the block immediately with a trap sentinel PC (see
		// trapSentinel) so the dispatcher can recognize a trap without a
		// separate out-of-band signal.
		emitter.MovImm64(buf, emitter.RAX, trapSentinel(d))
		emitter.Ret(buf)
		return nil
	case "UDF":
		emitter.UD2(buf)
		return nil
	case "MRS_FPCR":
		emitter.LoadMem(buf, emitter.RAX, ctxReg, int32(guest.OffsetFPCR()), 4)
		stX(buf, d.Rd, emitter.RAX, emitter.Width64)
		return nil
	case "MSR_FPCR":
		ldX(buf, emitter.RAX, d.Rd, emitter.Width64)
		emitter.StoreMem(buf, emitter.RAX, ctxReg, int32(guest.OffsetFPCR()), 4)
		return nil
	case "MRS_FPSR":
		emitter.LoadMem(buf, emitter.RAX, ctxReg, int32(guest.OffsetFPSR()), 4)
		stX(buf, d.Rd, emitter.RAX, emitter.Width64)
		return nil
	case "MSR_FPSR":
		ldX(buf, emitter.RAX, d.Rd, emitter.Width64)
		emitter.StoreMem(buf, emitter.RAX, ctxReg, int32(guest.OffsetFPSR()), 4)
		return nil
	case "MRS_TPIDR_EL0":
		emitter.LoadMem(buf, emitter.RAX, ctxReg, int32(guest.OffsetTPIDRURO()), 8)
		stX(buf, d.Rd, emitter.RAX, emitter.Width64)
		return nil
	case "MSR_TPIDR_EL0":
		ldX(buf, emitter.RAX, d.Rd, emitter.Width64)
		emitter.StoreMem(buf, emitter.RAX, ctxReg, int32(guest.OffsetTPIDRURO()), 8)
		return nil
	case "MRS_CNTVCT_EL0", "MRS_CNTFRQ_EL0":
		// No host-visible virtual counter is wired up; zero is a safe,
		// documented stand-in rather than reading the host TSC, since guest
		// code that times against it would otherwise observe host-speed
		// variance the architecture never promises.
		emitter.XorRegReg(buf, emitter.RAX, emitter.RAX, emitter.Width64)
		stX(buf, d.Rd, emitter.RAX, emitter.Width64)
		return nil
	default:
		return &UnsupportedError{Mnemonic: d.Mnemonic, Raw: d.Raw}
	}
}

// trapSentinel builds a guest address no real AArch64 program can
// legitimately branch to: the upper 32 bits are all ones, the exception
// class sits at bit 16 and up, and the low 16 bits carry the
// instruction's immediate. This lets
// the dispatcher distinguish a normal block-chaining exit from a guest
// trap without threading a second return value through the funcval
// call boundary.
func trapSentinel(d decoder.Decoded) uint64 {
	var class uint64
	switch d.Mnemonic {
	case "SVC":
		class = 1
	case "HVC":
		class = 2
	case "SMC":
		class = 3
	case "BRK":
		class = 4
	case "HLT":
		class = 5
	}
	return 0xFFFFFFFF00000000 | (class << 16) | uint64(uint16(d.Imm))
}
