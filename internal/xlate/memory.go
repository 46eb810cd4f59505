package xlate

import (
	"github.com/arm64x86/dbt/internal/buffer"
	"github.com/arm64x86/dbt/internal/decoder"
	"github.com/arm64x86/dbt/internal/emitter"
)

// translateMemory lowers LDR/STR/LDUR/STUR/LDP/STP in their unsigned
// immediate, unscaled, register-offset, and pre/post-indexed forms. The
// guest address computed from the base register is used directly as the
// host address (identity mapping). No bounds check is emitted, so
// out-of-range accesses are the loader's responsibility to prevent.
func (t *Translator) translateMemory(buf *buffer.Buffer, d decoder.Decoded) error {
	switch d.Mnemonic {
	case "LDXR", "LDAXR", "STXR", "STLXR":
		return t.translateExclusive(buf, d)
	}

	w := emitter.Width64
	if d.Is32 {
		w = emitter.Width32
	}

	// Compute the effective address into RDX, leaving ctxReg untouched.
	ldSP(buf, emitter.RDX, d.Rn, emitter.Width64)

	preOrUnindexed := !d.PostIndex
	if preOrUnindexed {
		if d.Imm != 0 {
			emitter.AddRegImm32(buf, emitter.RDX, uint32(d.Imm), emitter.Width64)
		}
		if len(d.Mnemonic) > 4 && d.Mnemonic[len(d.Mnemonic)-4:] == "_REG" {
			ldX(buf, emitter.RCX, d.Rm, emitter.Width64)
			emitter.AddRegReg(buf, emitter.RDX, emitter.RCX, emitter.Width64)
		}
	}

	switch d.Op {
	case decoder.OpLoad:
		if d.SignExtend {
			emitter.LoadMemSigned(buf, emitter.RAX, emitter.RDX, 0, d.Size)
			if d.Is32 {
				// LDRSW and 32-bit-dest signed loads already sign-extend to
				// 64 in LoadMemSigned; mask down for the W-form destination.
				emitter.MovsxDword(buf, emitter.RAX, emitter.RAX)
			}
		} else {
			emitter.LoadMem(buf, emitter.RAX, emitter.RDX, 0, d.Size)
		}
		stX(buf, d.Rd, emitter.RAX, w)
		if d.HasRa { // LDP's second destination
			emitter.LoadMem(buf, emitter.RAX, emitter.RDX, int32(d.Size), d.Size)
			stX(buf, d.Ra, emitter.RAX, w)
		}

	case decoder.OpStore:
		ldX(buf, emitter.RAX, d.Rd, w)
		emitter.StoreMem(buf, emitter.RAX, emitter.RDX, 0, d.Size)
		if d.HasRa {
			ldX(buf, emitter.RAX, d.Ra, w)
			emitter.StoreMem(buf, emitter.RAX, emitter.RDX, int32(d.Size), d.Size)
		}
	}

	if d.WriteBack {
		if d.PostIndex {
			emitter.AddRegImm32(buf, emitter.RDX, uint32(d.Imm), emitter.Width64)
		}
		stSP(buf, d.Rn, emitter.RDX, emitter.Width64)
	}
	return nil
}

// translateExclusive weakens LDXR/LDAXR/STXR/STLXR to a plain load or
// store guarded by a full fence: this translator runs single-threaded
// guest code without a monitor, so there is no exclusive-access state to
// track. STXR/STLXR always report success (0) in their status register,
// matching a guest that never observes contention on its own store.
func (t *Translator) translateExclusive(buf *buffer.Buffer, d decoder.Decoded) error {
	w := emitter.Width64
	if d.Is32 {
		w = emitter.Width32
	}

	ldSP(buf, emitter.RDX, d.Rn, emitter.Width64)
	emitter.MFence(buf)

	switch d.Mnemonic {
	case "LDXR", "LDAXR":
		emitter.LoadMem(buf, emitter.RAX, emitter.RDX, 0, d.Size)
		stX(buf, d.Rd, emitter.RAX, w)

	case "STXR", "STLXR":
		ldX(buf, emitter.RAX, d.Rd, w)
		emitter.StoreMem(buf, emitter.RAX, emitter.RDX, 0, d.Size)
		emitter.XorRegReg(buf, emitter.RAX, emitter.RAX, emitter.Width32)
		stX(buf, d.Ra, emitter.RAX, emitter.Width32)
	}
	return nil
}
