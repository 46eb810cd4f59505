// Package xlate turns a sequence of decoded guest instructions into a
// host code buffer: one function body that reads and writes guest
// register state through a context pointer and returns to the
// dispatcher with the computed exit PC staged in RAX.
package xlate

import (
	"fmt"

	"github.com/arm64x86/dbt/internal/buffer"
	"github.com/arm64x86/dbt/internal/decoder"
	"github.com/arm64x86/dbt/internal/emitter"
	"github.com/arm64x86/dbt/internal/guest"
)

// ctxReg holds the *guest.State pointer for the lifetime of a translated
// block, per the System V AMD64 first-argument register. No translator
// ever targets RDI as an ALU destination, so the pointer survives the
// whole block untouched.
const ctxReg = emitter.RDI

// UnsupportedError reports a guest instruction the translator has no
// lowering for. The caller decides whether that is fatal for the block
// (Config.Translate.UnsupportedIsFatal) or whether to emit a fallback
// trap and continue discovery.
type UnsupportedError struct {
	PC       uint64
	Mnemonic string
	Raw      uint32
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("xlate: no lowering for %s (word %#08x at pc %#x)", e.Mnemonic, e.Raw, e.PC)
}

// Translator lowers one Block at a time into a buffer.Buffer. It carries
// no state across blocks; every call to Translate starts a fresh host
// function body.
type Translator struct {
	ApproximateFP      bool // when true, unrepresentable FP ops degrade instead of failing
	UnsupportedIsFatal bool // when false, an unlowerable instruction traps at runtime instead of failing translation
	UnknownCount       uint64 // ticks once per Unknown word folded to a host NOP
}

// New returns a translator using the given approximation and
// unsupported-instruction policy.
func New(approximateFP, unsupportedIsFatal bool) *Translator {
	return &Translator{ApproximateFP: approximateFP, UnsupportedIsFatal: unsupportedIsFatal}
}

// Translate emits the full host function body for one block: a sequence
// of guest instructions discovered by DiscoverBlock, followed by an exit
// sequence that leaves the block's resolved exit PC in RAX and returns.
func (t *Translator) Translate(buf *buffer.Buffer, blk *Block) error {
	pc := blk.StartPC
	for i, insn := range blk.Instrs {
		err := t.translateOne(buf, insn, pc)
		if err != nil {
			if _, ok := err.(*UnsupportedError); ok && !t.UnsupportedIsFatal {
				emitter.UD2(buf)
				if i == len(blk.Instrs)-1 {
					blk.selfTerminated = true
				}
			} else {
				return err
			}
		}
		pc += 4
	}
	return t.emitExit(buf, blk)
}

func (t *Translator) translateOne(buf *buffer.Buffer, d decoder.Decoded, pc uint64) error {
	switch d.Op {
	case decoder.OpUnknown:
		emitter.Nop(buf)
		t.UnknownCount++
		return nil
	case decoder.OpALU, decoder.OpCompare:
		return t.translateALU(buf, d)
	case decoder.OpMoveWide:
		return t.translateMoveWide(buf, d)
	case decoder.OpBitfield:
		return t.translateBitfield(buf, d)
	case decoder.OpCondSelect:
		return t.translateCondSelect(buf, d)
	case decoder.OpLoad, decoder.OpStore:
		return t.translateMemory(buf, d)
	case decoder.OpBranch:
		return t.translateBranch(buf, d, pc)
	case decoder.OpSystem:
		return t.translateSystem(buf, d)
	case decoder.OpFPScalar:
		return t.translateFPScalar(buf, d)
	case decoder.OpSIMD:
		return t.translateSIMD(buf, d)
	case decoder.OpCrypto:
		return t.translateCrypto(buf, d)
	default:
		return &UnsupportedError{PC: pc, Mnemonic: d.Mnemonic, Raw: d.Raw}
	}
}

// width returns the emitter width matching a decoded 32/64-bit form.
func width(d decoder.Decoded) emitter.Width {
	if d.Is32 {
		return emitter.Width32
	}
	return emitter.Width64
}

// size returns the memory access width in bytes for GPR-sized ALU
// operands, independent of decoder.Decoded.Size (which is reserved for
// load/store).
func size(w emitter.Width) uint8 {
	if w == emitter.Width64 {
		return 8
	}
	return 4
}

// ldX/stX address general-register operands where index 31 means the
// zero register (every family except immediate ADD/SUB and load/store
// base addressing, which use ldSP/stSP instead): reads of X31 fold to a
// materialized zero instead of touching guest state, and writes to X31
// are dropped, matching the architectural discard.
func ldX(buf *buffer.Buffer, dst emitter.Reg, n uint8, w emitter.Width) {
	if n == guest.ZRSP {
		emitter.XorRegReg(buf, dst, dst, w)
		return
	}
	emitter.LoadMem(buf, dst, ctxReg, int32(guest.OffsetX(n)), size(w))
}

func stX(buf *buffer.Buffer, n uint8, src emitter.Reg, w emitter.Width) {
	if n == guest.ZRSP {
		return
	}
	emitter.StoreMem(buf, src, ctxReg, int32(guest.OffsetX(n)), size(w))
}

// ldSP/stSP address a register operand where index 31 denotes the
// dedicated stack pointer slot rather than the zero register, used by
// the immediate ADD/SUB family and by load/store base-register
// addressing.
func ldSP(buf *buffer.Buffer, dst emitter.Reg, n uint8, w emitter.Width) {
	if n == guest.ZRSP {
		emitter.LoadMem(buf, dst, ctxReg, int32(guest.OffsetSP()), size(w))
		return
	}
	emitter.LoadMem(buf, dst, ctxReg, int32(guest.OffsetX(n)), size(w))
}

func stSP(buf *buffer.Buffer, n uint8, src emitter.Reg, w emitter.Width) {
	if n == guest.ZRSP {
		emitter.StoreMem(buf, src, ctxReg, int32(guest.OffsetSP()), size(w))
		return
	}
	emitter.StoreMem(buf, src, ctxReg, int32(guest.OffsetX(n)), size(w))
}

// emitExit writes the block's control-flow exit: for a block that falls
// off the end without a taken branch, the next sequential PC is folded
// in as a constant; branch instructions patch this during
// translateBranch instead and emitExit becomes a no-op for them.
func (t *Translator) emitExit(buf *buffer.Buffer, blk *Block) error {
	if blk.selfTerminated {
		return nil
	}
	emitter.MovImm64(buf, emitter.RAX, blk.EndPC)
	emitter.Ret(buf)
	return nil
}
