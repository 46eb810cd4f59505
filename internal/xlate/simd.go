package xlate

import (
	"github.com/arm64x86/dbt/internal/buffer"
	"github.com/arm64x86/dbt/internal/decoder"
	"github.com/arm64x86/dbt/internal/emitter"
	"github.com/arm64x86/dbt/internal/guest"
)

// ldVFull/stVFull move the low 64 bits of a vector register between
// guest state and an xmm register through one GPR round-trip. The high
// quadword is neither loaded nor stored, so 128-bit (Q=true) operands are
// processed on their low half only.
func ldVFull(buf *buffer.Buffer, dst emitter.XReg, n uint8) {
	emitter.LoadMem(buf, emitter.Scratch1, ctxReg, int32(guest.OffsetV(n)), 8)
	emitter.MovqGprToX(buf, dst, emitter.Scratch1)
	// High quadword: PINSRQ is SSE4.1-only and not in this module's
	// opcode set.
}

func stVFull(buf *buffer.Buffer, n uint8, src emitter.XReg) {
	emitter.MovqXToGpr(buf, emitter.Scratch1, src)
	emitter.StoreMem(buf, emitter.Scratch1, ctxReg, int32(guest.OffsetV(n)), 8)
}

// translateSIMD lowers the three-register-same and shift-immediate
// subset matchSIMD recognizes onto the corresponding packed SSE2 or
// SSE4.1 instruction at the matching element width, operating on the low 64
// bits of each vector register.
func (t *Translator) translateSIMD(buf *buffer.Buffer, d decoder.Decoded) error {
	bin := func(op func(*buffer.Buffer, emitter.XReg, emitter.XReg)) error {
		ldVFull(buf, xmm0, d.Rn)
		ldVFull(buf, xmm1, d.Rm)
		op(buf, xmm0, xmm1)
		stVFull(buf, d.Rd, xmm0)
		return nil
	}

	switch d.Mnemonic {
	case "ADD":
		switch d.ElemWidth {
		case 8:
			return bin(emitter.PaddB)
		case 16:
			return bin(emitter.PaddW)
		case 32:
			return bin(emitter.PaddD)
		default:
			return bin(emitter.PaddQ)
		}
	case "SUB":
		switch d.ElemWidth {
		case 8:
			return bin(emitter.PsubB)
		case 16:
			return bin(emitter.PsubW)
		case 32:
			return bin(emitter.PsubD)
		default:
			return bin(emitter.PsubQ)
		}
	case "AND":
		return bin(emitter.Pand)
	case "ORR":
		return bin(emitter.Por)
	case "EOR":
		return bin(emitter.Pxor)
	case "BIC":
		ldVFull(buf, xmm1, d.Rm)
		ldVFull(buf, xmm0, d.Rn)
		emitter.Pandn(buf, xmm1, xmm0)
		stVFull(buf, d.Rd, xmm1)
		return nil
	case "CMGT":
		switch d.ElemWidth {
		case 8:
			return bin(emitter.PcmpgtB)
		case 16:
			return bin(emitter.PcmpgtW)
		default:
			return bin(emitter.PcmpgtD)
		}
	case "CMEQ":
		switch d.ElemWidth {
		case 8:
			return bin(emitter.PcmpeqB)
		case 16:
			return bin(emitter.PcmpeqW)
		default:
			return bin(emitter.PcmpeqD)
		}
	case "SQADD":
		if d.ElemWidth == 8 {
			return bin(emitter.PaddSB)
		}
		return bin(emitter.PaddSW)
	case "UQADD":
		if d.ElemWidth == 8 {
			return bin(emitter.PaddUSB)
		}
		return bin(emitter.PaddUSW)
	case "SQSUB":
		if d.ElemWidth == 8 {
			return bin(emitter.PsubSB)
		}
		return bin(emitter.PsubSW)
	case "UQSUB":
		if d.ElemWidth == 8 {
			return bin(emitter.PsubUSB)
		}
		return bin(emitter.PsubUSW)
	case "SMAX":
		switch d.ElemWidth {
		case 8:
			return bin(emitter.PmaxSB)
		case 16:
			return bin(emitter.PmaxSW)
		default:
			return bin(emitter.PmaxSD)
		}
	case "UMAX":
		switch d.ElemWidth {
		case 8:
			return bin(emitter.PmaxUB)
		case 16:
			return bin(emitter.PmaxUW)
		default:
			return bin(emitter.PmaxUD)
		}
	case "SMIN":
		switch d.ElemWidth {
		case 8:
			return bin(emitter.PminSB)
		case 16:
			return bin(emitter.PminSW)
		default:
			return bin(emitter.PminSD)
		}
	case "UMIN":
		switch d.ElemWidth {
		case 8:
			return bin(emitter.PminUB)
		case 16:
			return bin(emitter.PminUW)
		default:
			return bin(emitter.PminUD)
		}
	case "SSHR", "USHR", "SHL":
		ldVFull(buf, xmm0, d.Rn)
		switch d.Mnemonic {
		case "SSHR":
			if d.ElemWidth == 32 {
				emitter.PsraD(buf, xmm0, d.Amt)
			} else {
				emitter.PsraW(buf, xmm0, d.Amt)
			}
		case "USHR":
			switch d.ElemWidth {
			case 16:
				emitter.PsrlW(buf, xmm0, d.Amt)
			case 32:
				emitter.PsrlD(buf, xmm0, d.Amt)
			default:
				emitter.PsrlQ(buf, xmm0, d.Amt)
			}
		case "SHL":
			switch d.ElemWidth {
			case 16:
				emitter.PsllW(buf, xmm0, d.Amt)
			case 32:
				emitter.PsllD(buf, xmm0, d.Amt)
			default:
				emitter.PsllQ(buf, xmm0, d.Amt)
			}
		}
		stVFull(buf, d.Rd, xmm0)
		return nil
	default:
		return &UnsupportedError{Mnemonic: d.Mnemonic, Raw: d.Raw}
	}
}
