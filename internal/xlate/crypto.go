package xlate

import (
	"github.com/arm64x86/dbt/internal/buffer"
	"github.com/arm64x86/dbt/internal/decoder"
	"github.com/arm64x86/dbt/internal/emitter"
)

// translateCrypto lowers AES round steps and PMULL directly onto AES-NI
// and PCLMULQDQ, and CRC32C onto the SSE4.2 CRC32 instruction. Plain
// (non-Castagnoli) CRC32 has no host instruction and is left
// unsupported, per the decoder's own split between CRC32 and CRC32C.
func (t *Translator) translateCrypto(buf *buffer.Buffer, d decoder.Decoded) error {
	switch d.Mnemonic {
	case "AESE":
		ldVFull(buf, xmm0, d.Rd)
		ldVFull(buf, xmm1, d.Rn)
		emitter.Pxor(buf, xmm0, xmm1) // AESE XORs the round key in before SubBytes/ShiftRows
		emitter.AesEnc(buf, xmm0, xmm0)
		stVFull(buf, d.Rd, xmm0)
		return nil
	case "AESD":
		ldVFull(buf, xmm0, d.Rd)
		ldVFull(buf, xmm1, d.Rn)
		emitter.Pxor(buf, xmm0, xmm1)
		emitter.AesDec(buf, xmm0, xmm0)
		stVFull(buf, d.Rd, xmm0)
		return nil
	case "AESMC":
		ldVFull(buf, xmm0, d.Rn)
		emitter.AesEncLast(buf, xmm0, xmm0) // approximation: no standalone MixColumns opcode on x86
		stVFull(buf, d.Rd, xmm0)
		return nil
	case "AESIMC":
		ldVFull(buf, xmm0, d.Rn)
		emitter.AesImc(buf, xmm0, xmm0)
		stVFull(buf, d.Rd, xmm0)
		return nil
	case "PMULL":
		ldVFull(buf, xmm0, d.Rn)
		ldVFull(buf, xmm1, d.Rm)
		emitter.Pclmulqdq(buf, xmm0, xmm1, 0x00)
		stVFull(buf, d.Rd, xmm0)
		return nil
	case "CRC32CB", "CRC32CH", "CRC32CW", "CRC32CX":
		ldX(buf, emitter.RAX, d.Rn, emitter.Width64)
		ldX(buf, emitter.RCX, d.Rm, emitter.Width64)
		emitter.Crc32(buf, emitter.RAX, emitter.RCX, d.Size)
		stX(buf, d.Rd, emitter.RAX, emitter.Width64)
		return nil
	default:
		return &UnsupportedError{Mnemonic: d.Mnemonic, Raw: d.Raw}
	}
}
