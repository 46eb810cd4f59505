package decoder

import "github.com/arm64x86/dbt/internal/guest"

// matchUncondBranch recognizes B and BL: bits[31:26] = 000101 / 100101,
// 26-bit signed word offset.
func matchUncondBranch(w uint32, d *Decoded) bool {
	top6 := bits(w, 31, 26)
	if top6 != 0b000101 && top6 != 0b100101 {
		return false
	}
	imm26 := bits(w, 25, 0)
	off := signExtend(imm26, 26) << 2
	d.Op = OpBranch
	d.PCRelOffset = off
	if top6 == 0b100101 {
		d.Mnemonic = "BL"
	} else {
		d.Mnemonic = "B"
	}
	return true
}

// matchBR recognizes BR/BLR/RET: bits[31:16] fully fixed with Rn in [9:5].
func matchBR(w uint32, d *Decoded) bool {
	top16 := bits(w, 31, 16)
	switch top16 {
	case 0b1101011000011111:
		d.Mnemonic = "BR"
	case 0b1101011000111111:
		d.Mnemonic = "BLR"
	case 0b1101011001011111:
		d.Mnemonic = "RET"
	default:
		return false
	}
	// bits[15:10] and [4:0] are fixed to zero in the canonical encoding;
	// we don't gate on them so hinted variants still classify correctly.
	d.Op = OpBranch
	d.Rn = uint8(bits(w, 9, 5))
	return true
}

// matchCondBranch recognizes B.cond: bits[31:24]=01010100, 19-bit signed
// word offset, 4-bit condition in bits[3:0].
func matchCondBranch(w uint32, d *Decoded) bool {
	if bits(w, 31, 24) != 0b01010100 || bit(w, 4) {
		return false
	}
	imm19 := bits(w, 23, 5)
	d.Op = OpBranch
	d.Mnemonic = "B.cond"
	d.Cond = guest.Cond(bits(w, 3, 0))
	d.PCRelOffset = signExtend(imm19, 19) << 2
	return true
}

// matchCompareBranch recognizes CBZ/CBNZ: bits[30:25]=011010 with sf in
// bit31 and the NZ sense in bit24, 19-bit word offset.
func matchCompareBranch(w uint32, d *Decoded) bool {
	if bits(w, 30, 25) != 0b011010 {
		return false
	}
	d.Op = OpBranch
	d.Is32 = !bit(w, 31)
	if bit(w, 24) {
		d.Mnemonic = "CBNZ"
	} else {
		d.Mnemonic = "CBZ"
	}
	d.Rn = uint8(bits(w, 4, 0))
	imm19 := bits(w, 23, 5)
	d.PCRelOffset = signExtend(imm19, 19) << 2
	return true
}

// matchTestBranch recognizes TBZ/TBNZ: bits[30:25]=011011 with the NZ
// sense in bit24, a 6-bit test index split across bit31 (b5) and
// bits[23:19] (b4:0), 14-bit word offset.
func matchTestBranch(w uint32, d *Decoded) bool {
	if bits(w, 30, 25) != 0b011011 {
		return false
	}
	d.Op = OpBranch
	if bit(w, 24) {
		d.Mnemonic = "TBNZ"
	} else {
		d.Mnemonic = "TBZ"
	}
	b5 := bits(w, 31, 31)
	b40 := bits(w, 23, 19)
	d.TestBit = uint8(b5<<5 | b40)
	d.Rn = uint8(bits(w, 4, 0))
	imm14 := bits(w, 18, 5)
	d.PCRelOffset = signExtend(imm14, 14) << 2
	return true
}
