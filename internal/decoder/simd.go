package decoder

// matchSIMD recognizes a representative subset of Advanced SIMD (NEON)
// vector operations: three-register-same arithmetic/logical/compare, and
// shift-by-immediate. Full coverage of the NEON encoding space is a
// non-goal; unrecognized vector encodings fall through to OpUnknown like
// any other unclassified word.
func matchSIMD(w uint32, d *Decoded) bool {
	if matchSIMDThreeSame(w, d) {
		return true
	}
	if matchSIMDShiftImm(w, d) {
		return true
	}
	return false
}

// matchSIMDThreeSame: 0 Q U 01110 size(2) 1 Rm(5) opcode(5) 1 Rn(5) Rd(5).
func matchSIMDThreeSame(w uint32, d *Decoded) bool {
	if bit(w, 31) || bits(w, 28, 24) != 0b01110 || !bit(w, 21) || !bit(w, 10) {
		return false
	}
	q := bit(w, 30)
	u := bit(w, 29)
	size := bits(w, 23, 22)
	opcode := bits(w, 15, 11)

	d.Op = OpSIMD
	d.Q = q
	d.ElemWidth = []uint8{8, 16, 32, 64}[size]
	d.Rm = rmField(w)
	d.Rn = rnField(w)
	d.Rd = rdField(w)

	switch {
	case opcode == 0b10000 && !u:
		d.Mnemonic = "ADD"
	case opcode == 0b10000 && u:
		d.Mnemonic = "SUB"
	case opcode == 0b00011 && !u && size == 0:
		d.Mnemonic = "AND"
	case opcode == 0b00011 && u && size == 0:
		d.Mnemonic = "ORR"
	case opcode == 0b00011 && !u && size == 1:
		d.Mnemonic = "EOR"
	case opcode == 0b00011 && u && size == 1:
		d.Mnemonic = "BIC"
	case opcode == 0b01000 && !u:
		d.Mnemonic = "CMGT"
	case opcode == 0b01000 && u:
		d.Mnemonic = "CMHI"
	case opcode == 0b10001 && u:
		d.Mnemonic = "CMEQ"
	case opcode == 0b01101 && !u:
		d.Mnemonic = "SQADD"
	case opcode == 0b01101 && u:
		d.Mnemonic = "UQADD"
	case opcode == 0b00101 && !u:
		d.Mnemonic = "SQSUB"
	case opcode == 0b00101 && u:
		d.Mnemonic = "UQSUB"
	case opcode == 0b11010 && !u: // SMAX/UMAX share opcode, U discriminates
		d.Mnemonic = "SMAX"
	case opcode == 0b11010 && u:
		d.Mnemonic = "UMAX"
	case opcode == 0b11011 && !u:
		d.Mnemonic = "SMIN"
	case opcode == 0b11011 && u:
		d.Mnemonic = "UMIN"
	default:
		return false
	}
	return true
}

// matchSIMDShiftImm: 0 Q U 011110 immh(4) immb(3) opcode(5) 1 Rn(5) Rd(5).
func matchSIMDShiftImm(w uint32, d *Decoded) bool {
	if bit(w, 31) || bits(w, 28, 23) != 0b011110 || !bit(w, 10) {
		return false
	}
	q := bit(w, 30)
	u := bit(w, 29)
	immh := bits(w, 22, 19)
	if immh == 0 {
		return false
	}
	immb := bits(w, 18, 16)
	opcode := bits(w, 15, 11)

	esize := 8
	for immh>>1 != 0 {
		esize <<= 1
		immh >>= 1
	}
	// esize now holds the element width inferred from the highest set bit
	// of the original immh nibble (8/16/32/64).
	d.Op = OpSIMD
	d.Q = q
	d.ElemWidth = uint8(esize)
	d.Rn = rnField(w)
	d.Rd = rdField(w)

	shiftAmtRight := uint8(2*esize) - uint8((bits(w, 22, 16)))
	shiftAmtLeft := uint8(bits(w, 22, 16)) - uint8(esize)
	_ = immb

	switch {
	case opcode == 0b00000 && !u:
		d.Mnemonic = "SSHR"
		d.Amt = shiftAmtRight
	case opcode == 0b00000 && u:
		d.Mnemonic = "USHR"
		d.Amt = shiftAmtRight
	case opcode == 0b01010 && !u:
		d.Mnemonic = "SHL"
		d.Amt = shiftAmtLeft
	default:
		return false
	}
	return true
}
