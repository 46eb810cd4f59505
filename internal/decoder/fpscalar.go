package decoder

// matchFPScalar recognizes the scalar floating-point data-processing
// families: 1-source (FABS/FNEG/FSQRT/FMOV), 2-source
// (FADD/FSUB/FMUL/FDIV), compare (FCMP), and conditional select (FCSEL).
// Only single (type=00) and double (type=01) precision are supported;
// half precision (type=11) is not classified here.
func matchFPScalar(w uint32, d *Decoded) bool {
	if bits(w, 31, 29) != 0 || bits(w, 28, 24) != 0b11110 || !bit(w, 21) {
		return false
	}
	typ := bits(w, 23, 22)
	if typ == 0b11 {
		return false
	}
	isDouble := typ == 0b01

	d.Op = OpFPScalar
	d.Is32 = !isDouble // reused here to mean "single precision"

	switch {
	case bits(w, 14, 10) == 0b10000: // 1-source
		op := bits(w, 20, 15)
		d.Rn = uint8(bits(w, 9, 5))
		d.Rd = uint8(bits(w, 4, 0))
		switch op {
		case 0b000000:
			d.Mnemonic = "FMOV"
		case 0b000001:
			d.Mnemonic = "FABS"
		case 0b000010:
			d.Mnemonic = "FNEG"
		case 0b000011:
			d.Mnemonic = "FSQRT"
		case 0b011101:
			d.Mnemonic = "FRECPE"
		case 0b011111:
			d.Mnemonic = "FRSQRTE"
		default:
			return false
		}
		return true

	case bits(w, 11, 10) == 0b10: // 2-source
		op := bits(w, 15, 12)
		d.Rm = uint8(bits(w, 20, 16))
		d.Rn = uint8(bits(w, 9, 5))
		d.Rd = uint8(bits(w, 4, 0))
		switch op {
		case 0b0000:
			d.Mnemonic = "FMUL"
		case 0b0001:
			d.Mnemonic = "FDIV"
		case 0b0010:
			d.Mnemonic = "FADD"
		case 0b0011:
			d.Mnemonic = "FSUB"
		default:
			return false
		}
		return true

	case bits(w, 13, 10) == 0b1000: // compare
		d.Mnemonic = "FCMP"
		d.Rm = uint8(bits(w, 20, 16))
		d.Rn = uint8(bits(w, 9, 5))
		opcode2 := bits(w, 4, 0)
		if opcode2&0b01000 != 0 {
			d.Rm = 0 // comparison against #0.0
			d.Imm = 1
		}
		return true

	case bits(w, 11, 10) == 0b11: // conditional select
		d.Mnemonic = "FCSEL"
		d.Rm = uint8(bits(w, 20, 16))
		d.Cond = condFromBits(bits(w, 15, 12))
		d.Rn = uint8(bits(w, 9, 5))
		d.Rd = uint8(bits(w, 4, 0))
		return true
	}

	return false
}
