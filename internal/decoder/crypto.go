package decoder

// matchCrypto recognizes the AES round/key-schedule helpers, PMULL, and
// the CRC32/CRC32C family.
func matchCrypto(w uint32, d *Decoded) bool {
	if matchAES(w, d) {
		return true
	}
	if matchPMULL(w, d) {
		return true
	}
	if matchCRC32(w, d) {
		return true
	}
	return false
}

func matchAES(w uint32, d *Decoded) bool {
	base := w &^ 0x3FF // clear Rn[9:5] and Rd[4:0]
	switch base {
	case 0x4E284800:
		d.Mnemonic = "AESE"
	case 0x4E285800:
		d.Mnemonic = "AESD"
	case 0x4E286800:
		d.Mnemonic = "AESMC"
	case 0x4E287800:
		d.Mnemonic = "AESIMC"
	default:
		return false
	}
	d.Op = OpCrypto
	d.Rn = rnField(w)
	d.Rd = rdField(w)
	d.ElemWidth = 8
	d.Q = true
	return true
}

// matchPMULL recognizes PMULL/PMULL2 Vd.1Q, Vn.1D/2D, Vm.1D/2D (64x64->128
// bit carry-less multiply). Q selects the PMULL2 (high-half) form.
func matchPMULL(w uint32, d *Decoded) bool {
	base := w &^ ((0x1F << 16) | 0x3FF)
	q := bit(w, 30)
	expect := uint32(0x0E60E000)
	if q {
		expect = 0x4E60E000
	}
	if base != expect {
		return false
	}
	d.Op = OpCrypto
	d.Mnemonic = "PMULL"
	d.Q = q
	d.Rm = rmField(w)
	d.Rn = rnField(w)
	d.Rd = rdField(w)
	d.ElemWidth = 64
	return true
}

// matchCRC32 recognizes CRC32{B,H,W,X} and CRC32C{B,H,W,X}: sf 0 S
// 11010110 Rm(5) opcode(6) Rn(5) Rd(5) with opcode in 0b010css where c
// selects the Castagnoli polynomial and ss the operand size.
func matchCRC32(w uint32, d *Decoded) bool {
	if bits(w, 29, 21) != 0b011010110 {
		return false
	}
	opcode := bits(w, 15, 10)
	if opcode&0b111000 != 0b010000 {
		return false
	}
	castagnoli := opcode&0b000100 != 0
	size := opcode & 0b11
	sf := bit(w, 31)

	d.Op = OpCrypto
	d.Rm = rmField(w)
	d.Rn = rnField(w)
	d.Rd = rdField(w)

	var suffix string
	switch size {
	case 0:
		suffix, d.Size = "B", 1
	case 1:
		suffix, d.Size = "H", 2
	case 2:
		suffix, d.Size = "W", 4
	case 3:
		if !sf {
			return false
		}
		suffix, d.Size = "X", 8
	}
	if size == 3 && !sf {
		return false
	}
	if size != 3 && sf {
		return false
	}

	name := "CRC32"
	if castagnoli {
		name = "CRC32C"
	}
	d.Mnemonic = name + suffix
	return true
}
