package decoder

// matchSystem recognizes exception generation (SVC/HVC/SMC/BRK/HLT),
// permanently-undefined words (UDF), barriers (DMB/DSB/ISB), hints
// (NOP/YIELD/WFE/WFI/SEV/SEVL), and MRS/MSR of the handful of system
// registers the translator understands.
func matchSystem(w uint32, d *Decoded) bool {
	if matchExceptionGen(w, d) {
		return true
	}
	if matchUDF(w, d) {
		return true
	}
	if matchHintsBarriers(w, d) {
		return true
	}
	if matchSysReg(w, d) {
		return true
	}
	return false
}

// matchExceptionGen: bits[31:24]=11010100, opc in bits[23:21], imm16 in
// bits[20:5], op2 in bits[4:2], LL in bits[1:0].
func matchExceptionGen(w uint32, d *Decoded) bool {
	if bits(w, 31, 24) != 0b11010100 {
		return false
	}
	opc := bits(w, 23, 21)
	imm16 := bits(w, 20, 5)
	op2 := bits(w, 4, 2)
	ll := bits(w, 1, 0)
	if op2 != 0 {
		return false
	}

	d.Op = OpSystem
	d.Imm = int64(imm16)

	switch {
	case opc == 0 && ll == 1:
		d.Mnemonic = "SVC"
	case opc == 0 && ll == 2:
		d.Mnemonic = "HVC"
	case opc == 0 && ll == 3:
		d.Mnemonic = "SMC"
	case opc == 1 && ll == 0:
		d.Mnemonic = "BRK"
	case opc == 2 && ll == 0:
		d.Mnemonic = "HLT"
	default:
		return false
	}
	return true
}

func matchUDF(w uint32, d *Decoded) bool {
	if bits(w, 31, 16) != 0 {
		return false
	}
	d.Op = OpSystem
	d.Mnemonic = "UDF"
	d.Imm = int64(bits(w, 15, 0))
	return true
}

func matchHintsBarriers(w uint32, d *Decoded) bool {
	if bits(w, 31, 16) != 0xD503 || bits(w, 4, 0) != 0b11111 {
		return false
	}
	crn := bits(w, 15, 12)
	op2 := bits(w, 7, 5)

	d.Op = OpSystem
	switch crn {
	case 0b0010:
		switch op2 {
		case 0:
			d.Mnemonic = "NOP"
		case 1:
			d.Mnemonic = "YIELD"
		case 2:
			d.Mnemonic = "WFE"
		case 3:
			d.Mnemonic = "WFI"
		case 4:
			d.Mnemonic = "SEV"
		case 5:
			d.Mnemonic = "SEVL"
		default:
			return false
		}
		return true
	case 0b0011:
		switch op2 {
		case 0b100:
			d.Mnemonic = "DSB"
		case 0b101:
			d.Mnemonic = "DMB"
		case 0b110:
			d.Mnemonic = "ISB"
		default:
			return false
		}
		return true
	}
	return false
}

// sysReg names the handful of system registers the translator maps to
// host facilities.
type sysReg struct {
	mrsBase uint32
	msrBase uint32
	name    string
}

var knownSysRegs = []sysReg{
	{0xD53B4400, 0xD51B4400, "FPCR"},
	{0xD53B4420, 0xD51B4420, "FPSR"},
	{0xD53BD040, 0xD51BD040, "TPIDR_EL0"},
	{0xD53BE040, 0, "CNTVCT_EL0"},
	{0xD53BE000, 0, "CNTFRQ_EL0"},
}

func matchSysReg(w uint32, d *Decoded) bool {
	base := w &^ 0x1F
	rt := uint8(bits(w, 4, 0))
	for _, r := range knownSysRegs {
		if base == r.mrsBase {
			d.Op = OpSystem
			d.Mnemonic = "MRS_" + r.name
			d.Rd = rt
			return true
		}
		if r.msrBase != 0 && base == r.msrBase {
			d.Op = OpSystem
			d.Mnemonic = "MSR_" + r.name
			d.Rd = rt
			return true
		}
	}
	return false
}
