package decoder

import "github.com/arm64x86/dbt/internal/guest"

// matchCondSelect recognizes CSEL/CSINC/CSINV/CSNEG:
// sf op S 11010100 Rm(5) cond(4) op2(2) Rn(5) Rd(5).
func matchCondSelect(w uint32, d *Decoded) bool {
	if bits(w, 28, 21) != 0b11010100 {
		return false
	}
	sf := bit(w, 31)
	op := bit(w, 30)
	s := bit(w, 29)
	if s {
		return false // S=1 is unallocated for this family
	}
	op2 := bits(w, 11, 10)
	if op2 > 0b01 {
		return false
	}

	d.Op = OpCondSelect
	d.Is32 = !sf
	d.Rm = uint8(bits(w, 20, 16))
	d.Cond = guest.Cond(bits(w, 15, 12))
	d.Rn = uint8(bits(w, 9, 5))
	d.Rd = uint8(bits(w, 4, 0))

	switch {
	case !op && op2 == 0:
		d.Mnemonic = "CSEL"
	case !op && op2 == 1:
		d.Mnemonic = "CSINC"
		if d.Rn == 31 && d.Rm == 31 && d.Cond != guest.CondAL && d.Cond != guest.CondNV {
			d.Mnemonic = "CSET"
		}
	case op && op2 == 0:
		d.Mnemonic = "CSINV"
		if d.Rn == 31 && d.Rm == 31 && d.Cond != guest.CondAL && d.Cond != guest.CondNV {
			d.Mnemonic = "CSETM"
		}
	default:
		d.Mnemonic = "CSNEG"
	}
	return true
}
