package decoder

// matchLoadStoreExclusive recognizes the single-register "Load/store
// exclusive" class (LDXR/STXR/LDAXR/STLXR). The ordered forms (LDAR/STLR,
// o2=1) and the pair/CASP forms (o1=1) are left unclassified here; this
// decoder only targets the four plain exclusive mnemonics the translator
// weakens to ordinary loads/stores.
func matchLoadStoreExclusive(w uint32, d *Decoded) bool {
	if bits(w, 29, 24) != 0b001000 {
		return false
	}
	o2 := bit(w, 23)
	o1 := bit(w, 21)
	if o2 || o1 {
		return false
	}

	size := bits(w, 31, 30)
	l := bit(w, 22)
	acquireRelease := bit(w, 15)
	rs := uint8(bits(w, 20, 16))
	rn := uint8(bits(w, 9, 5))
	rt := uint8(bits(w, 4, 0))

	d.Size = sizeBytes(size)
	d.Is32 = size != 0b11
	d.Rn = rn
	d.Rd = rt

	if l {
		d.Op = OpLoad
		if acquireRelease {
			d.Mnemonic = "LDAXR"
		} else {
			d.Mnemonic = "LDXR"
		}
		return true
	}

	d.Op = OpStore
	d.Ra = rs // status register: STXR/STLXR report success through it
	d.HasRa = true
	if acquireRelease {
		d.Mnemonic = "STLXR"
	} else {
		d.Mnemonic = "STXR"
	}
	return true
}
