package decoder

import "github.com/arm64x86/dbt/internal/guest"

// The extractors below name the position-indexed subfields the cascade
// matchers pull out of an instruction word, per the convention "bits
// lo..hi = field". They're thin wrappers over bits()/bit() kept here so a
// reader can see the canonical field layout in one place.
func rdField(w uint32) uint8 { return uint8(bits(w, 4, 0)) }
func rnField(w uint32) uint8 { return uint8(bits(w, 9, 5)) }
func rmField(w uint32) uint8 { return uint8(bits(w, 20, 16)) }
func imm12Field(w uint32) uint32 { return bits(w, 21, 10) }

func condFromBits(v uint32) guest.Cond { return guest.Cond(v & 0xF) }
