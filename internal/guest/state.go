// Package guest holds the architectural state of one AArch64 guest
// execution context: general and vector registers, PC, SP, PSTATE, and the
// FP control/status words. It is owned by a single translator instance and
// is never shared across goroutines.
package guest

// Register index 31 aliases the zero register or the stack pointer
// depending on the instruction class; ZR is the convention used by
// State.GetX when reading register 31 as a source.
const ZRSP = 31

// State is the AArch64 guest CPU state maintained across translated
// blocks. Translators read it to fold condition outcomes ahead of time and
// to commit PSTATE and register updates that downstream code observes.
type State struct {
	X  [32]uint64    // general purpose registers; X[31] is read as zero, see SP
	V  [32][2]uint64 // 128-bit vector registers, low/high quadwords
	PC uint64
	SP uint64

	PSTATE uint32 // NZCV in bits 31/30/29/28

	FPCR uint32
	FPSR uint32

	TPIDRURO uint64 // TPIDR_EL0 thread-pointer slot
}

// New returns a zeroed guest state.
func New() *State { return &State{} }

// GetX returns the value of general register n, honoring the zero-register
// alias for n==31.
func (s *State) GetX(n uint8) uint64 {
	if n == ZRSP {
		return 0
	}
	return s.X[n]
}

// SetX writes general register n, ignoring writes to the zero register.
func (s *State) SetX(n uint8, v uint64) {
	if n == ZRSP {
		return
	}
	s.X[n] = v
}

// GetW returns the low 32 bits of general register n (32-bit variant
// reads), honoring the zero-register alias.
func (s *State) GetW(n uint8) uint32 {
	return uint32(s.GetX(n))
}

// SetW writes the low 32 bits of general register n and zeroes its upper
// half, matching AArch64 32-bit-destination semantics.
func (s *State) SetW(n uint8, v uint32) {
	s.SetX(n, uint64(v))
}

const (
	nBit uint32 = 1 << 31
	zBit uint32 = 1 << 30
	cBit uint32 = 1 << 29
	vBit uint32 = 1 << 28
)

// NZCV unpacks the current flags.
func (s *State) NZCV() (n, z, c, v bool) {
	return s.PSTATE&nBit != 0, s.PSTATE&zBit != 0, s.PSTATE&cBit != 0, s.PSTATE&vBit != 0
}

// SetNZCV packs and stores the four condition flags.
func (s *State) SetNZCV(n, z, c, v bool) {
	var p uint32
	if n {
		p |= nBit
	}
	if z {
		p |= zBit
	}
	if c {
		p |= cBit
	}
	if v {
		p |= vBit
	}
	s.PSTATE = p
}
