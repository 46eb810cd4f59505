package guest

import "unsafe"

// Layout exposes the byte offsets of State's fields so the host code
// generator can address guest register storage directly through a
// context pointer without duplicating State's field order by hand. The
// offsets are computed by the compiler via unsafe.Offsetof against a
// zero-value instance; nothing here dereferences a pointer at runtime.
var zero State

func OffsetX(n uint8) uintptr   { return unsafe.Offsetof(zero.X) + uintptr(n&0x1F)*8 }
func OffsetV(n uint8) uintptr   { return unsafe.Offsetof(zero.V) + uintptr(n&0x1F)*16 }
func OffsetPC() uintptr         { return unsafe.Offsetof(zero.PC) }
func OffsetSP() uintptr         { return unsafe.Offsetof(zero.SP) }
func OffsetPSTATE() uintptr     { return unsafe.Offsetof(zero.PSTATE) }
func OffsetFPCR() uintptr       { return unsafe.Offsetof(zero.FPCR) }
func OffsetFPSR() uintptr       { return unsafe.Offsetof(zero.FPSR) }
func OffsetTPIDRURO() uintptr   { return unsafe.Offsetof(zero.TPIDRURO) }

// StateSize is the total size of one guest State in bytes, used by the
// arena to size the per-context save area it hands the dispatcher.
func StateSize() uintptr { return unsafe.Sizeof(zero) }
