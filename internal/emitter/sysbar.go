package emitter

import "github.com/arm64x86/dbt/internal/buffer"

// Nop emits a single-byte NOP, the lowering target for AArch64 NOP/HINT.
func Nop(buf *buffer.Buffer) { buf.EmitByte(0x90) }

// MFence/LFence/SFence emit the SSE2 memory-ordering fences used to
// lower AArch64 DMB/DSB/ISB. AArch64's barrier variants (full/load/store,
// and the shareability domain) are coarser than anything the host
// exposes, so all of them fold to the strongest applicable host fence;
// ISB additionally gets an LFENCE, the closest host analogue to an
// instruction-synchronization barrier.
func MFence(buf *buffer.Buffer) { buf.EmitBytes([]byte{0x0F, 0xAE, 0xF0}) }
func LFence(buf *buffer.Buffer) { buf.EmitBytes([]byte{0x0F, 0xAE, 0xE8}) }
func SFence(buf *buffer.Buffer) { buf.EmitBytes([]byte{0x0F, 0xAE, 0xF8}) }

// UD2 emits the two-byte illegal instruction, the lowering target for
// AArch64 UDF and for any decoded-but-unsupported opcode when the
// translator is configured to fault rather than skip.
func UD2(buf *buffer.Buffer) { buf.EmitBytes([]byte{0x0F, 0x0B}) }

// Int3 emits a breakpoint trap, used to lower AArch64 BRK when the
// debugger wants a host-visible trap instead of a simulated halt.
func Int3(buf *buffer.Buffer) { buf.EmitByte(0xCC) }
