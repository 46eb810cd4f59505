package arena

import "github.com/arm64x86/dbt/internal/guest"

// Invoker calls into one committed host code block, passing a pointer to
// guest state and returning the guest PC the block exited with (either
// the natural fallthrough/branch target, or a trap sentinel the system
// translator encodes -- see xlate.trapSentinel). The real implementation
// bridges Go's internal calling convention to the System V AMD64
// convention the emitter package targets, which needs a small
// architecture-specific assembly trampoline; DefaultInvoker intentionally
// does not attempt that bridge in-process (see DESIGN.md), so callers
// that need genuine execution must supply their own Invoker built against
// a vetted trampoline for their target OS/arch.
type Invoker func(entry uintptr, ctx *guest.State) (exitPC uint64)

// DefaultInvoker is a safe placeholder: it never jumps into arena memory
// and always reports a halt sentinel, so a Dispatcher wired with it is
// exercisable end-to-end (cache fill, translation, arena commit) without
// ever executing generated machine code.
var DefaultInvoker Invoker = func(entry uintptr, ctx *guest.State) uint64 {
	return haltSentinel
}

// haltSentinel is returned by DefaultInvoker in place of a real exit PC;
// it shares the high-bits-set convention xlate uses for trap sentinels
// so a Dispatcher loop built against either implementation can recognize
// "stop" the same way.
const haltSentinel = 0xFFFFFFFF_FFFF0000
