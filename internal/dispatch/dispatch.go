// Package dispatch wires the translation cache, the executable arena, and
// the translator into the runtime loop that actually advances a guest: for
// each guest PC, find or build a resident block, detect whether the guest
// has overwritten it since it was translated, and hand control to it.
package dispatch

import (
	"fmt"
	"time"

	"github.com/arm64x86/dbt/config"
	"github.com/arm64x86/dbt/internal/arena"
	"github.com/arm64x86/dbt/internal/buffer"
	"github.com/arm64x86/dbt/internal/cache"
	"github.com/arm64x86/dbt/internal/guest"
	"github.com/arm64x86/dbt/internal/hashutil"
	"github.com/arm64x86/dbt/internal/trace"
	"github.com/arm64x86/dbt/internal/xlate"
)

// TrapMask identifies the sentinel range both xlate's system-instruction
// lowering and arena.DefaultInvoker use for "this block did not produce a
// normal guest branch target." Any exit PC with these high bits set is a
// dispatcher stop condition, not a continuation address.
const TrapMask = 0xFFFFFFFF_00000000

// blockBufferCapacity bounds how much host code one translated block may
// emit. MaxBlockInstructions guest instructions each expand into at most a
// handful of host instructions under the memory-resident codegen model, so
// this comfortably covers the worst case with room to spare.
const blockBufferCapacity = xlate.MaxBlockInstructions * 256

// Dispatcher owns one cache/arena pair and the translator that fills them.
// It holds no guest state itself; callers pass a *guest.State and a
// GuestReader into each Step, so one Dispatcher can drive several guest
// contexts sharing the same code cache.
type Dispatcher struct {
	Cache      *cache.Cache
	Arena      *arena.Arena
	Translator *xlate.Translator
	Invoke     arena.Invoker
	Trace      *trace.Sink // nil disables execution tracing
}

// New builds a Dispatcher with a freshly allocated cache, arena, and trace
// sink. Invoke defaults to arena.DefaultInvoker, which never executes
// committed code; callers that need real execution must replace it with
// an Invoker backed by a platform trampoline (see arena.Invoker's doc
// comment).
func New(cacheCapacity, arenaSize, traceCapacity int, approximateFP, unsupportedIsFatal bool) (*Dispatcher, error) {
	a, err := arena.New(arenaSize)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		Cache:      cache.New(cacheCapacity),
		Arena:      a,
		Translator: xlate.New(approximateFP, unsupportedIsFatal),
		Invoke:     arena.DefaultInvoker,
		Trace:      trace.NewSink(traceCapacity),
	}, nil
}

// NewFromConfig builds a Dispatcher sized per cfg, applying StartCold by
// invalidating the cache immediately (a no-op on a freshly built one, but
// meaningful if a caller later rebuilds a Dispatcher around a
// long-lived cache).
func NewFromConfig(cfg *config.Config) (*Dispatcher, error) {
	d, err := New(cfg.Cache.Capacity, cfg.Cache.ArenaSize, cfg.Trace.Capacity,
		cfg.Translate.ApproximateFPEst, cfg.Translate.UnsupportedIsFatal)
	if err != nil {
		return nil, err
	}
	d.Trace.Enabled = cfg.Trace.Enabled
	if cfg.Cache.StartCold {
		d.Cache.InvalidateAll()
	}
	return d, nil
}

// Step resolves the block starting at st.PC -- from cache if resident and
// unmodified, by discovering and translating it otherwise -- then invokes
// it once and returns the exit PC it reports.
func (d *Dispatcher) Step(img xlate.GuestReader, st *guest.State) (uint64, error) {
	start := time.Now()
	entry, reused, err := d.resolve(img, st.PC)
	if err != nil {
		return 0, err
	}
	exit := d.Invoke(entry.HostEntry, st)
	if d.Trace != nil {
		instrCount := int((entry.EndPC - entry.PC) / 4)
		d.Trace.Record(entry.PC, exit, instrCount, reused, time.Since(start))
	}
	return exit, nil
}

// resolve returns a cache entry for pc with a host-committed entry point
// and whether it was served from cache, reusing a resident block only if
// the guest words underneath it still hash the same as when it was
// translated.
func (d *Dispatcher) resolve(img xlate.GuestReader, pc uint64) (*cache.Entry, bool, error) {
	if e, ok := d.Cache.Lookup(pc); ok {
		words, err := readWords(img, e.PC, e.EndPC)
		if err == nil && hashutil.BlockContentHash(words) == e.ContentHash {
			return e, true, nil
		}
		d.Cache.Remove(pc)
	}
	e, err := d.translateAndInsert(img, pc)
	return e, false, err
}

func (d *Dispatcher) translateAndInsert(img xlate.GuestReader, pc uint64) (*cache.Entry, error) {
	blk, err := xlate.DiscoverBlock(img, pc, xlate.MaxBlockInstructions)
	if err != nil {
		return nil, fmt.Errorf("dispatch: discover block at %#x: %w", pc, err)
	}
	buf := buffer.New(blockBufferCapacity)
	if err := d.Translator.Translate(buf, blk); err != nil {
		return nil, fmt.Errorf("dispatch: translate block at %#x: %w", pc, err)
	}
	host, err := d.Arena.Commit(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("dispatch: commit block at %#x: %w", pc, err)
	}
	words, err := readWords(img, blk.StartPC, blk.EndPC)
	if err != nil {
		return nil, fmt.Errorf("dispatch: re-read block at %#x: %w", pc, err)
	}
	var flags uint16
	if blk.EndedOnBranch {
		flags |= cache.FlagBranchTerminated
	}
	if blk.EndedOnSyscall {
		flags |= cache.FlagSyscallTerminated
	}
	e := &cache.Entry{
		PC:          blk.StartPC,
		EndPC:       blk.EndPC,
		Code:        buf.Bytes(),
		ContentHash: hashutil.BlockContentHash(words),
		HostEntry:   host,
		InsnCount:   uint16(len(blk.Instrs)),
		Flags:       flags,
	}
	d.Cache.Insert(e)
	return e, nil
}

func readWords(img xlate.GuestReader, start, end uint64) ([]uint32, error) {
	words := make([]uint32, 0, (end-start)/4)
	for addr := start; addr < end; addr += 4 {
		w, err := img.ReadWord32(addr)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}

// Run drives the guest forward one block at a time until an exit PC falls
// in the trap range or maxBlocks blocks have executed, whichever comes
// first. It returns the final exit PC so the caller can decode which trap
// fired (see xlate's system-instruction sentinel encoding).
func (d *Dispatcher) Run(img xlate.GuestReader, st *guest.State, maxBlocks int) (uint64, error) {
	for i := 0; i < maxBlocks; i++ {
		exit, err := d.Step(img, st)
		if err != nil {
			return 0, err
		}
		st.PC = exit
		if exit&TrapMask == TrapMask {
			return exit, nil
		}
	}
	return st.PC, nil
}
