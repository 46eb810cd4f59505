// Package arena manages the executable memory region translated blocks
// are committed into. It reserves a fixed-size mapping up front (sized
// by Config.Cache.ArenaSize), writes code with PROT_READ|PROT_WRITE,
// then flips it to PROT_READ|PROT_EXEC before handing out entry points,
// so no page is ever simultaneously writable and executable.
package arena

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Arena is a bump allocator over one mmap'd region. It never frees
// individual blocks; reclaiming space happens only by resetting the
// whole arena (see Reset).
type Arena struct {
	mu     sync.Mutex
	mem    []byte
	cursor int
	exec   bool
}

// New reserves size bytes of anonymous, page-aligned memory. The mapping
// starts writable and non-executable; Commit flips individual regions to
// executable as blocks are finalized, and Reset flips the whole arena
// back to writable for reuse.
func New(size int) (*Arena, error) {
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("arena: mmap %d bytes: %w", size, err)
	}
	return &Arena{mem: mem}, nil
}

// Remaining reports how many bytes are left before the arena is full.
func (a *Arena) Remaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.mem) - a.cursor
}

// Commit copies code into the arena, makes that range executable, and
// returns a pointer to its first byte. Copying and re-protecting run
// under the arena's lock so concurrent translators never observe a
// partially-written region as executable.
func (a *Arena) Commit(code []byte) (uintptr, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(code) > len(a.mem)-a.cursor {
		return 0, fmt.Errorf("arena: out of space: need %d, have %d", len(code), len(a.mem)-a.cursor)
	}
	start := a.cursor
	// The page holding start may already be executable from an earlier
	// Commit; reopen it (and every page the new code spans) for writing.
	span := a.mem[start&^(unix.Getpagesize()-1) : start+len(code)]
	if err := unix.Mprotect(span, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return 0, fmt.Errorf("arena: mprotect writable: %w", err)
	}
	copy(a.mem[start:], code)
	a.cursor += len(code)

	region := a.mem[start : start+len(code)]
	if err := unix.Mprotect(span, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		return 0, fmt.Errorf("arena: mprotect exec: %w", err)
	}
	return uintptr(unsafe.Pointer(&region[0])), nil
}

// Reset reclaims the whole arena for reuse: every previously committed
// block becomes invalid, which the caller must pair with
// cache.Cache.InvalidateAll before any stale HostEntry is dereferenced
// again.
func (a *Arena) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := unix.Mprotect(a.mem, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return fmt.Errorf("arena: mprotect writable: %w", err)
	}
	a.cursor = 0
	return nil
}

// Close unmaps the arena's backing memory.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return unix.Munmap(a.mem)
}
