// Package cache implements the direct-mapped translation cache: each
// guest PC maps to exactly one slot via a multiplicative hash, so lookup
// and insert are both O(1) with no chaining, at the cost of eviction
// churn if two hot blocks collide into the same slot.
package cache

import (
	"sync"

	"github.com/arm64x86/dbt/internal/hashutil"
)

// Entry flag bits, matching the stable block-descriptor layout.
const (
	FlagValid             uint16 = 0x01
	FlagCached            uint16 = 0x02
	FlagHot               uint16 = 0x04
	FlagBranchTerminated  uint16 = 0x08
	FlagSyscallTerminated uint16 = 0x10
)

// Entry is one resident translated block: its guest address range, the
// host bytes the translator produced, a content hash over the source
// words for self-modifying-code detection, and a funcval-ready pointer
// once the arena has committed the bytes to executable memory. InsnCount,
// Flags, RefCount and HitCount round out the descriptor fields a caller
// inspects to judge a block's provenance and temperature; Lookup and
// Insert are the only methods that mutate them.
type Entry struct {
	PC          uint64
	EndPC       uint64
	Code        []byte
	ContentHash uint64
	HostEntry   uintptr // zero until the arena commits Code

	InsnCount uint16
	Flags     uint16
	RefCount  uint32
	HitCount  uint32
}

// Stats reports cumulative cache activity, exposed to the debugger and
// API layers as a cheap health signal.
type Stats struct {
	Lookups   uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Inserts   uint64
}

// Cache is a fixed-capacity, direct-mapped translation cache. All
// methods are safe for concurrent use: the dispatcher and the debugger's
// inspection endpoints both reach into it from separate goroutines.
type Cache struct {
	mu       sync.RWMutex
	slots    []*Entry
	capacity uint32
	stats    Stats
}

// New returns an empty cache with the given capacity (rounded up to
// the nearest power of two, since the index mask requires it).
func New(capacity int) *Cache {
	n := nextPow2(capacity)
	return &Cache{slots: make([]*Entry, n), capacity: uint32(n)}
}

func nextPow2(n int) int {
	if n < 1 {
		n = 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (c *Cache) index(pc uint64) uint32 {
	return hashutil.MixPC(pc) & (c.capacity - 1)
}

// Lookup returns the resident entry for pc, if any, and whether it was a
// hit. A slot occupied by a different PC (a hash collision) counts as a
// miss, not a match.
func (c *Cache) Lookup(pc uint64) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Lookups++
	e := c.slots[c.index(pc)]
	if e == nil || e.PC != pc {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	e.RefCount++
	e.HitCount++
	return e, true
}

// Insert places e in its slot, evicting whatever was resident there
// (including a different block that happened to collide) before taking
// its place. The valid and cached flags are set unconditionally and the
// reference/hit counters are reset, regardless of what the caller already
// populated on e; any branch/syscall-terminated or hot bits the caller
// set beforehand survive.
func (c *Cache) Insert(e *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.index(e.PC)
	if c.slots[idx] != nil && c.slots[idx].PC != e.PC {
		c.stats.Evictions++
	}
	e.Flags |= FlagValid | FlagCached
	e.RefCount = 1
	e.HitCount = 0
	c.slots[idx] = e
	c.stats.Inserts++
}

// Remove evicts the entry for pc if it is the one currently resident in
// its slot.
func (c *Cache) Remove(pc uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.index(pc)
	if c.slots[idx] != nil && c.slots[idx].PC == pc {
		c.slots[idx] = nil
		c.stats.Evictions++
	}
}

// InvalidateAll drops every resident entry, used after a guest write
// that the loader cannot attribute to a single block (a bulk patch or an
// unknown-extent self-modifying write).
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.slots {
		if c.slots[i] != nil {
			c.stats.Evictions++
		}
		c.slots[i] = nil
	}
}

// Stats returns a snapshot of cumulative counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// Capacity returns the number of slots the cache was sized for.
func (c *Cache) Capacity() int { return int(c.capacity) }
