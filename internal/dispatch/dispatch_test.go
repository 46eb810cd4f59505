package dispatch

import (
	"encoding/binary"
	"testing"

	"github.com/arm64x86/dbt/internal/guest"
)

// retImage builds a single-instruction guest image: RET (0xD65F03C0) at
// the given base address, the simplest possible self-terminating block.
func retImage(base uint64) *guest.Image {
	var code [4]byte
	binary.LittleEndian.PutUint32(code[:], 0xD65F03C0)
	return guest.NewImage(base, code[:])
}

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	d, err := New(16, 4096, 16, true, false)
	if err != nil {
		t.Fatalf("unexpected error building dispatcher: %v", err)
	}
	return d
}

func TestStepTranslatesAndInvokes(t *testing.T) {
	d := newTestDispatcher(t)
	defer d.Arena.Close()
	img := retImage(0x1000)
	st := guest.New()
	st.PC = 0x1000
	st.SetX(30, 0x9999) // RET reads LR (X30) as its target

	exit, err := d.Step(img, st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = exit // DefaultInvoker never runs the block, so exit is the halt sentinel

	stats := d.Cache.Stats()
	if stats.Inserts != 1 {
		t.Fatalf("expected the block to be translated and cached, got %d inserts", stats.Inserts)
	}
}

func TestStepReusesCachedBlockOnSecondCall(t *testing.T) {
	d := newTestDispatcher(t)
	defer d.Arena.Close()
	img := retImage(0x2000)
	st := guest.New()
	st.PC = 0x2000

	if _, err := d.Step(img, st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st.PC = 0x2000
	if _, err := d.Step(img, st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := d.Cache.Stats()
	if stats.Inserts != 1 {
		t.Fatalf("expected only one translation, got %d inserts", stats.Inserts)
	}
	if stats.Hits != 1 {
		t.Fatalf("expected the second Step to hit the cache, got %d hits", stats.Hits)
	}
}

func TestStepRetranslatesAfterSelfModification(t *testing.T) {
	d := newTestDispatcher(t)
	defer d.Arena.Close()
	img := retImage(0x3000)
	st := guest.New()
	st.PC = 0x3000

	if _, err := d.Step(img, st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A different image backing the same address range stands in for a
	// guest write that changed the underlying instruction word: the content
	// hash recorded at translation time must no longer match on re-read.
	var nop [8]byte
	binary.LittleEndian.PutUint32(nop[:], 0xD503201F) // NOP
	binary.LittleEndian.PutUint32(nop[4:], 0xD65F03C0) // RET, keeps the block self-terminating
	modified := guest.NewImage(0x3000, nop[:])

	st.PC = 0x3000
	if _, err := d.Step(modified, st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := d.Cache.Stats()
	if stats.Inserts != 2 {
		t.Fatalf("expected self-modified block to retranslate, got %d inserts", stats.Inserts)
	}
}

func TestRunStopsOnTrapSentinel(t *testing.T) {
	d := newTestDispatcher(t)
	defer d.Arena.Close()
	img := retImage(0x4000)
	st := guest.New()
	st.PC = 0x4000

	exit, err := d.Run(img, st, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exit&TrapMask != TrapMask {
		t.Fatalf("expected exit to fall in the trap range under DefaultInvoker, got %#x", exit)
	}
}
