package xlate

import (
	"encoding/binary"
	"testing"

	"github.com/arm64x86/dbt/internal/guest"
)

func imageOf(base uint64, words ...uint32) *guest.Image {
	data := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(data[i*4:], w)
	}
	return guest.NewImage(base, data)
}

func TestDiscoverBlockStopsAtUnconditionalBranch(t *testing.T) {
	img := imageOf(0x1000,
		0x91000421, // ADD X1, X1, #1
		0x14000000, // B +0 (self-branch, never reached in discovery since it terminates)
		0x91000421, // should not be included
	)
	blk, err := DiscoverBlock(img, 0x1000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blk.Instrs) != 2 {
		t.Fatalf("expected discovery to stop after the B, got %d instructions", len(blk.Instrs))
	}
	if blk.EndPC != 0x1008 {
		t.Fatalf("expected EndPC 0x1008, got %#x", blk.EndPC)
	}
	if !blk.selfTerminated {
		t.Fatal("expected a block ending in B to be marked self-terminated")
	}
}

func TestDiscoverBlockDoesNotStopAtConditionalBranch(t *testing.T) {
	img := imageOf(0x2000,
		0x54000040, // B.EQ +8 (conditional -- does not terminate discovery)
		0x91000421, // ADD X1, X1, #1
	)
	blk, err := DiscoverBlock(img, 0x2000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blk.Instrs) != 2 {
		t.Fatalf("expected discovery to continue past a conditional branch, got %d instructions", len(blk.Instrs))
	}
}

func TestDiscoverBlockDoesNotStopAtUnknownWord(t *testing.T) {
	img := imageOf(0x3000,
		0xFFFFFFFF, // undecodable -> OpUnknown, folds to a host NOP, does not terminate
		0x91000421, // ADD X1, X1, #1
	)
	blk, err := DiscoverBlock(img, 0x3000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blk.Instrs) != 2 {
		t.Fatalf("expected discovery to continue past an Unknown word, got %d", len(blk.Instrs))
	}
}

func TestDiscoverBlockRespectsInstructionCap(t *testing.T) {
	words := make([]uint32, 10)
	for i := range words {
		words[i] = 0x91000421
	}
	img := imageOf(0x4000, words...)
	blk, err := DiscoverBlock(img, 0x4000, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blk.Instrs) != 3 {
		t.Fatalf("expected discovery capped at 3 instructions, got %d", len(blk.Instrs))
	}
}

func TestDiscoverBlockStopsAtEndOfImage(t *testing.T) {
	img := imageOf(0x5000, 0x91000421, 0x91000421)
	blk, err := DiscoverBlock(img, 0x5000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blk.Instrs) != 2 {
		t.Fatalf("expected discovery to stop when the image runs out, got %d", len(blk.Instrs))
	}
	if blk.EndPC != 0x5008 {
		t.Fatalf("expected EndPC 0x5008, got %#x", blk.EndPC)
	}
}

func TestDiscoverBlockStopsAtReturn(t *testing.T) {
	img := imageOf(0x6000,
		0xD65F03C0, // RET
		0x91000421,
	)
	blk, err := DiscoverBlock(img, 0x6000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blk.Instrs) != 1 {
		t.Fatalf("expected discovery to stop at RET, got %d instructions", len(blk.Instrs))
	}
}
