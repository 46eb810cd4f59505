package arena

import "testing"

func TestNewReservesRequestedSize(t *testing.T) {
	a, err := New(4096)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Close()
	if a.Remaining() != 4096 {
		t.Fatalf("expected 4096 bytes remaining, got %d", a.Remaining())
	}
}

func TestCommitAdvancesCursor(t *testing.T) {
	a, err := New(4096)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Close()

	code := []byte{0xC3} // RET
	ptr, err := a.Commit(code)
	if err != nil {
		t.Fatalf("unexpected commit error: %v", err)
	}
	if ptr == 0 {
		t.Fatal("expected a non-zero host entry pointer")
	}
	if a.Remaining() != 4096-len(code) {
		t.Fatalf("expected remaining to shrink by %d, got %d", len(code), a.Remaining())
	}
}

func TestCommitRejectsOversizedBlock(t *testing.T) {
	a, err := New(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Close()

	_, err = a.Commit(make([]byte, 16))
	if err == nil {
		t.Fatal("expected an out-of-space error")
	}
}

func TestResetReclaimsSpace(t *testing.T) {
	a, err := New(4096)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Close()

	if _, err := a.Commit([]byte{0xC3, 0xC3, 0xC3}); err != nil {
		t.Fatalf("unexpected commit error: %v", err)
	}
	if err := a.Reset(); err != nil {
		t.Fatalf("unexpected reset error: %v", err)
	}
	if a.Remaining() != 4096 {
		t.Fatalf("expected full capacity reclaimed, got %d", a.Remaining())
	}
}

func TestCloseUnmaps(t *testing.T) {
	a, err := New(4096)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}
