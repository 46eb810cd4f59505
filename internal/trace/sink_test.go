package trace

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestRecordAndRecentOrder(t *testing.T) {
	s := NewSink(4)
	s.Record(0x1000, 0x1008, 2, false, time.Microsecond)
	s.Record(0x1008, 0x1010, 1, true, time.Microsecond)
	entries := s.Recent(0)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].GuestPC != 0x1000 || entries[1].GuestPC != 0x1008 {
		t.Fatalf("expected oldest-first order, got %+v", entries)
	}
	if entries[0].Sequence != 1 || entries[1].Sequence != 2 {
		t.Fatalf("expected monotonic sequence numbers, got %d,%d", entries[0].Sequence, entries[1].Sequence)
	}
}

func TestRingBufferOverwritesOldest(t *testing.T) {
	s := NewSink(2)
	s.Record(0x1000, 0, 1, false, 0)
	s.Record(0x2000, 0, 1, false, 0)
	s.Record(0x3000, 0, 1, false, 0) // overwrites 0x1000

	entries := s.Recent(0)
	if len(entries) != 2 {
		t.Fatalf("expected capacity-bounded count of 2, got %d", len(entries))
	}
	if entries[0].GuestPC != 0x2000 || entries[1].GuestPC != 0x3000 {
		t.Fatalf("expected oldest entry evicted, got %+v", entries)
	}
}

func TestRecentLimitN(t *testing.T) {
	s := NewSink(8)
	for i := 0; i < 5; i++ {
		s.Record(uint64(i), 0, 1, false, 0)
	}
	got := s.Recent(2)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].GuestPC != 3 || got[1].GuestPC != 4 {
		t.Fatalf("expected the 2 most recent entries, got %+v", got)
	}
}

func TestDisabledSinkDropsRecords(t *testing.T) {
	s := NewSink(4)
	s.Enabled = false
	s.Record(0x1000, 0, 1, false, 0)
	if len(s.Recent(0)) != 0 {
		t.Fatal("expected no entries recorded while disabled")
	}
}

func TestClearResetsSequence(t *testing.T) {
	s := NewSink(4)
	s.Record(0x1000, 0, 1, false, 0)
	s.Clear()
	if len(s.Recent(0)) != 0 {
		t.Fatal("expected no entries after Clear")
	}
	s.Record(0x2000, 0, 1, false, 0)
	if s.Recent(0)[0].Sequence != 1 {
		t.Fatal("expected sequence counter to restart from 1 after Clear")
	}
}

func TestFlushWritesOneLinePerEntry(t *testing.T) {
	s := NewSink(4)
	s.Record(0x1000, 0x1008, 3, false, time.Millisecond)
	var buf bytes.Buffer
	if err := s.Flush(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "pc=0x1000") || !strings.Contains(out, "exit=0x1008") {
		t.Fatalf("unexpected flush output: %q", out)
	}
}

func TestNewSinkMinimumCapacityOne(t *testing.T) {
	s := NewSink(0)
	s.Record(1, 0, 1, false, 0)
	s.Record(2, 0, 1, false, 0)
	got := s.Recent(0)
	if len(got) != 1 || got[0].GuestPC != 2 {
		t.Fatalf("expected capacity clamped to 1, got %+v", got)
	}
}
