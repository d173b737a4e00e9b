package crous

import "testing"

func TestArenaAlloc(t *testing.T) {
	a := NewArena(16)

	s1 := a.Alloc(8)
	if len(s1) != 8 {
		t.Fatalf("Alloc(8) len = %d", len(s1))
	}
	for i := range s1 {
		s1[i] = byte(i)
	}

	// Force a grow; earlier slices keep their backing buffer.
	s2 := a.Alloc(64)
	if len(s2) != 64 {
		t.Fatalf("Alloc(64) len = %d", len(s2))
	}
	for i := range s1 {
		if s1[i] != byte(i) {
			t.Fatalf("s1[%d] = %d after grow, want %d", i, s1[i], i)
		}
	}

	if s := a.Alloc(0); len(s) != 0 {
		t.Errorf("Alloc(0) len = %d", len(s))
	}
	if s := a.Alloc(-3); s != nil {
		t.Errorf("Alloc(-3) = %v, want nil", s)
	}
}

func TestArenaCapacityFloor(t *testing.T) {
	a := NewArena(0)
	if s := a.Alloc(arenaMinCapacity); len(s) != arenaMinCapacity {
		t.Fatalf("Alloc(%d) len = %d", arenaMinCapacity, len(s))
	}
}

func TestArenaReset(t *testing.T) {
	a := NewArena(32)
	a.Alloc(20)
	a.Alloc(10)
	a.Reset()
	if a.off != 0 {
		t.Fatalf("off after Reset = %d", a.off)
	}
	// Post-reset allocations reuse the same backing buffer.
	s := a.Alloc(30)
	if len(s) != 30 {
		t.Fatalf("Alloc(30) after Reset len = %d", len(s))
	}
	if a.off != 30 {
		t.Errorf("off = %d, want 30", a.off)
	}
}

func TestArenaSlicesDoNotOverlap(t *testing.T) {
	a := NewArena(64)
	s1 := a.Alloc(4)
	s2 := a.Alloc(4)
	for i := range s1 {
		s1[i] = 0x11
	}
	for i := range s2 {
		s2[i] = 0x22
	}
	for i := range s1 {
		if s1[i] != 0x11 {
			t.Fatalf("s1[%d] = 0x%02x, allocations overlap", i, s1[i])
		}
	}
	// Alloc caps slice capacity so appends cannot clobber the next block.
	s1 = append(s1, 0x33)
	for i := range s2 {
		if s2[i] != 0x22 {
			t.Fatalf("s2[%d] = 0x%02x after append to s1", i, s2[i])
		}
	}
}
