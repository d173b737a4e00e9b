package crous

// Arena is a bump allocator for parse-transient scratch memory. The lexer
// uses one to decode string escapes without a fresh allocation per token.
// Alloc hands out slices of a shared backing buffer; Reset makes the whole
// buffer available again without freeing it, so a long-lived arena reaches a
// steady state where parsing allocates nothing beyond the values themselves.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	buf []byte
	off int
}

const arenaMinCapacity = 64

// NewArena returns an arena with the given initial capacity in bytes.
func NewArena(capacity int) *Arena {
	if capacity < arenaMinCapacity {
		capacity = arenaMinCapacity
	}
	return &Arena{buf: make([]byte, capacity)}
}

// Alloc returns a slice of n bytes with unspecified contents. The slice
// remains valid until the arena is Reset.
func (a *Arena) Alloc(n int) []byte {
	if n < 0 {
		return nil
	}
	if a.off+n > len(a.buf) {
		a.grow(n)
	}
	s := a.buf[a.off : a.off+n : a.off+n]
	a.off += n
	return s
}

// Reset recycles the arena. Slices from earlier Alloc calls that share the
// current backing buffer are clobbered by later allocations, so callers must
// finish with them first.
func (a *Arena) Reset() {
	a.off = 0
}

// grow replaces the backing buffer with a larger one. Live slices keep the
// old buffer reachable, so they stay intact.
func (a *Arena) grow(n int) {
	capacity := 2 * len(a.buf)
	if capacity < n {
		capacity = n
	}
	a.buf = make([]byte, capacity)
	a.off = 0
}
