package ringbuf

import "sync/atomic"

// nilIndex marks an empty stack reference: no slot index.
const nilIndex = uint32(0xFFFFFFFF)

// Slot is the opaque per-reservation handle returned by Acquire and passed
// back to Produce. It is drawn from a fixed pool sized at New and never
// allocates after that: Slot.link threads it through whichever of the
// free/used stacks currently holds it, and Slot.seen is the offset a
// producer observed as the write frontier at the start of its Acquire call
// (the "seen" offset the consumer scans for its read horizon).
//
// Slot is padded to a cache line so that concurrent producers claiming
// adjacent slots don't false-share.
type Slot struct {
	idx  uint32
	seen atomic.Uint64 // Off; noOff while idle
	link atomic.Uint64 // packed stack ref; nilIndex while unlinked
	_    [cacheLinePad - 24]byte
}

const cacheLinePad = 64
