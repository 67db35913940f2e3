package ringbuf

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// Ring is a lock-free MPSC byte ring buffer supporting contiguous range
// reservations. See the package doc for the protocol; the zero value is
// not usable, Ring must be obtained through New.
//
// Each hot atomic field is separated by cache-line padding to keep
// producers hammering `next` from false-sharing with the consumer's
// `written` or the slot-stack heads.
type Ring struct {
	space uint32
	_     [cacheLinePad - 4]byte

	// next is the write frontier: a packed Off. Producers race to
	// advance it via CAS; the wrap-lock tag bit gates wrap finalization.
	next atomic.Uint64
	_    [cacheLinePad - 8]byte

	// end records the position of the last wrap-around, as a packed Off;
	// noOff means no wrap is currently pending. Written by the wrapping
	// producer under the wrap-lock, cleared by the consumer once the
	// tail has fully drained.
	end atomic.Uint64
	_   [cacheLinePad - 8]byte

	// written is the position up to which the consumer has released
	// bytes. Only the consumer goroutine writes it; producers load it to
	// enforce the don't-lap-consumer invariant. It is atomic so that
	// cross-goroutine access has defined semantics even though the spec
	// treats a plain, possibly-stale load as acceptable here -- staleness
	// can only cause a spurious ErrWouldBlock, never a missed invariant.
	written atomic.Uint32
	_       [cacheLinePad - 4]byte

	freeHead atomic.Uint64
	_        [cacheLinePad - 8]byte

	usedHead atomic.Uint64
	_        [cacheLinePad - 8]byte

	slots []Slot
}

// GetSizes reports the byte sizes a caller would need to provision its own
// arena for a Ring with nworkers concurrent producer slots -- for example,
// one embedding a Ring inside a memory-mapped region shared with another
// process. New uses these same sizes internally; most callers should just
// call New directly.
func GetSizes(nworkers uint32) (ringBytes, slotBytes int) {
	slotBytes = int(unsafe.Sizeof(Slot{}))
	ringBytes = int(unsafe.Sizeof(Ring{})) + int(nworkers)*slotBytes
	return ringBytes, slotBytes
}

// New allocates and initializes a Ring with nworkers concurrent in-flight
// reservation slots and the given byte capacity. space must be in
// [1, 2^32-2]; nworkers bounds how many producers may hold an uncommitted
// Acquire at once, not how many producer goroutines may exist.
func New(nworkers uint32, space uint32) (*Ring, error) {
	if space == 0 || space > math.MaxUint32-1 {
		return nil, ErrInvalidSpace
	}
	r := &Ring{
		space: space,
		slots: make([]Slot, nworkers),
	}
	r.end.Store(uint64(noOff))
	r.freeHead.Store(uint64(nilIndex))
	r.usedHead.Store(uint64(nilIndex))
	for i := range r.slots {
		r.slots[i].idx = uint32(i)
		r.slots[i].seen.Store(uint64(noOff))
		r.slots[i].link.Store(uint64(nilIndex))
		pushSlot(&r.freeHead, &r.slots[i])
	}
	return r, nil
}

// Space returns the ring's fixed byte capacity.
func (r *Ring) Space() uint32 { return r.space }
