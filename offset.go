package ringbuf

import "github.com/kestrelring/ringbuf/internal/backoff"

// Off is the packed 64-bit offset word shared by Ring.next, Ring.end, and
// Slot.seen. It multiplexes three fields:
//
//	bits [0..32)  position in [0, space]
//	bits [32..63) wrap-generation counter, incremented modulo 2^31 on wrap
//	bit  63       a tag bit, reused for two distinct purposes depending on
//	              which word it appears in: on Ring.next it is the
//	              wrap-lock (only the wrapping producer may hold it); on
//	              Slot.seen it marks the value unstable while a producer is
//	              mid-CAS in Acquire.
//
// A newtype over the packed word, with accessor methods, is used instead of
// three separate atomic fields so that a single CAS advances the position
// and bumps the ABA-defeating counter together.
type Off uint64

const (
	offMask  = 0x00000000FFFFFFFF
	tagBit   = 0x8000000000000000 // wrap-lock on `next`; unstable flag on `seen`
	wrapCtr  = 0x7FFFFFFF00000000
	wrapUnit = 0x0000000100000000
)

// noOff is the sentinel stored in Slot.seen while idle and in Ring.end while
// no wrap is pending. It is the all-ones pattern with the tag bit cleared,
// so it never collides with a tagged-unstable value and MIN(space, noOff)
// always yields space.
const noOff = Off(^uint64(0) &^ tagBit)

func (o Off) position() uint32  { return uint32(o & offMask) }
func (o Off) wrapCounter() Off  { return o & wrapCtr }
func (o Off) tagged() bool      { return o&tagBit != 0 }
func (o Off) withoutTag() Off   { return o &^ tagBit }

// wrapIncr bumps the wrap-generation counter carried in x by one, modulo
// 2^31, discarding everything outside the counter field.
func wrapIncr(x Off) Off {
	return (x + wrapUnit) & wrapCtr
}

// stableNext returns a stable snapshot of the ring's write frontier,
// spinning with exponential backoff while the wrap-lock bit is set (another
// producer is mid-wrap). The Go atomic Load used here already carries the
// acquire-fence guarantee the spec requires on exit.
func (r *Ring) stableNext() Off {
	bo := backoff.New()
	for {
		next := Off(r.next.Load())
		if !next.tagged() {
			return next
		}
		bo.Pause()
	}
}

// stableSeen returns a stable snapshot of a slot's seen offset, spinning
// while the unstable tag is set (the owning producer is mid-CAS in Acquire).
func stableSeen(s *Slot) Off {
	bo := backoff.New()
	for {
		seen := Off(s.seen.Load())
		if !seen.tagged() {
			return seen
		}
		bo.Pause()
	}
}
