package ringbuf

import "sync/atomic"

// The free and used slot stacks are singly linked through Slot.link, with
// each head (Ring.freeHead, Ring.usedHead, or an interior Slot.link during
// a consumer scan) packing a 32-bit slot index (or nilIndex) in the low
// bits and a monotone version counter in the high bits, using the same
// wrap-generation field layout as Off. The version bump makes every push,
// pop, or unlink produce a head word no earlier mutation could have left
// behind, defeating ABA on the intrusive links.

func refIndex(ref uint64) uint32 {
	return uint32(ref & offMask)
}

// nextRef builds the replacement head/link word: idx in the low bits, the
// old word's version bumped by one.
func nextRef(old uint64, idx uint32) uint64 {
	return uint64(idx) | uint64(wrapIncr(Off(old)))
}

// pushSlot pushes a slot, which must not currently be linked anywhere, onto
// the stack rooted at head.
func pushSlot(head *atomic.Uint64, s *Slot) {
	debugAssert(refIndex(s.link.Load()) == nilIndex, "pushSlot: slot already linked")
	for {
		old := head.Load()
		s.link.Store(uint64(refIndex(old)))
		if head.CompareAndSwap(old, nextRef(old, s.idx)) {
			return
		}
	}
}

// popSlot pops and returns a slot from the stack rooted at head, or nil if
// the stack is empty.
func (r *Ring) popSlot(head *atomic.Uint64) *Slot {
	for {
		old := head.Load()
		idx := refIndex(old)
		if idx == nilIndex {
			return nil
		}
		s := &r.slots[idx]
		if head.CompareAndSwap(old, nextRef(old, refIndex(s.link.Load()))) {
			s.link.Store(uint64(nilIndex))
			return s
		}
	}
}

// tryUnlinkSlot attempts to splice the slot referenced by oldLink out of
// whatever stack link points into, used by the consumer to remove a
// produced slot from the middle of the used stack. It uses the same
// version-counter discipline as push/pop so mid-stack unlinks are as
// ABA-safe as head operations. Returns false if link has since changed
// (someone else mutated it first); the caller should re-read and retry.
func (r *Ring) tryUnlinkSlot(link *atomic.Uint64, oldLink uint64) bool {
	idx := refIndex(oldLink)
	debugAssert(idx != nilIndex, "tryUnlinkSlot: nil ref")
	s := &r.slots[idx]
	newLink := nextRef(oldLink, refIndex(s.link.Load()))
	if !link.CompareAndSwap(oldLink, newLink) {
		return false
	}
	s.link.Store(uint64(nilIndex))
	return true
}
