// Copyright (c) 2025 ringbuf authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package ringbuf implements a lock-free, multi-producer / single-consumer
// (MPSC) byte ring buffer with contiguous range reservations.
//
// # Protocol
//
// A producer calls Acquire to reserve N contiguous bytes and gets back an
// offset into a backing byte array it owns; it writes its payload at
// [offset, offset+length) and calls Produce to publish it. The single
// consumer calls Consume to get the largest contiguous, fully-produced
// prefix of data starting at the current read position, and Release once
// it has finished reading that range.
//
// Offsets, not pointers, are the public contract: Ring only tracks where in
// an abstract [0, space) address space each reservation lives. Callers own
// the bytes.
//
// # Thread-Safety Guarantees
//
//   - Any number of goroutines may call Acquire/Produce concurrently, each
//     on its own previously-acquired Slot.
//   - Exactly one goroutine may call Consume/Release; calling either from
//     more than one goroutine concurrently is undefined.
//
// # Performance Characteristics
//
// All five operations are non-blocking: Acquire returns ErrWouldBlock
// instead of waiting when a reservation would lap the consumer or the slot
// pool is exhausted, and the only spinning in the package is two bounded,
// exponentially backed-off pauses (waiting out another thread's in-flight
// wrap, and waiting out another thread's in-flight CAS) each held for O(1)
// instructions by whichever thread set the flag being spun on.
//
// # Usage Example
//
//	r, _ := ringbuf.New(4, 4096) // 4 concurrent producers, 4096-byte space
//	buf := make([]byte, 4096)    // caller-owned backing array
//
//	slot, off, err := r.Acquire(128)
//	if err == nil {
//	    copy(buf[off:off+128], payload)
//	    r.Produce(slot)
//	}
//
//	if off, n := r.Consume(); n > 0 {
//	    process(buf[off : off+n])
//	    r.Release(n)
//	}
package ringbuf
