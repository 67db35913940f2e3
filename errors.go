package ringbuf

import "errors"

var (
	// ErrInvalidSpace is returned by New when the requested capacity is
	// zero or greater than 2^32-2.
	ErrInvalidSpace = errors.New("ringbuf: space out of range")

	// ErrInvalidLength is returned by Acquire when length is zero or
	// exceeds the ring's total space.
	ErrInvalidLength = errors.New("ringbuf: acquire length out of range")

	// ErrWouldBlock is the single sentinel Acquire returns for either of
	// the two transient back-pressure causes the spec collapses together:
	// the reservation would lap the consumer, or the slot pool is
	// exhausted. It is not a logged error condition; callers are expected
	// to retry.
	ErrWouldBlock = errors.New("ringbuf: would block, retry")
)
