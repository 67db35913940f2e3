// Package backoff implements the bounded exponential pause loop the ring
// buffer uses in its two spin points: waiting out an in-flight wrap on the
// write frontier, and waiting out an in-flight CAS on a producer's seen
// offset. Both are held for O(1) instructions by whichever goroutine set
// the flag being spun on, so the backoff only needs to be cheap, not fair.
//
// Go exposes no portable CPU pause/yield intrinsic in the standard
// library, so runtime.Gosched is used as the pause hint; this is the same
// substitution other lock-free structures in the wild make.
package backoff

import "runtime"

const (
	minSpins = 4
	maxSpins = 128
)

// Backoff tracks the current spin count for one wait loop. It is not safe
// for concurrent use; each spinning goroutine should create its own.
type Backoff struct {
	spins int
}

// New returns a Backoff starting at the minimum spin count.
func New() *Backoff {
	return &Backoff{spins: minSpins}
}

// Pause spins the current spin count worth of pause hints, then doubles
// the count for next time, up to maxSpins.
func (b *Backoff) Pause() {
	for i := 0; i < b.spins; i++ {
		runtime.Gosched()
	}
	if b.spins < maxSpins {
		b.spins <<= 1
	}
}
