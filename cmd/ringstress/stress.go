package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kestrelring/ringbuf"
	"github.com/kestrelring/ringbuf/internal/msgframe"
)

func newStressCmd() *cobra.Command {
	var (
		workers     uint32
		duration    time.Duration
		space       uint32
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Hammer a Ring with concurrent producers, verifying every message's checksum",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress(cmd.Context(), workers, space, duration, metricsAddr)
		},
	}

	cmd.Flags().Uint32Var(&workers, "workers", 4, "number of concurrent producer goroutines")
	cmd.Flags().DurationVar(&duration, "duration", 10*time.Second, "how long to run before stopping")
	cmd.Flags().Uint32Var(&space, "space", 512, "ring buffer capacity in bytes")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address while running")

	return cmd
}

// runStress is the Go analogue of original_source/src/t_stress.c's
// ringbuf_stress: one consumer goroutine (the analogue of thread id 0)
// verifies and releases, while the rest generate and produce random
// framed messages. A context deadline replaces alarm(2) + SIGALRM.
func runStress(ctx context.Context, workers, space uint32, duration time.Duration, metricsAddr string) error {
	m := newMetrics()
	if metricsAddr != "" {
		stop, err := m.serve(metricsAddr)
		if err != nil {
			return errors.Wrap(err, "starting metrics listener")
		}
		defer stop()
	}

	r, err := ringbuf.New(workers, space)
	if err != nil {
		return errors.Wrap(err, "creating ring")
	}

	backing := make([]byte, space)
	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	var wg sync.WaitGroup
	var produced, consumed int64
	var corrupt int64

	for id := uint32(0); id < workers; id++ {
		wg.Add(1)
		go func(id uint32) {
			defer wg.Done()
			rng := msgframe.NewRand(5381 + id)
			scratch := make([]byte, 256)
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				n := msgframe.Generate(rng, scratch)
				s, off, err := r.Acquire(uint32(n))
				if err != nil {
					m.acquireFailures.Inc()
					time.Sleep(time.Microsecond)
					continue
				}
				copy(backing[off:int(off)+n], scratch[:n])
				r.Produce(s)
				atomic.AddInt64(&produced, 1)
			}
		}(id)
	}

	logger.Infow("stress run starting", "workers", workers, "space", space, "duration", duration)

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			drainStress(r, backing, &consumed, &corrupt, m)
			logger.Infow("stress run complete",
				"produced", atomic.LoadInt64(&produced),
				"consumed", atomic.LoadInt64(&consumed),
				"corrupt", atomic.LoadInt64(&corrupt))
			if atomic.LoadInt64(&corrupt) > 0 {
				return errors.Errorf("%d corrupt messages observed", corrupt)
			}
			return nil
		default:
		}
		off, n := r.Consume()
		if n == 0 {
			time.Sleep(time.Microsecond)
			continue
		}
		verifyRange(backing, off, n, &consumed, &corrupt, m)
		r.Release(n)
	}
}

func drainStress(r *ringbuf.Ring, backing []byte, consumed, corrupt *int64, m *metrics) {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		off, n := r.Consume()
		if n == 0 {
			return
		}
		verifyRange(backing, off, n, consumed, corrupt, m)
		r.Release(n)
	}
}

func verifyRange(backing []byte, off, n uint32, consumed, corrupt *int64, m *metrics) {
	rem := n
	cur := off
	for rem > 0 {
		total, ok := msgframe.Verify(backing[cur : cur+rem])
		if !ok {
			atomic.AddInt64(corrupt, 1)
			m.checksumFailures.Inc()
		}
		atomic.AddInt64(consumed, 1)
		cur += uint32(total)
		rem -= uint32(total)
	}
	m.bytesConsumed.Add(float64(n))
}
