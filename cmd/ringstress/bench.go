package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kestrelring/ringbuf"
)

// logLine is the fixed Apache-style record t_benchmark.c writes
// repeatedly; kept byte-for-byte so throughput numbers stay comparable
// with the original benchmark.
const logLine = "10.0.0.1 - - [29/Apr/2016:17:02:50 +0100] " +
	"\"GET /some-random-path/payload/1.ts HTTP/1.1\" 206 1048576 " +
	"\"-\" \"curl/7.29.0\" \"-\"\n"

func newBenchCmd() *cobra.Command {
	var (
		workers     uint32
		duration    time.Duration
		space       uint32
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Report sustained throughput of a Ring under concurrent producers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd.Context(), workers, space, duration, metricsAddr)
		},
	}

	cmd.Flags().Uint32Var(&workers, "workers", 4, "number of concurrent producer goroutines")
	cmd.Flags().DurationVar(&duration, "duration", 10*time.Second, "how long to run before stopping")
	cmd.Flags().Uint32Var(&space, "space", 4096, "ring buffer capacity in bytes")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address while running")

	return cmd
}

// runBench is the Go analogue of original_source/src/t_benchmark.c's
// ringbuf_test: producers write a fixed log line as fast as Acquire lets
// them, one consumer drains and discards, and the tool reports aggregate
// MB/sec the way the C original's run_test does at exit.
func runBench(ctx context.Context, workers, space uint32, duration time.Duration, metricsAddr string) error {
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
	line := []byte(logLine)

	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	var wg sync.WaitGroup
	var totalBytes int64

	for id := uint32(0); id < workers; id++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				s, off, err := r.Acquire(uint32(len(line)))
				if err != nil {
					m.acquireFailures.Inc()
					continue
				}
				copy(backing[off:int(off)+len(line)], line)
				r.Produce(s)
			}
		}()
	}

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			drainBench(r, &totalBytes, m)
			elapsed := time.Since(start).Seconds()
			mbPerSec := float64(atomic.LoadInt64(&totalBytes)) / 1024 / 1024 / elapsed
			logger.Infow("bench run complete", "mb_per_sec", mbPerSec, "bytes", totalBytes)
			return nil
		default:
		}
		_, n := r.Consume()
		if n == 0 {
			continue
		}
		atomic.AddInt64(&totalBytes, int64(n))
		m.bytesConsumed.Add(float64(n))
		r.Release(n)
	}
}

func drainBench(r *ringbuf.Ring, totalBytes *int64, m *metrics) {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		_, n := r.Consume()
		if n == 0 {
			return
		}
		atomic.AddInt64(totalBytes, int64(n))
		m.bytesConsumed.Add(float64(n))
		r.Release(n)
	}
}
