package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics is the Prometheus surface the original t_benchmark.c only had as
// a single printed "N MB/sec" line: acquire back-pressure, checksum
// failures, and cumulative bytes consumed, scraped instead of printed so a
// long-running stress/bench invocation can be watched externally.
type metrics struct {
	registry         *prometheus.Registry
	acquireFailures  prometheus.Counter
	checksumFailures prometheus.Counter
	bytesConsumed    prometheus.Counter
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	m := &metrics{
		registry: reg,
		acquireFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ringstress",
			Name:      "acquire_failures_total",
			Help:      "Acquire calls that returned ErrWouldBlock.",
		}),
		checksumFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ringstress",
			Name:      "checksum_failures_total",
			Help:      "Consumed messages whose checksum did not match.",
		}),
		bytesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ringstress",
			Name:      "bytes_consumed_total",
			Help:      "Total bytes released by the consumer.",
		}),
	}
	reg.MustRegister(m.acquireFailures, m.checksumFailures, m.bytesConsumed)
	return m
}

// serve starts an HTTP listener exposing the registry at /metrics and
// returns a function that shuts it down.
func (m *metrics) serve(addr string) (func(), error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux}
	go func() {
		_ = srv.Serve(lis)
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
