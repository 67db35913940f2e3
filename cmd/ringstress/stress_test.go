package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger = zap.NewNop().Sugar()
	os.Exit(m.Run())
}

// TestRunStress_Smoke confirms the stress loop wires together end to end:
// it runs briefly against a small ring and must exit cleanly with no
// checksum corruption reported.
func TestRunStress_Smoke(t *testing.T) {
	err := runStress(context.Background(), 4, 256, 50*time.Millisecond, "")
	require.NoError(t, err)
}

// TestRunBench_Smoke mirrors TestRunStress_Smoke for the throughput path.
func TestRunBench_Smoke(t *testing.T) {
	err := runBench(context.Background(), 4, 4096, 50*time.Millisecond, "")
	require.NoError(t, err)
}
