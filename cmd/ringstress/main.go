// Copyright (c) 2025 ringbuf authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Command ringstress drives a Ring with concurrent producers and a single
// consumer, either checking message integrity under contention (stress)
// or reporting throughput (bench). It is the Go descendant of
// original_source/src/t_stress.c and t_benchmark.c, rebuilt as a cobra
// CLI instead of a fixed argv[1] test-number switch.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	logLevel string
	logger   *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "ringstress",
	Short: "Concurrency stress and throughput tooling for the ringbuf package",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindEnv(cmd); err != nil {
			return err
		}
		l, err := newLogger()
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

// bindEnv wires RINGSTRESS_* environment variables over every flag on cmd,
// giving flag > env > default precedence the way viper's config layering
// does for arcentrix-arcentra and go-arcade-arcade's own CLIs -- this tool
// has no config file to watch, so AutomaticEnv is as far as that layering
// goes here.
func bindEnv(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix("RINGSTRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if bindErr != nil || f.Changed {
			return
		}
		if val := v.Get(f.Name); val != nil {
			if err := f.Value.Set(fmt.Sprint(val)); err != nil {
				bindErr = errors.Wrapf(err, "binding --%s from environment", f.Name)
			}
		}
	})
	return bindErr
}

func newLogger() (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(logLevel)
	if err != nil {
		return nil, errors.Wrap(err, "parsing --log-level")
	}
	cfg.Level = level
	l, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building zap logger")
	}
	return l.Sugar(), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(newStressCmd())
	rootCmd.AddCommand(newBenchCmd())
}

func main() {
	l, err := newLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger = l
	defer logger.Sync() //nolint:errcheck

	if err := rootCmd.Execute(); err != nil {
		logger.Errorw("ringstress failed", "error", err)
		os.Exit(1)
	}
}
