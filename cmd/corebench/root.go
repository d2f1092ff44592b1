package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/hupe1980/corekit/logging"
)

var (
	// Global flags
	verbose     bool
	jsonOut     bool
	showMetrics bool
	opCount     int
	allocName   string
	budget      int64
	parallel    int
	profileMode string
)

var stopProfile interface{ Stop() }

var rootCmd = &cobra.Command{
	Use:   "corebench",
	Short: "Exercise corekit containers and report allocator statistics",
	Long: `corebench runs container workloads (growable array, circular queue,
open-hashing map, slab pool) against a chosen allocator and prints the final
container shape, the elapsed time and what the allocator saw.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log reallocations and rehashes")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "Print Prometheus metrics after the run")
	rootCmd.PersistentFlags().IntVar(&opCount, "n", 1000, "Number of elements per workload")
	rootCmd.PersistentFlags().StringVar(&allocName, "allocator", "heap", "Allocator backend: heap or mmap")
	rootCmd.PersistentFlags().Int64Var(&budget, "budget", 0, "Memory budget in bytes (0 = unlimited)")
	rootCmd.PersistentFlags().IntVar(&parallel, "parallel", 1, "Number of workers, each with its own containers")
	rootCmd.PersistentFlags().StringVar(&profileMode, "profile", "", "Write a profile: cpu or mem")

	for _, w := range workloads {
		rootCmd.AddCommand(newWorkloadCmd(w.name, w.short, []workload{w}))
	}
	rootCmd.AddCommand(newWorkloadCmd("all", "Run every workload", workloads))

	cobra.OnFinalize(teardown)
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(*cobra.Command, []string) error {
	if opCount < 0 {
		return fmt.Errorf("--n must not be negative, got %d", opCount)
	}
	if parallel < 1 {
		return fmt.Errorf("--parallel must be at least 1, got %d", parallel)
	}

	severity := logging.Info
	if verbose {
		severity = logging.Debug
	}
	benchChannel = logging.NewChannel("corebench", severity)
	logging.Initialize(logging.NewTextHandler(os.Stderr))

	switch strings.ToLower(profileMode) {
	case "":
	case "cpu":
		stopProfile = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	case "mem":
		stopProfile = profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	default:
		return fmt.Errorf("unknown profile mode %q (want cpu or mem)", profileMode)
	}
	return nil
}

func teardown() {
	if stopProfile != nil {
		stopProfile.Stop()
		stopProfile = nil
	}
	logging.Shutdown()
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	logging.Log(benchChannel, logging.Debug, format, args...)
}
