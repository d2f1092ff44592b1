package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/corekit/internal/resource"
	"github.com/hupe1980/corekit/logging"
	"github.com/hupe1980/corekit/memory"
)

var benchChannel = logging.NewChannel("corebench", logging.Info)

func newWorkloadCmd(name, short string, selected []workload) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stack, err := newAllocStack(allocName, budget)
			if err != nil {
				return err
			}
			defer stack.Close()

			results, runErr := runWorkloads(cmd.Context(), selected, stack.Allocator(), opCount, parallel)
			if err := report(cmd.OutOrStdout(), results, stack, runErr); err != nil {
				return err
			}
			return runErr
		},
	}
}

// runWorkloads runs every selected workload once per worker. Workers share
// the allocator but never a container.
func runWorkloads(ctx context.Context, selected []workload, alloc memory.Allocator, n, workers int) ([]Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctrl := resource.NewController(resource.Config{MaxWorkers: int64(workers)})
	results := make([][]Result, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			if err := ctrl.AcquireWorker(ctx); err != nil {
				return err
			}
			defer ctrl.ReleaseWorker()

			cfg := workloadConfig{n: n, alloc: alloc, logger: logging.For(benchChannel)}
			for _, wl := range selected {
				if err := ctx.Err(); err != nil {
					return err
				}
				printVerbose("worker %d: starting %s", w, wl.name)

				start := time.Now()
				res, err := wl.run(cfg)
				if err != nil {
					return err
				}
				res.Workload = wl.name
				res.Worker = w
				res.Duration = time.Since(start)
				results[w] = append(results[w], res)
			}
			return nil
		})
	}
	err := g.Wait()

	var flat []Result
	for _, rs := range results {
		flat = append(flat, rs...)
	}
	return flat, err
}
