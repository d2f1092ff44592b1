package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/hupe1980/corekit/memory"
	"github.com/hupe1980/corekit/metrics"
)

const metricsNamespace = "corebench"

// Report is the JSON document printed with --json.
type Report struct {
	Allocator string             `json:"allocator"`
	Budget    int64              `json:"budget,omitempty"`
	Results   []Result           `json:"results"`
	Stats     memory.Stats       `json:"stats"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	Error     string             `json:"error,omitempty"`
}

func report(w io.Writer, results []Result, stack *allocStack, runErr error) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewAllocatorCollector(metricsNamespace, stack.tracking))
	if stack.budget != nil {
		reg.MustRegister(metrics.NewBudgetCollector(metricsNamespace, stack.budget))
	}

	if jsonOut {
		doc := Report{
			Allocator: allocName,
			Budget:    budget,
			Results:   results,
			Stats:     stack.tracking.Stats(),
		}
		if runErr != nil {
			doc.Error = runErr.Error()
		}
		if showMetrics {
			values, err := gatherValues(reg)
			if err != nil {
				return err
			}
			doc.Metrics = values
		}
		return printJSON(w, doc)
	}

	printResults(w, results)
	printStats(w, stack.tracking.Stats())
	if showMetrics {
		return printMetrics(w, reg)
	}
	return nil
}

// printJSON outputs data as JSON
func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printResults(w io.Writer, results []Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WORKLOAD\tWORKER\tLEN\tCAPACITY\tBLOCKS\tLOAD\tDURATION")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.3f\t%s\n",
			r.Workload, r.Worker, r.Len, r.Capacity, r.Blocks, r.LoadFactor, r.Duration)
	}
	_ = tw.Flush()
}

func printStats(w io.Writer, s memory.Stats) {
	fmt.Fprintf(w, "\nallocs=%d frees=%d reallocs=%d failures=%d\n", s.Allocs, s.Frees, s.Reallocs, s.Failures)
	fmt.Fprintf(w, "bytes: live=%d peak=%d total=%d\n", s.BytesLive, s.BytesPeak, s.BytesTotal)
}

func printMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// gatherValues flattens the gathered families into name -> value. The
// collectors export unlabeled counters and gauges only.
func gatherValues(reg *prometheus.Registry) (map[string]float64, error) {
	families, err := reg.Gather()
	if err != nil {
		return nil, err
	}
	values := make(map[string]float64, len(families))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	return values, nil
}
