// Package metrics exports allocator statistics to Prometheus.
//
//	tr := memory.NewTracking(nil)
//	prometheus.MustRegister(metrics.NewAllocatorCollector("engine", tr))
//
// Collectors read their source on every scrape; nothing is cached.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/corekit/memory"
)

// AllocatorCollector is a prometheus.Collector over a memory.StatsSource.
type AllocatorCollector struct {
	source memory.StatsSource

	allocs     *prometheus.Desc
	frees      *prometheus.Desc
	reallocs   *prometheus.Desc
	failures   *prometheus.Desc
	bytesTotal *prometheus.Desc
	bytesLive  *prometheus.Desc
	bytesPeak  *prometheus.Desc
}

// NewAllocatorCollector returns a collector exporting the statistics of
// source under namespace.
func NewAllocatorCollector(namespace string, source memory.StatsSource) *AllocatorCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "allocator", name), help, nil, nil)
	}
	return &AllocatorCollector{
		source:     source,
		allocs:     desc("allocations_total", "Total successful allocations."),
		frees:      desc("frees_total", "Total freed blocks."),
		reallocs:   desc("reallocations_total", "Total successful reallocations."),
		failures:   desc("failures_total", "Total allocation requests that failed."),
		bytesTotal: desc("allocated_bytes_total", "Total bytes handed out."),
		bytesLive:  desc("live_bytes", "Bytes currently handed out."),
		bytesPeak:  desc("peak_bytes", "Highest number of live bytes observed."),
	}
}

// Describe implements prometheus.Collector.
func (c *AllocatorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocs
	ch <- c.frees
	ch <- c.reallocs
	ch <- c.failures
	ch <- c.bytesTotal
	ch <- c.bytesLive
	ch <- c.bytesPeak
}

// Collect implements prometheus.Collector.
func (c *AllocatorCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(s.Allocs))
	ch <- prometheus.MustNewConstMetric(c.frees, prometheus.CounterValue, float64(s.Frees))
	ch <- prometheus.MustNewConstMetric(c.reallocs, prometheus.CounterValue, float64(s.Reallocs))
	ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(s.Failures))
	ch <- prometheus.MustNewConstMetric(c.bytesTotal, prometheus.CounterValue, float64(s.BytesTotal))
	ch <- prometheus.MustNewConstMetric(c.bytesLive, prometheus.GaugeValue, float64(s.BytesLive))
	ch <- prometheus.MustNewConstMetric(c.bytesPeak, prometheus.GaugeValue, float64(s.BytesPeak))
}

// BudgetSource is implemented by memory.Budgeted.
type BudgetSource interface {
	Used() int64
	Peak() int64
	Limit() int64
}

// BudgetCollector exports the state of a memory budget.
type BudgetCollector struct {
	source BudgetSource

	used  *prometheus.Desc
	peak  *prometheus.Desc
	limit *prometheus.Desc
}

// NewBudgetCollector returns a collector for source under namespace.
func NewBudgetCollector(namespace string, source BudgetSource) *BudgetCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "budget", name), help, nil, nil)
	}
	return &BudgetCollector{
		source: source,
		used:   desc("used_bytes", "Bytes currently reserved from the budget."),
		peak:   desc("peak_bytes", "Highest reservation observed."),
		limit:  desc("limit_bytes", "Budget limit in bytes, 0 when unlimited."),
	}
}

// Describe implements prometheus.Collector.
func (c *BudgetCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.used
	ch <- c.peak
	ch <- c.limit
}

// Collect implements prometheus.Collector.
func (c *BudgetCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.used, prometheus.GaugeValue, float64(c.source.Used()))
	ch <- prometheus.MustNewConstMetric(c.peak, prometheus.GaugeValue, float64(c.source.Peak()))
	ch <- prometheus.MustNewConstMetric(c.limit, prometheus.GaugeValue, float64(c.source.Limit()))
}

var (
	_ prometheus.Collector = (*AllocatorCollector)(nil)
	_ prometheus.Collector = (*BudgetCollector)(nil)
	_ BudgetSource         = (*memory.Budgeted)(nil)
)
