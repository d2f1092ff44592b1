package main

import (
	"bytes"
	"context"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/corekit"
)

func TestWorkloads(t *testing.T) {
	stack, err := newAllocStack("heap", 0)
	require.NoError(t, err)
	defer stack.Close()

	cfg := workloadConfig{n: 1000, alloc: stack.Allocator()}

	res, err := runArray(cfg)
	require.NoError(t, err)
	assert.Equal(t, 500, res.Len)
	assert.Equal(t, 500, res.Capacity)

	res, err = runQueue(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1000-333, res.Len)
	assert.GreaterOrEqual(t, res.Capacity, res.Len)

	res, err = runMap(cfg)
	require.NoError(t, err)
	assert.Equal(t, 500, res.Len)
	assert.Equal(t, 2048, res.Buckets)

	res, err = runPool(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1000, res.Len)
	assert.Equal(t, 1024, res.Capacity)

	assert.Zero(t, stack.tracking.Stats().BytesLive, "every workload releases its containers")
}

func TestRunWorkloads_Parallel(t *testing.T) {
	stack, err := newAllocStack("heap", 0)
	require.NoError(t, err)

	results, err := runWorkloads(context.Background(), workloads, stack.Allocator(), 200, 3)
	require.NoError(t, err)
	assert.Len(t, results, 3*len(workloads))

	workers := map[int]int{}
	for _, r := range results {
		workers[r.Worker]++
	}
	assert.Len(t, workers, 3)
	assert.Zero(t, stack.tracking.Stats().BytesLive)
}

func TestRunWorkloads_Budget(t *testing.T) {
	stack, err := newAllocStack("heap", 4096)
	require.NoError(t, err)

	_, err = runWorkloads(context.Background(), workloads, stack.Allocator(), 100000, 1)
	require.ErrorIs(t, err, corekit.ErrOutOfMemory)
	assert.Positive(t, stack.tracking.Stats().Failures)
	assert.Zero(t, stack.budget.Used(), "failed workloads still release what they got")
}

func TestRunWorkloads_Mmap(t *testing.T) {
	stack, err := newAllocStack("mmap", 0)
	require.NoError(t, err)
	defer stack.Close()

	if _, err := stack.Allocator().Allocate(1, 8); err != nil {
		t.Skipf("anonymous mappings unavailable: %v", err)
	}

	_, err = runWorkloads(context.Background(), workloads, stack.Allocator(), 500, 2)
	require.NoError(t, err)
}

func TestNewAllocStack_Unknown(t *testing.T) {
	_, err := newAllocStack("arena", 0)
	assert.Error(t, err)
}

func TestReport_JSON(t *testing.T) {
	stack, err := newAllocStack("heap", 1<<20)
	require.NoError(t, err)
	results, err := runWorkloads(context.Background(), workloads[:1], stack.Allocator(), 10, 1)
	require.NoError(t, err)

	jsonOut, showMetrics = true, true
	t.Cleanup(func() { jsonOut, showMetrics = false, false })

	var buf bytes.Buffer
	require.NoError(t, report(&buf, results, stack, nil))

	var doc Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Results, 1)
	assert.Equal(t, "array", doc.Results[0].Workload)
	assert.Contains(t, doc.Metrics, "corebench_allocator_live_bytes")
	assert.Contains(t, doc.Metrics, "corebench_budget_limit_bytes")
	assert.Equal(t, float64(1<<20), doc.Metrics["corebench_budget_limit_bytes"])
}

func TestReport_Text(t *testing.T) {
	stack, err := newAllocStack("heap", 0)
	require.NoError(t, err)
	results, err := runWorkloads(context.Background(), workloads, stack.Allocator(), 10, 1)
	require.NoError(t, err)

	showMetrics = true
	t.Cleanup(func() { showMetrics = false })

	var buf bytes.Buffer
	require.NoError(t, report(&buf, results, stack, nil))

	out := buf.String()
	assert.Contains(t, out, "WORKLOAD")
	assert.Contains(t, out, "pool")
	assert.Contains(t, out, "# TYPE corebench_allocator_allocations_total counter")
}
