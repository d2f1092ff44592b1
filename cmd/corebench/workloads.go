package main

import (
	"time"

	"github.com/hupe1980/corekit"
	"github.com/hupe1980/corekit/array"
	"github.com/hupe1980/corekit/hashmap"
	"github.com/hupe1980/corekit/memory"
	"github.com/hupe1980/corekit/pool"
	"github.com/hupe1980/corekit/queue"
)

// Result describes the containers of one workload after it finished.
type Result struct {
	Workload   string        `json:"workload"`
	Worker     int           `json:"worker"`
	Len        int           `json:"len"`
	Capacity   int           `json:"capacity"`
	Buckets    int           `json:"buckets,omitempty"`
	LoadFactor float64       `json:"load_factor,omitempty"`
	Blocks     int           `json:"blocks,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

type workloadConfig struct {
	n      int
	alloc  memory.Allocator
	logger *corekit.Logger
}

type workload struct {
	name  string
	short string
	run   func(cfg workloadConfig) (Result, error)
}

var workloads = []workload{
	{name: "array", short: "Push, pop and shrink a growable array", run: runArray},
	{name: "queue", short: "Enqueue and drain a circular queue", run: runQueue},
	{name: "map", short: "Fill a hash map and remove every even key", run: runMap},
	{name: "pool", short: "Allocate, free and reuse pool slots", run: runPool},
}

type transform struct {
	Position [3]float32
	Rotation [4]float32
	Scale    float32
}

func runArray(cfg workloadConfig) (Result, error) {
	a := array.New[transform](array.WithAllocator(cfg.alloc), array.WithLogger(cfg.logger))
	defer a.Release()

	for i := range cfg.n {
		t, err := a.EmplaceBack()
		if err != nil {
			return Result{}, err
		}
		t.Position[0] = float32(i)
		t.Scale = 1
	}
	for range cfg.n / 2 {
		a.PopBack()
	}
	if err := a.ShrinkToFit(); err != nil {
		return Result{}, err
	}
	return Result{Len: a.Len(), Capacity: a.Cap()}, nil
}

func runQueue(cfg workloadConfig) (Result, error) {
	q, err := queue.NewWithCapacity[int64](8, queue.WithAllocator(cfg.alloc), queue.WithLogger(cfg.logger))
	if err != nil {
		return Result{}, err
	}
	defer q.Release()

	for i := range cfg.n {
		if err := q.Enqueue(int64(i)); err != nil {
			return Result{}, err
		}
		// Keep head and tail moving so the buffer wraps.
		if i%3 == 2 {
			q.Dequeue()
		}
	}
	return Result{Len: q.Len(), Capacity: q.Cap()}, nil
}

func runMap(cfg workloadConfig) (Result, error) {
	m, err := hashmap.New[int, transform](hashmap.WithAllocator(cfg.alloc), hashmap.WithLogger(cfg.logger))
	if err != nil {
		return Result{}, err
	}
	defer m.Release()

	for i := range cfg.n {
		v, _, err := m.FindOrInsertDefault(i)
		if err != nil {
			return Result{}, err
		}
		v.Scale = float32(i)
	}
	for i := 0; i < cfg.n; i += 2 {
		m.Remove(i)
	}
	return Result{
		Len:        m.Len(),
		Capacity:   m.BucketCount(),
		Buckets:    m.BucketCount(),
		LoadFactor: m.LoadFactor(),
	}, nil
}

func runPool(cfg workloadConfig) (Result, error) {
	p := pool.New[transform](
		pool.WithAllocator(cfg.alloc),
		pool.WithLogger(cfg.logger),
		pool.WithPolicy(pool.Exponential),
	)
	defer p.Release()

	handles := make([]pool.Handle, 0, cfg.n)
	for range cfg.n {
		h, err := p.AllocateZero()
		if err != nil {
			return Result{}, err
		}
		handles = append(handles, h)
	}
	for i := 0; i < len(handles); i += 2 {
		p.Free(handles[i])
	}
	for range len(handles) / 2 {
		if _, err := p.Allocate(transform{Scale: 1}); err != nil {
			return Result{}, err
		}
	}
	return Result{Len: p.Allocated(), Capacity: p.Size(), Blocks: p.Blocks()}, nil
}
