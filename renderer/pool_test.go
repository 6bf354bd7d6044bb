package renderer

import (
	"runtime"
	"sync/atomic"
	"testing"
)

// TestWorkerPoolDefaultSize verifies non-positive counts select GOMAXPROCS.
func TestWorkerPoolDefaultSize(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit", 3, 3},
		{"zero uses GOMAXPROCS", 0, runtime.GOMAXPROCS(0)},
		{"negative uses GOMAXPROCS", -4, runtime.GOMAXPROCS(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newWorkerPool(tt.workers)
			defer p.Close()
			if p.workers != tt.want {
				t.Errorf("newWorkerPool(%d).workers = %d, want %d", tt.workers, p.workers, tt.want)
			}
		})
	}
}

// TestWorkerPoolExecuteAll verifies every job in a batch runs exactly once.
func TestWorkerPoolExecuteAll(t *testing.T) {
	p := newWorkerPool(4)
	defer p.Close()

	const jobs = 100
	var ran atomic.Int64
	batch := make([]func(), jobs)
	for i := range batch {
		batch[i] = func() { ran.Add(1) }
	}

	p.ExecuteAll(batch)
	if got := ran.Load(); got != jobs {
		t.Errorf("batch ran %d jobs, want %d", got, jobs)
	}
}

// TestWorkerPoolDisjointWrites verifies a batch writing disjoint slots
// completes without losing a write, the access pattern of row rendering.
func TestWorkerPoolDisjointWrites(t *testing.T) {
	p := newWorkerPool(8)
	defer p.Close()

	const rows = 64
	out := make([]int, rows)
	batch := make([]func(), rows)
	for y := range batch {
		y := y
		batch[y] = func() { out[y] = y + 1 }
	}

	p.ExecuteAll(batch)
	for y, v := range out {
		if v != y+1 {
			t.Fatalf("row %d = %d, want %d", y, v, y+1)
		}
	}
}

// TestWorkerPoolReuse verifies the pool survives repeated batches, since
// a render loop dispatches one batch per frame.
func TestWorkerPoolReuse(t *testing.T) {
	p := newWorkerPool(2)
	defer p.Close()

	var ran atomic.Int64
	for frame := 0; frame < 10; frame++ {
		batch := make([]func(), 16)
		for i := range batch {
			batch[i] = func() { ran.Add(1) }
		}
		p.ExecuteAll(batch)
	}
	if got := ran.Load(); got != 160 {
		t.Errorf("ran %d jobs across batches, want 160", got)
	}
}
