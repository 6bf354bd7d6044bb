// renderer/pool.go
package renderer

import (
	"runtime"
	"sync"
)

// workerPool runs render jobs across a fixed set of goroutines. Workers
// start once and live for the renderer's lifetime; every frame dispatches
// one job per row band and waits for the batch to drain.
type workerPool struct {
	workers int
	jobs    chan func()
	wg      sync.WaitGroup
}

// newWorkerPool creates a pool. workers <= 0 selects GOMAXPROCS.
func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &workerPool{
		workers: workers,
		jobs:    make(chan func(), workers*2),
	}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *workerPool) worker() {
	for job := range p.jobs {
		job()
		p.wg.Done()
	}
}

// ExecuteAll submits a batch of jobs and blocks until every one has run.
// Jobs must touch disjoint data; the pool adds no synchronization beyond
// the batch barrier.
func (p *workerPool) ExecuteAll(jobs []func()) {
	p.wg.Add(len(jobs))
	for _, job := range jobs {
		p.jobs <- job
	}
	p.wg.Wait()
}

// Close stops the workers. The pool must be idle.
func (p *workerPool) Close() {
	close(p.jobs)
}
