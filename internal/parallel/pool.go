package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned by Run after Close.
var ErrPoolClosed = errors.New("parallel: worker pool closed")

// WorkerPool is a pool of goroutines for tile evaluation.
//
// Each worker owns a queue and steals from the others when its own queue is
// empty, which balances tiles of uneven cost.
type WorkerPool struct {
	workers int

	// queues holds per-worker work queues.
	queues []chan func()

	// done signals workers to stop.
	done      chan struct{}
	closeOnce sync.Once

	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			work()
			continue
		default:
		}

		if stolen := p.steal(id); stolen != nil {
			stolen()
			continue
		}

		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			work()
		}
	}
}

// drain runs whatever is left in a queue after Close.
func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

// steal takes one item from another worker's queue, or returns nil.
func (p *WorkerPool) steal(self int) func() {
	for i := 1; i < p.workers; i++ {
		select {
		case work := <-p.queues[(self+i)%p.workers]:
			return work
		default:
		}
	}
	return nil
}

// submit queues work on the given worker. It reports false if the pool is
// shutting down.
func (p *WorkerPool) submit(worker int, work func()) bool {
	select {
	case p.queues[worker%p.workers] <- work:
		return true
	case <-p.done:
		return false
	}
}

// ExecuteAll runs every function and waits for all of them.
// If the pool is closed, this is a no-op.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 || !p.running.Load() {
		return
	}

	var pending sync.WaitGroup
	pending.Add(len(work))
	for i, fn := range work {
		if !p.submit(i, func() {
			defer pending.Done()
			fn()
		}) {
			pending.Done()
		}
	}
	pending.Wait()
}

// Run calls fn(i) for i in [0, n) across the workers and waits for all calls
// to finish. After the first error or cancellation of ctx, items that have
// not started are skipped. Run returns the first error, or ctx.Err().
//
// fn must not call Run on the same pool.
func (p *WorkerPool) Run(ctx context.Context, n int, fn func(i int) error) error {
	if !p.running.Load() {
		return ErrPoolClosed
	}
	if n <= 0 {
		return ctx.Err()
	}

	var (
		pending  sync.WaitGroup
		stopped  atomic.Bool
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
		stopped.Store(true)
	}

	pending.Add(n)
	for i := range n {
		queued := p.submit(i, func() {
			defer pending.Done()
			if stopped.Load() {
				return
			}
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}
			if err := fn(i); err != nil {
				fail(err)
			}
		})
		if !queued {
			pending.Done()
			fail(ErrPoolClosed)
		}
	}
	pending.Wait()
	return firstErr
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int { return p.workers }

// IsRunning reports whether the pool accepts work.
func (p *WorkerPool) IsRunning() bool { return p.running.Load() }

// Close stops the workers after the queued work has run. It is safe to call
// more than once.
func (p *WorkerPool) Close() {
	p.closeOnce.Do(func() {
		p.running.Store(false)
		close(p.done)
		p.wg.Wait()
	})
}
