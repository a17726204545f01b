// seehuhn.de/go/pageview - incremental page rendering for document viewers
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pageview

import (
	"errors"
	"runtime"
	"sync"
)

// ErrPoolClosed is returned when work is submitted after the worker pool
// has been closed.
var ErrPoolClosed = errors.New("pageview: worker pool closed")

// workerPool runs submitted functions on a fixed set of long-lived
// goroutines.  The queue is unbounded, so that Submit never blocks.
//
// Thread safety: workerPool is safe for concurrent use.
type workerPool struct {
	workers int

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool

	// wg waits for all workers to finish.
	wg sync.WaitGroup
}

// newWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, runtime.NumCPU() is used.
func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &workerPool{workers: workers}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

// worker is the main loop for each worker goroutine.  After Close, the
// workers keep running until the queue is empty.
func (p *workerPool) worker() {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		work := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.mu.Unlock()

		work()
	}
}

// Submit queues work for execution by one of the workers.
func (p *workerPool) Submit(work func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPoolClosed
	}
	p.queue = append(p.queue, work)
	p.cond.Signal()
	return nil
}

// Close stops accepting work, runs all work which is already queued and
// waits for the workers to exit.  It is safe to call Close multiple times.
func (p *workerPool) Close() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *workerPool) Workers() int {
	return p.workers
}

// Queued returns the number of work items waiting for a worker.
func (p *workerPool) Queued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}
