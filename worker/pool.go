// Package worker runs capture jobs off the event loop. The pool is fixed
// size with a 1-slot input queue: a second trigger while a capture is in
// flight is dropped at Submit rather than queued behind it.
package worker

import (
	"context"
	"log"
	"sync"
)

// Job produces the outcome of one capture attempt.
type Job func(ctx context.Context) (string, error)

// ResultCallback is invoked on job completion from a worker goroutine. The
// event loop passes a closure that posts the result back onto its own channel.
type ResultCallback func(status string, err error)

// Pool is a fixed-size capture worker pool with strict back-pressure.
type Pool struct {
	jobs chan queued
	wg   sync.WaitGroup
}

type queued struct {
	ctx context.Context
	run Job
	cb  ResultCallback
}

// New creates a worker pool. Size defaults to 1 when size<=0; capture work is
// serial by nature, more workers only help if jobs ever become independent.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{jobs: make(chan queued, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				status, err := runWithContext(j.ctx, j.run)
				j.cb(status, err)
			}
		}()
	}
}

// Submit enqueues a job if the single-slot queue is free. Returns false if
// the job was dropped.
func (p *Pool) Submit(ctx context.Context, run Job, cb ResultCallback) bool {
	select {
	case p.jobs <- queued{ctx: ctx, run: run, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

// runWithContext honors a context deadline around a job that cannot be
// interrupted midway. On timeout the job keeps running in the background and
// the caller gets ctx.Err.
func runWithContext(ctx context.Context, run Job) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		return run(ctx)
	}
	resCh := make(chan struct {
		status string
		err    error
	}, 1)
	go func() {
		status, err := run(ctx)
		resCh <- struct {
			status string
			err    error
		}{status, err}
	}()
	select {
	case r := <-resCh:
		return r.status, r.err
	case <-ctx.Done():
		log.Printf("worker: job abandoned after deadline: %v", ctx.Err())
		return "", ctx.Err()
	}
}
