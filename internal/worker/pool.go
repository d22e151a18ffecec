// Package worker provides a worker pool for loading repertoires in parallel.
package worker

import (
	"context"
	"sync"
	"sync/atomic"
)

// WorkItem names a repertoire to load.
type WorkItem struct {
	RepertoireID string
	Index        int // Original index for tracking
}

// ProcessResult represents the result of loading one repertoire.
type ProcessResult struct {
	RepertoireID string
	Index        int
	Nodes        int // Tree size after replay
	Skipped      bool
	Error        error
}

// ProcessFunc loads one repertoire.
type ProcessFunc func(ctx context.Context, item WorkItem) ProcessResult

// Pool manages a pool of workers for parallel repertoire loading.
type Pool struct {
	numWorkers  int
	bufferSize  int
	workChan    chan WorkItem
	resultChan  chan ProcessResult
	processFunc ProcessFunc
	wg          sync.WaitGroup
	stopFlag    atomic.Bool
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.numWorkers = n
		}
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) PoolOption {
	return func(p *Pool) {
		if size >= 1 {
			p.bufferSize = size
		}
	}
}

// NewPool creates a worker pool. processFunc is required; by default the
// pool has one worker and a buffer of 10.
func NewPool(processFunc ProcessFunc, opts ...PoolOption) *Pool {
	p := &Pool{
		numWorkers:  1,
		bufferSize:  10,
		processFunc: processFunc,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.workChan = make(chan WorkItem, p.bufferSize)
	p.resultChan = make(chan ProcessResult, p.bufferSize)
	return p
}

// Start starts the worker goroutines. Once ctx is done the pool stops and
// remaining items come back marked Skipped.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for item := range p.workChan {
		if ctx.Err() != nil {
			p.Stop()
		}
		if p.IsStopped() {
			p.resultChan <- ProcessResult{RepertoireID: item.RepertoireID, Index: item.Index, Skipped: true}
			continue
		}
		p.resultChan <- p.processFunc(ctx, item)
	}
}

// Submit submits a work item. It blocks while the buffer is full.
func (p *Pool) Submit(item WorkItem) {
	p.workChan <- item
}

// Stop makes workers skip the items still queued.
func (p *Pool) Stop() {
	p.stopFlag.Store(true)
}

// IsStopped reports whether Stop was called.
func (p *Pool) IsStopped() bool {
	return p.stopFlag.Load()
}

// Close closes the work channel, waits for the workers and then closes the
// result channel.
func (p *Pool) Close() {
	close(p.workChan)
	p.wg.Wait()
	close(p.resultChan)
}

// Results returns the result channel.
func (p *Pool) Results() <-chan ProcessResult {
	return p.resultChan
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Run loads every id with fn on a fresh pool and returns the results in
// input order.
func Run(ctx context.Context, ids []string, fn ProcessFunc, opts ...PoolOption) []ProcessResult {
	pool := NewPool(fn, opts...)
	pool.Start(ctx)

	go func() {
		for i, id := range ids {
			pool.Submit(WorkItem{RepertoireID: id, Index: i})
		}
		pool.Close()
	}()

	results := make([]ProcessResult, len(ids))
	for r := range pool.Results() {
		results[r.Index] = r
	}
	return results
}
