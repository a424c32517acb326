package ingest

import (
	"github.com/panjf2000/ants/v2"
)

// TaskQueue schedules ingestion tasks. Implementations decide the degree of
// cross-session parallelism; stages within a task are always sequential.
type TaskQueue interface {
	// Enqueue schedules a task for execution.
	Enqueue(task func()) error

	// Release stops the queue. Pending tasks may be dropped.
	Release()
}

// PoolQueue runs tasks on an ants worker pool.
type PoolQueue struct {
	pool *ants.Pool
}

var _ TaskQueue = (*PoolQueue)(nil)

// NewPoolQueue creates a queue backed by a pool of size workers.
func NewPoolQueue(size int) (*PoolQueue, error) {
	if size < 1 {
		size = 1
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}
	return &PoolQueue{pool: pool}, nil
}

// Enqueue submits the task to the pool, blocking while all workers are busy.
func (q *PoolQueue) Enqueue(task func()) error {
	return q.pool.Submit(task)
}

// Release stops the pool.
func (q *PoolQueue) Release() {
	q.pool.Release()
}

// InlineQueue executes tasks synchronously on the caller's goroutine.
// Used in tests and for one-shot CLI runs where parallelism buys nothing.
type InlineQueue struct{}

var _ TaskQueue = (*InlineQueue)(nil)

// Enqueue runs the task immediately.
func (q *InlineQueue) Enqueue(task func()) error {
	task()
	return nil
}

// Release is a no-op.
func (q *InlineQueue) Release() {}
