// SPDX-License-Identifier: EPL-2.0

// Package queue implements an unbounded FIFO with a one-way completion
// signal, used to move sample chunks from producers to the consumer.
package queue

import (
	"context"
	"io"
	"sync"
)

// compactAt is the number of consumed head slots tolerated before the
// backing slice is shifted down.
const compactAt = 64

// Queue is safe for concurrent use by any number of producers and
// consumers. The zero value is not usable; call New.
type Queue[T any] struct {
	mu        sync.Mutex
	items     []T
	head      int
	completed bool

	// wake holds at most one pending token, so a Push wakes at most one
	// waiter. done is closed by MarkCompleted and wakes every waiter.
	wake chan struct{}
	done chan struct{}
}

func New[T any]() *Queue[T] {
	return &Queue[T]{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Push appends v. It never blocks on capacity.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// TryTake removes and returns the oldest item. ok is false when the queue
// is currently empty.
func (q *Queue[T]) TryTake() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.popLocked()
}

// Take blocks until an item is available and returns it. It returns io.EOF
// once the queue has been marked completed and a drain attempt made after
// that finds it empty; items pushed before MarkCompleted are always
// delivered first. It returns ctx.Err() if ctx ends while waiting.
func (q *Queue[T]) Take(ctx context.Context) (T, error) {
	for {
		q.mu.Lock()
		v, ok := q.popLocked()
		completed := q.completed
		q.mu.Unlock()

		if ok {
			return v, nil
		}
		if completed {
			var zero T
			return zero, io.EOF
		}

		select {
		case <-q.wake:
		case <-q.done:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// MarkCompleted records that no further items will be pushed. Calling it
// more than once has no effect.
func (q *Queue[T]) MarkCompleted() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.completed {
		return
	}
	q.completed = true
	close(q.done)
}

func (q *Queue[T]) IsCompleted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.completed
}

// Done is closed when the queue is marked completed.
func (q *Queue[T]) Done() <-chan struct{} { return q.done }

// Len returns the number of items waiting.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items) - q.head
}

func (q *Queue[T]) popLocked() (T, bool) {
	var zero T
	if q.head >= len(q.items) {
		return zero, false
	}

	v := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= compactAt && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}

	return v, true
}
