package queues

import (
	"sync"
	"time"
)

// BoundedQueue is a fixed-capacity FIFO shared by many producers and one consumer.
//
// Producers never block: TryEnqueue rejects the newest value when the queue is full
// or closed. The consumer blocks in TryDequeue for at most the given timeout.
// After Close, values already queued stay dequeuable until drained.
type BoundedQueue[T any] struct {
	ch chan T

	mu     sync.RWMutex
	closed bool
}

func NewBoundedQueue[T any](capacity int) *BoundedQueue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &BoundedQueue[T]{ch: make(chan T, capacity)}
}

// TryEnqueue reports whether v was accepted.
func (queue *BoundedQueue[T]) TryEnqueue(v T) bool {
	queue.mu.RLock()
	defer queue.mu.RUnlock()

	if queue.closed {
		return false
	}
	select {
	case queue.ch <- v:
		return true
	default:
		return false
	}
}

// TryDequeue returns the oldest value, waiting up to timeout for one to arrive.
// A non-positive timeout polls without waiting.
func (queue *BoundedQueue[T]) TryDequeue(timeout time.Duration) (T, bool) {
	var zero T

	select {
	case v, ok := <-queue.ch:
		return v, ok
	default:
	}
	if timeout <= 0 {
		return zero, false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case v, ok := <-queue.ch:
		return v, ok
	case <-timer.C:
		return zero, false
	}
}

// Close stops accepting values. Calling it more than once has no effect.
func (queue *BoundedQueue[T]) Close() {
	queue.mu.Lock()
	defer queue.mu.Unlock()

	if queue.closed {
		return
	}
	queue.closed = true
	close(queue.ch)
}

func (queue *BoundedQueue[T]) IsClosed() bool {
	queue.mu.RLock()
	defer queue.mu.RUnlock()
	return queue.closed
}

// IsClosedAndEmpty is the consumer's termination condition.
func (queue *BoundedQueue[T]) IsClosedAndEmpty() bool {
	return queue.IsClosed() && len(queue.ch) == 0
}

func (queue *BoundedQueue[T]) Len() int { return len(queue.ch) }

func (queue *BoundedQueue[T]) Cap() int { return cap(queue.ch) }
