package bqueue

import (
	"errors"
	"time"
)

// Returned when a blocking Put or Get outlives its timeout. Both sides
// of the queue treat this as a peer failure, not something to retry.
var ErrTimeout = errors.New("bqueue: timed out")

// Bounded blocking queue
type Queue[T any] struct {
	ch chan T
}

// Bounded blocking queue
func New[T any](capacity int) *Queue[T] {
	return &Queue[T]{
		ch: make(chan T, capacity),
	}
}

// Put blocks while the queue is full, up to timeout.
func (h *Queue[T]) Put(item T, timeout time.Duration) error {
	select {
	case h.ch <- item:
		return nil
	case <-time.After(timeout):
		return ErrTimeout
	}
}

// Get blocks while the queue is empty, up to timeout.
func (h *Queue[T]) Get(timeout time.Duration) (T, error) {
	select {
	case item := <-h.ch:
		return item, nil
	case <-time.After(timeout):
		var zero T
		return zero, ErrTimeout
	}
}

// TryGet never blocks. The second return reports whether an item was
// available.
func (h *Queue[T]) TryGet() (T, bool) {
	select {
	case item := <-h.ch:
		return item, true
	default:
		var zero T
		return zero, false
	}
}

func (h *Queue[T]) Count() int {
	return len(h.ch)
}

func (h *Queue[T]) Capacity() int {
	return cap(h.ch)
}
