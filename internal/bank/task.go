package bank

import (
	"context"
	"sync"
)

// Task is the pending result of an asynchronous operation.
type Task[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once
	value  T
	err    error
}

// Start runs fn in its own goroutine. Cancelling parent or calling Cancel
// cancels the context handed to fn.
func Start[T any](parent context.Context, fn func(ctx context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancel(parent)
	t := &Task[T]{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer close(t.done)
		defer cancel()
		t.value, t.err = fn(ctx)
	}()
	return t
}

// Done is closed once the task has finished.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Cancel asks the task to stop. It is safe to call more than once.
func (t *Task[T]) Cancel() {
	t.once.Do(t.cancel)
}

// Wait blocks until the task finishes or ctx ends. Giving up on ctx does not
// cancel the task.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
