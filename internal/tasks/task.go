package tasks

import "context"

// Task is one background operation. Its updates arrive in order on [Task.Updates]; the channel is
// closed before the outcome becomes available, so the outcome is always the last thing observed.
type Task[T any] struct {
	updates chan ProgressUpdate
	done    chan struct{}
	result  T
	err     error
}

// Work is the body of a [Task].
type Work[T any] func(ctx context.Context, progress chan<- ProgressUpdate) (T, error)

// Start runs fn on its own goroutine.
func Start[T any](ctx context.Context, fn Work[T]) *Task[T] {
	t := &Task[T]{
		updates: make(chan ProgressUpdate, 16),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		t.result, t.err = fn(ctx, t.updates)
		close(t.updates)
	}()
	return t
}

// Updates streams status and progress events until the work returns.
func (t *Task[T]) Updates() <-chan ProgressUpdate {
	return t.updates
}

// Done is closed once the outcome is available.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Result blocks until the work returns. The caller must keep draining [Task.Updates] meanwhile.
func (t *Task[T]) Result() (T, error) {
	<-t.done
	return t.result, t.err
}

// Wait discards any undelivered updates and returns the outcome.
func (t *Task[T]) Wait() (T, error) {
	for range t.updates {
	}
	return t.Result()
}
