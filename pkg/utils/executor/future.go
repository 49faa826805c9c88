package executor

import (
	"context"
	"sync"
)

// Future holds the eventual result of a task submitted with SubmitWithError.
// On error the result is the default value given at submission.
type Future[T any] struct {
	mu           sync.Mutex
	done         chan struct{}
	result       T
	err          error
	defaultValue T
	callbacks    []func(T, error)
}

func newFuture[T any](defaultValue T) *Future[T] {
	return &Future[T]{
		done:         make(chan struct{}),
		defaultValue: defaultValue,
	}
}

func (f *Future[T]) complete(result T, err error) {
	f.mu.Lock()
	select {
	case <-f.done:
		f.mu.Unlock()
		return
	default:
	}
	if err != nil {
		result = f.defaultValue
	}
	f.result, f.err = result, err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(result, err)
	}
}

// Get blocks until the task finishes
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.result, f.err
}

// GetContext is Get that gives up when ctx is done. The task itself keeps running.
func (f *Future[T]) GetContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return f.defaultValue, ctx.Err()
	}
}

// ThenAccept registers next to run once the task completes. If it already has, next runs immediately on the caller's goroutine.
func (f *Future[T]) ThenAccept(next func(T, error)) {
	f.mu.Lock()
	select {
	case <-f.done:
		f.mu.Unlock()
		next(f.result, f.err)
		return
	default:
	}
	f.callbacks = append(f.callbacks, next)
	f.mu.Unlock()
}

func (f *Future[T]) HandleError(handleError func(error)) {
	f.ThenAccept(func(_ T, err error) {
		if err != nil {
			handleError(err)
		}
	})
}
