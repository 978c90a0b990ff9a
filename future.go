package snapshot

import (
	"context"
	"sync"
)

// Future reports the completion of a submitted command sequence.
type Future struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// resolvedFuture returns a future that is already complete.
func resolvedFuture(err error) *Future {
	f := newFuture()
	f.resolve(err)
	return f
}

// resolve completes the future. Later calls are ignored.
func (f *Future) resolve(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done is closed once the sequence executed, failed or was dropped.
func (f *Future) Done() <-chan struct{} { return f.done }

// Err returns the outcome, or nil while the future is pending.
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Wait blocks until the future completes or ctx is done.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
