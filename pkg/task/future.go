package task

import "context"

// Future is the pending result of a job started with Go.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go submits fn to the pool and returns a future for its result.
func Go[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) (*Future[T], error) {
	f := &Future[T]{done: make(chan struct{})}
	err := p.SubmitCtx(ctx, func(ctx context.Context) error {
		defer close(f.done)
		f.val, f.err = fn(ctx)
		return f.err
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Done is closed once the job has finished.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until the job finishes or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
