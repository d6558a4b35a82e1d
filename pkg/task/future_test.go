package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureReturnsValue(t *testing.T) {
	p := NewPool(1, 4)
	p.Start(context.Background())
	defer p.Close()

	f, err := Go(context.Background(), p, func(ctx context.Context) (string, error) {
		return "走る", nil
	})
	require.NoError(t, err)
	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "走る", v)

	select {
	case <-f.Done():
	default:
		t.Fatal("Done not closed after Wait returned")
	}
}

func TestFutureReturnsError(t *testing.T) {
	p := NewPool(1, 4)
	p.Start(context.Background())
	defer p.Close()

	boom := errors.New("boom")
	f, err := Go(context.Background(), p, func(ctx context.Context) (int, error) {
		return 0, boom
	})
	require.NoError(t, err)
	_, err = f.Wait(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestFutureWaitHonorsContext(t *testing.T) {
	p := NewPool(1, 4)
	p.Start(context.Background())
	release := make(chan struct{})
	defer func() {
		close(release)
		p.Close()
	}()

	f, err := Go(context.Background(), p, func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGoOnClosedPool(t *testing.T) {
	p := NewPool(1, 1)
	p.Close()
	_, err := Go(context.Background(), p, func(ctx context.Context) (int, error) { return 1, nil })
	assert.ErrorIs(t, err, ErrPoolClosed)
}
