package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueueRetriesUntilSuccess(t *testing.T) {
	var calls int32
	done := make(chan struct{})
	q := NewQueue("retry", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("boom")
		}
		close(done)
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "1"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not succeed")
	}
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestQueueRejectsDuplicateKeyWhilePending(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	finished := make(chan struct{}, 1)
	q := NewQueue("dedup", func(ctx context.Context, job Job) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	}, QueueConfig{})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "a", Key: "sweep"}))
	<-started
	require.ErrorIs(t, q.Enqueue(Job{ID: "b", Key: "sweep"}), ErrDuplicate)
	require.NoError(t, q.Enqueue(Job{ID: "c"}))

	close(release)
	go func() {
		for {
			if q.Enqueue(Job{ID: "d", Key: "sweep"}) == nil {
				finished <- struct{}{}
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("key was never released")
	}
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("idle", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})
	require.Error(t, q.Enqueue(Job{ID: "x"}))
}

func TestQueueAppliesTimeout(t *testing.T) {
	got := make(chan error, 1)
	q := NewQueue("timeout", func(ctx context.Context, job Job) error {
		<-ctx.Done()
		got <- ctx.Err()
		return nil
	}, QueueConfig{Timeout: 10 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "slow"}))
	select {
	case err := <-got:
		require.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("handler context never expired")
	}
}
