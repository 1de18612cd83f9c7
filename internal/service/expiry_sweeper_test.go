package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-bulletin-api/pkg/jobs"
)

type archiverStub struct {
	count int
	err   error
	calls int
}

func (a *archiverStub) ArchiveExpired(ctx context.Context) (int, error) {
	a.calls++
	return a.count, a.err
}

type enqueuerStub struct {
	jobs []jobs.Job
	err  error
}

func (q *enqueuerStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func TestExpirySweeperHandle(t *testing.T) {
	archiver := &archiverStub{count: 2}
	sweeper := NewExpirySweeper(archiver, nil)

	require.NoError(t, sweeper.Handle(context.Background(), jobs.Job{ID: "j1", Type: ExpirySweepJobType}))
	require.Equal(t, 1, archiver.calls)

	require.Error(t, sweeper.Handle(context.Background(), jobs.Job{ID: "j2", Type: "other"}))
	require.Equal(t, 1, archiver.calls)
}

func TestExpirySweeperHandlePropagatesErrorForRetry(t *testing.T) {
	sweeper := NewExpirySweeper(&archiverStub{err: errors.New("db down")}, nil)

	require.Error(t, sweeper.Handle(context.Background(), jobs.Job{ID: "j1", Type: ExpirySweepJobType}))
}

func TestExpirySweeperScheduleAndTrigger(t *testing.T) {
	queue := &enqueuerStub{}
	sweeper := NewExpirySweeper(&archiverStub{}, nil)
	require.NoError(t, sweeper.Schedule(queue, "@every 1h"))
	defer sweeper.Stop()

	require.NoError(t, sweeper.Trigger())
	require.Len(t, queue.jobs, 1)
	require.Equal(t, ExpirySweepJobType, queue.jobs[0].Type)
	require.Equal(t, ExpirySweepJobType, queue.jobs[0].Key)
}

func TestExpirySweeperTriggerIgnoresDuplicate(t *testing.T) {
	sweeper := NewExpirySweeper(&archiverStub{}, nil)
	require.NoError(t, sweeper.Schedule(&enqueuerStub{err: jobs.ErrDuplicate}, "@every 1h"))
	defer sweeper.Stop()

	require.NoError(t, sweeper.Trigger())
}

func TestExpirySweeperRejectsBadSchedule(t *testing.T) {
	sweeper := NewExpirySweeper(&archiverStub{}, nil)

	require.Error(t, sweeper.Schedule(&enqueuerStub{}, "not a schedule"))
}
