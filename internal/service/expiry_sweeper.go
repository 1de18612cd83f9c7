package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-bulletin-api/pkg/jobs"
)

// ExpirySweepJobType identifies sweep jobs on the queue.
const ExpirySweepJobType = "announcement.expiry_sweep"

type expiredArchiver interface {
	ArchiveExpired(ctx context.Context) (int, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// ExpirySweeper archives announcements whose visibility window has closed.
// Cron only enqueues; the queue runs the sweep with retries.
type ExpirySweeper struct {
	archiver expiredArchiver
	logger   *zap.Logger
	queue    jobEnqueuer
	cron     *cron.Cron
}

// NewExpirySweeper constructs a sweeper.
func NewExpirySweeper(archiver expiredArchiver, logger *zap.Logger) *ExpirySweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpirySweeper{archiver: archiver, logger: logger}
}

// Handle is the queue handler for sweep jobs.
func (s *ExpirySweeper) Handle(ctx context.Context, job jobs.Job) error {
	if job.Type != ExpirySweepJobType {
		return fmt.Errorf("unexpected job type %q", job.Type)
	}
	archived, err := s.archiver.ArchiveExpired(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("expiry sweep finished", zap.String("job_id", job.ID), zap.Int("archived", archived), zap.Int("attempt", job.Attempt))
	return nil
}

// Trigger enqueues one sweep. A sweep that is still pending is not doubled.
func (s *ExpirySweeper) Trigger() error {
	if s.queue == nil {
		return errors.New("expiry sweeper has no queue")
	}
	err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: ExpirySweepJobType, Key: ExpirySweepJobType})
	if errors.Is(err, jobs.ErrDuplicate) {
		s.logger.Debug("expiry sweep already pending")
		return nil
	}
	return err
}

// Schedule registers the cron trigger and starts the scheduler.
func (s *ExpirySweeper) Schedule(queue jobEnqueuer, spec string) error {
	s.queue = queue
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if err := s.Trigger(); err != nil {
			s.logger.Warn("enqueue expiry sweep", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("parse expiry sweep schedule %q: %w", spec, err)
	}
	s.cron = c
	c.Start()
	s.logger.Info("expiry sweep scheduled", zap.String("schedule", spec))
	return nil
}

// Stop halts the scheduler and waits for a running trigger to return.
func (s *ExpirySweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
