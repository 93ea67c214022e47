package reminders

import (
	"context"
	"fmt"

	"partyplan/internal/logger"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler triggers the job on a cron schedule in-process. Production runs
// are triggered over HTTP; this is for local and self-hosted use.
type Scheduler struct {
	job   *Job
	sched gocron.Scheduler
}

func NewScheduler(job *Job) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{job: job, sched: sched}, nil
}

// Start registers the job under cronExpr and starts the scheduler. A run that
// is still going when the next tick fires delays that tick.
func (s *Scheduler) Start(ctx context.Context, cronExpr string) error {
	_, err := s.sched.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			if _, err := s.job.Run(ctx, "schedule"); err != nil {
				logger.Get().Error().Err(err).Msg("Scheduled payment reminder run failed")
			}
		}),
		gocron.WithName("payment-reminders"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", cronExpr, err)
	}

	s.sched.Start()
	logger.Get().Info().Str("schedule", cronExpr).Msg("Payment reminder scheduler started")
	return nil
}

// Stop waits for a running job to finish
func (s *Scheduler) Stop() error {
	if err := s.sched.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	logger.Get().Info().Msg("Payment reminder scheduler stopped")
	return nil
}
