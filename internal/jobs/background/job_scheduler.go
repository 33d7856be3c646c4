package background

import (
	"context"
	"log"
	"time"

	"comercia/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler runs the reconciliation sweep on an interval.
type JobScheduler struct {
	scheduler gocron.Scheduler
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(sweeper *jobs.ReconciliationSweeper, sweepInterval time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}

	js := &JobScheduler{scheduler: scheduler}

	_, err = scheduler.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), sweepInterval)
			defer cancel()
			if err := sweeper.Run(ctx); err != nil {
				log.Printf("reconciliation sweep failed: %v", err)
			}
		}),
		gocron.WithName("compensation-reconciliation-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}
