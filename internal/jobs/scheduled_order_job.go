package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"orderlifecycle/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ScheduledOrderTicker is one pass over scheduled orders that are due.
type ScheduledOrderTicker interface {
	Handle(ctx context.Context, cmd commands.ActivateScheduledOrdersCommand) error
}

// ScheduledOrderJob materializes due scheduled orders on a fixed interval and
// once immediately at start, so orders that fell due while the service was down
// are not held back a full interval.
type ScheduledOrderJob struct {
	ticker   ScheduledOrderTicker
	interval time.Duration
	runner   TickRunner
	cron     *cron.Cron
	cancel   context.CancelFunc
	eager    sync.WaitGroup
	logger   *slog.Logger
}

func NewScheduledOrderJob(
	ticker ScheduledOrderTicker,
	interval time.Duration,
	runner TickRunner,
	logger *slog.Logger,
) *ScheduledOrderJob {
	logger = logger.With("component", "scheduled_order_job")
	return &ScheduledOrderJob{
		ticker:   ticker,
		interval: interval,
		runner:   runner,
		cron:     cron.New(cron.WithLogger(NewCronLogger(logger))),
		logger:   logger,
	}
}

// Start schedules the job and fires the eager first tick in the background.
// The eager tick shares the overlap guard with the scheduled ones.
func (j *ScheduledOrderJob) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel

	job := guardedJob(j.logger, func() {
		j.runner.Run(ctx, "scheduled_orders", func(ctx context.Context) error {
			return j.ticker.Handle(ctx, commands.NewActivateScheduledOrdersCommand())
		})
	})
	j.cron.Schedule(cron.Every(j.interval), job)

	j.cron.Start()
	j.eager.Add(1)
	go func() {
		defer j.eager.Done()
		job.Run()
	}()
	j.logger.Info("Scheduled order job started", "interval", j.interval.String())
	return nil
}

// Stop halts scheduling and waits for the eager tick and any scheduled tick to finish.
func (j *ScheduledOrderJob) Stop() {
	if j.cancel != nil {
		j.cancel()
	}
	<-j.cron.Stop().Done()
	j.eager.Wait()
	j.logger.Info("Scheduled order job stopped")
}
