package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderlifecycle/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OrderStatusTicker is one pass of the time-driven status walk.
type OrderStatusTicker interface {
	Handle(ctx context.Context, cmd commands.AdvanceOrderStatusesCommand) error
}

// OrderStatusJob advances in-flight orders along the lifecycle on a fixed interval.
type OrderStatusJob struct {
	ticker   OrderStatusTicker
	cmd      commands.AdvanceOrderStatusesCommand
	interval time.Duration
	runner   TickRunner
	cron     *cron.Cron
	cancel   context.CancelFunc
	logger   *slog.Logger
}

// NewOrderStatusJob creates the job. Each tick loads at most batchSize orders.
func NewOrderStatusJob(
	ticker OrderStatusTicker,
	batchSize int,
	interval time.Duration,
	runner TickRunner,
	logger *slog.Logger,
) (*OrderStatusJob, error) {
	cmd, err := commands.NewAdvanceOrderStatusesCommand(batchSize)
	if err != nil {
		return nil, err
	}

	logger = logger.With("component", "order_status_job")
	return &OrderStatusJob{
		ticker:   ticker,
		cmd:      cmd,
		interval: interval,
		runner:   runner,
		cron:     cron.New(cron.WithLogger(NewCronLogger(logger))),
		logger:   logger,
	}, nil
}

// Start schedules the job. Ticks never overlap: a tick that is still running
// when the next one is due causes that one to be skipped.
func (j *OrderStatusJob) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel

	job := guardedJob(j.logger, func() {
		j.runner.Run(ctx, "order_status", func(ctx context.Context) error {
			return j.ticker.Handle(ctx, j.cmd)
		})
	})
	j.cron.Schedule(cron.Every(j.interval), job)

	j.cron.Start()
	j.logger.Info("Order status job started", "interval", j.interval.String())
	return nil
}

// Stop halts scheduling and waits for a running tick to finish.
func (j *OrderStatusJob) Stop() {
	if j.cancel != nil {
		j.cancel()
	}
	<-j.cron.Stop().Done()
	j.logger.Info("Order status job stopped")
}

func guardedJob(logger *slog.Logger, fn func()) cron.Job {
	cronLog := NewCronLogger(logger)
	return cron.NewChain(
		cron.SkipIfStillRunning(cronLog),
		cron.Recover(cronLog),
	).Then(cron.FuncJob(fn))
}
