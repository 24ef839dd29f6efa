// Package jobs provides scheduled background tasks for the order lifecycle.
//
// This package implements interval jobs using github.com/robfig/cron/v3
// around the tick command handlers.
//
// # Available Jobs
//
//  1. OrderStatusJob - Runs every STATUS_TICK_INTERVAL and moves each in-flight order
//     whose dwell threshold is met one status forward
//  2. ScheduledOrderJob - Runs every SCHEDULED_TICK_INTERVAL, plus once at start, and
//     turns due scheduled orders into pending ones
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	runner := jobs.NewTickRunner(conn, postgres.ErrorClassifier{}, logger)
//	statusJob, err := jobs.NewOrderStatusJob(&advanceHandler, 10, 30*time.Second, runner, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	scheduledJob := jobs.NewScheduledOrderJob(&activateHandler, time.Minute, runner, logger)
//
//	jobManager := jobs.NewJobManager(statusJob, scheduledJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Both jobs use cron.Every schedules wrapped in cron.Recover and
// cron.SkipIfStillRunning, so a panicking tick is logged and a slow tick delays
// the next one instead of running alongside it.
//
// # Error Handling
//
// Ticks return errors to TickRunner, which swallows them. Transient storage errors
// additionally make it reconnect the database handle. Failed job starts stop any
// already running jobs.
package jobs
