package jobs

import (
	"fmt"
)

// Job is a background loop that can be started and stopped.
type Job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	orderStatusJob    Job
	scheduledOrderJob Job
}

// NewJobManager creates a job manager for the status walk and the scheduled
// order activation loops.
func NewJobManager(orderStatusJob, scheduledOrderJob Job) *JobManager {
	return &JobManager{
		orderStatusJob:    orderStatusJob,
		scheduledOrderJob: scheduledOrderJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.orderStatusJob.Start(); err != nil {
		return fmt.Errorf("failed to start order status job: %w", err)
	}

	if err := jm.scheduledOrderJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.orderStatusJob.Stop()
		return fmt.Errorf("failed to start scheduled order job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.scheduledOrderJob.Stop()
	jm.orderStatusJob.Stop()
}
