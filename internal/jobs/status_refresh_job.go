package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StatusRefreshJobName is the name of the work order status refresh job
const StatusRefreshJobName = "status_refresh"

// StatusRefresher reconciles persisted work order statuses with the ones
// derived from their date windows. This interface allows the job to call the
// service without importing the service package directly.
type StatusRefresher interface {
	// RefreshStatuses recomputes derived statuses for all live work orders
	// and returns the number of orders whose status changed.
	RefreshStatuses(ctx context.Context) (int, error)
}

// StatusRefreshJob keeps date-derived work order statuses current so an
// order flips to IN_PROGRESS or COMPLETED even when nobody touches it.
type StatusRefreshJob struct {
	workOrders StatusRefresher
	logger     *zap.Logger
	timeout    time.Duration
}

// NewStatusRefreshJob creates a new status refresh job.
func NewStatusRefreshJob(workOrders StatusRefresher, logger *zap.Logger, timeout time.Duration) *StatusRefreshJob {
	return &StatusRefreshJob{
		workOrders: workOrders,
		logger:     logger,
		timeout:    timeout,
	}
}

// Run executes the status refresh. Called by the scheduler.
func (j *StatusRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	changed, err := j.workOrders.RefreshStatuses(ctx)
	if err != nil {
		j.logger.Error("work order status refresh failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if changed > 0 {
		j.logger.Info("work order statuses refreshed",
			zap.Int("changed", changed),
			zap.Duration("duration", time.Since(start)))
	}
}

// RegisterStatusRefreshJob registers the status refresh job with the scheduler.
// If runOnStartup is true the refresh runs once immediately in a background
// goroutine so stale statuses are corrected without waiting for the first tick.
func RegisterStatusRefreshJob(scheduler *Scheduler, workOrders StatusRefresher, logger *zap.Logger, cronExpr string, timeout time.Duration, runOnStartup bool) error {
	job := NewStatusRefreshJob(workOrders, logger, timeout)

	if runOnStartup {
		go job.Run()
	}

	return scheduler.AddJob(StatusRefreshJobName, cronExpr, job.Run)
}
