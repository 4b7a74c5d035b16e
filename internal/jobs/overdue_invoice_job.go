package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// OverdueInvoiceJobName is the name of the overdue invoice marker job
const OverdueInvoiceJobName = "overdue_invoices"

// OverdueMarker flips SENT invoices past their due date to OVERDUE.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// OverdueInvoiceJob marks past-due invoices so payment ratings reflect
// delinquency without waiting for someone to open the work order.
type OverdueInvoiceJob struct {
	invoices OverdueMarker
	logger   *zap.Logger
	timeout  time.Duration
}

// NewOverdueInvoiceJob creates a new overdue invoice job.
func NewOverdueInvoiceJob(invoices OverdueMarker, logger *zap.Logger, timeout time.Duration) *OverdueInvoiceJob {
	return &OverdueInvoiceJob{
		invoices: invoices,
		logger:   logger,
		timeout:  timeout,
	}
}

// Run executes the overdue sweep. Called by the scheduler.
func (j *OverdueInvoiceJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	marked, err := j.invoices.MarkOverdue(ctx, time.Now().UTC())
	if err != nil {
		j.logger.Error("overdue invoice sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if marked > 0 {
		j.logger.Info("invoices marked overdue",
			zap.Int64("marked", marked),
			zap.Duration("duration", time.Since(start)))
	}
}

// RegisterOverdueInvoiceJob registers the overdue invoice job with the scheduler.
func RegisterOverdueInvoiceJob(scheduler *Scheduler, invoices OverdueMarker, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewOverdueInvoiceJob(invoices, logger, timeout)
	return scheduler.AddJob(OverdueInvoiceJobName, cronExpr, job.Run)
}
