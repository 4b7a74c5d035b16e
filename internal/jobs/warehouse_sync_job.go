package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wormos/shipops-api/internal/domain"
	"go.uber.org/zap"
)

// WarehouseSyncJobName is the name of the warehouse export job
const WarehouseSyncJobName = "warehouse_sync"

// Batch size per run keeps a backlog from holding the connection for long
const warehouseSyncBatchSize = 100

// ReportSource yields confirmed profit reports awaiting export and records
// successful exports.
type ReportSource interface {
	ListConfirmedUnsynced(ctx context.Context, limit int) ([]domain.ProfitReport, error)
	MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ReportExporter writes a confirmed profit report to the reporting warehouse.
type ReportExporter interface {
	ExportProfitReport(ctx context.Context, report *domain.ProfitReport) error
}

// WarehouseSyncJob exports confirmed profit reports to the corporate
// warehouse. Reports stay queued (warehouse_synced_at IS NULL) until the
// export succeeds, so a failed run is retried on the next tick.
type WarehouseSyncJob struct {
	reports  ReportSource
	exporter ReportExporter
	logger   *zap.Logger
	timeout  time.Duration
}

// NewWarehouseSyncJob creates a new warehouse sync job.
func NewWarehouseSyncJob(reports ReportSource, exporter ReportExporter, logger *zap.Logger, timeout time.Duration) *WarehouseSyncJob {
	return &WarehouseSyncJob{
		reports:  reports,
		exporter: exporter,
		logger:   logger,
		timeout:  timeout,
	}
}

// Run executes the warehouse export. Called by the scheduler.
func (j *WarehouseSyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	pending, err := j.reports.ListConfirmedUnsynced(ctx, warehouseSyncBatchSize)
	if err != nil {
		j.logger.Error("failed to list reports pending warehouse export", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	exported := 0
	failed := 0
	for i := range pending {
		report := &pending[i]

		if err := j.exporter.ExportProfitReport(ctx, report); err != nil {
			j.logger.Error("warehouse export failed",
				zap.String("report_id", report.ID.String()),
				zap.Error(err))
			failed++
			continue
		}

		if err := j.reports.MarkSynced(ctx, report.ID, time.Now().UTC()); err != nil {
			// The report will be re-exported next run; the MERGE upsert
			// keeps that retry idempotent on the warehouse side.
			j.logger.Error("failed to mark report as synced",
				zap.String("report_id", report.ID.String()),
				zap.Error(err))
			failed++
			continue
		}

		exported++
	}

	j.logger.Info("warehouse sync completed",
		zap.Int("exported", exported),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)))
}

// RegisterWarehouseSyncJob registers the warehouse export job with the scheduler.
func RegisterWarehouseSyncJob(scheduler *Scheduler, reports ReportSource, exporter ReportExporter, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewWarehouseSyncJob(reports, exporter, logger, timeout)
	return scheduler.AddJob(WarehouseSyncJobName, cronExpr, job.Run)
}
