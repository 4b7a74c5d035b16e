package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wormos/shipops-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfitReportFilters contains filter options for listing profit reports
type ProfitReportFilters struct {
	WorkOrderID   *uuid.UUID
	Status        *domain.ProfitReportStatus
	OverallRating *domain.Rating
}

type ProfitReportRepository struct {
	db *gorm.DB
}

func NewProfitReportRepository(db *gorm.DB) *ProfitReportRepository {
	return &ProfitReportRepository{db: db}
}

func (r *ProfitReportRepository) Create(ctx context.Context, report *domain.ProfitReport) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(report).Error
}

func (r *ProfitReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProfitReport, error) {
	var report domain.ProfitReport
	err := r.db.WithContext(ctx).
		Preload("WorkOrder").
		Where("id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ProfitReportRepository) Update(ctx context.Context, report *domain.ProfitReport) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(report).Error
}

func (r *ProfitReportRepository) List(ctx context.Context, page, pageSize int, filters *ProfitReportFilters) ([]domain.ProfitReport, int64, error) {
	var reports []domain.ProfitReport
	var total int64

	page, pageSize = NormalizePagination(page, pageSize)

	query := r.db.WithContext(ctx).Model(&domain.ProfitReport{}).Preload("WorkOrder")
	if filters != nil {
		if filters.WorkOrderID != nil {
			query = query.Where("work_order_id = ?", *filters.WorkOrderID)
		}
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.OverallRating != nil {
			query = query.Where("overall_rating = ?", *filters.OverallRating)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&reports).Error
	return reports, total, err
}

// GetLatestByWorkOrder returns the most recently generated report for the work order
func (r *ProfitReportRepository) GetLatestByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (*domain.ProfitReport, error) {
	var report domain.ProfitReport
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at DESC").
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// HasConfirmed reports whether the work order already has a confirmed report
func (r *ProfitReportRepository) HasConfirmed(ctx context.Context, workOrderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ProfitReport{}).
		Where("work_order_id = ? AND status = ?", workOrderID, domain.ProfitReportStatusConfirmed).
		Count(&count).Error
	return count > 0, err
}

// ConfirmTx promotes a DRAFT report to CONFIRMED inside an external
// transaction, persisting the freshly recomputed figures and ledger
// snapshots carried on the report. The WHERE clauses make concurrent
// confirms race-safe: the loser either no longer sees a DRAFT row or
// finds another confirmed report on the work order, matching zero rows.
// The partial unique index on (work_order_id) WHERE status = 'CONFIRMED'
// backstops the same rule at the database.
func (r *ProfitReportRepository) ConfirmTx(tx *gorm.DB, report *domain.ProfitReport, confirmedByID uuid.UUID, at time.Time) (int64, error) {
	result := tx.Model(&domain.ProfitReport{}).
		Where("id = ? AND status = ?", report.ID, domain.ProfitReportStatusDraft).
		Where("NOT EXISTS (SELECT 1 FROM profit_reports existing WHERE existing.work_order_id = ? AND existing.status = ?)",
			report.WorkOrderID, domain.ProfitReportStatusConfirmed).
		Updates(map[string]interface{}{
			"status":                  domain.ProfitReportStatusConfirmed,
			"revenue_total":           report.RevenueTotal,
			"cost_total":              report.CostTotal,
			"profit":                  report.Profit,
			"margin_percent":          report.MarginPercent,
			"income_breakdown":        report.IncomeBreakdown,
			"cost_breakdown":          report.CostBreakdown,
			"profitability_rating":    report.ProfitabilityRating,
			"payment_rating":          report.PaymentRating,
			"overall_rating":          report.OverallRating,
			"confirmed_by_id":         confirmedByID,
			"confirmed_at":            at,
			"locked_cost_snapshot":    report.LockedCostSnapshot,
			"locked_invoice_snapshot": report.LockedInvoiceSnapshot,
			"updated_at":              at,
		})
	return result.RowsAffected, result.Error
}

// ListConfirmedUnsynced returns confirmed reports not yet exported to the warehouse
func (r *ProfitReportRepository) ListConfirmedUnsynced(ctx context.Context, limit int) ([]domain.ProfitReport, error) {
	var reports []domain.ProfitReport
	err := r.db.WithContext(ctx).
		Preload("WorkOrder").
		Where("status = ? AND warehouse_synced_at IS NULL", domain.ProfitReportStatusConfirmed).
		Order("confirmed_at ASC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

// MarkSynced stamps the warehouse export time on a report
func (r *ProfitReportRepository) MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.ProfitReport{}).
		Where("id = ?", id).
		Update("warehouse_synced_at", at).Error
}

// WithTransaction executes operations within a transaction
func (r *ProfitReportRepository) WithTransaction(ctx context.Context, fn func(*gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
