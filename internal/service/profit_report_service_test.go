package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wormos/shipops-api/internal/domain"
	"github.com/wormos/shipops-api/internal/repository"
	"gorm.io/gorm"
)

func TestProfitabilityRating(t *testing.T) {
	tests := []struct {
		margin float64
		want   domain.Rating
	}{
		{45, domain.RatingA},
		{30, domain.RatingA},
		{29.99, domain.RatingB},
		{15, domain.RatingB},
		{14.99, domain.RatingC},
		{5, domain.RatingC},
		{4.99, domain.RatingD},
		{0, domain.RatingD},
		{-20, domain.RatingD},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProfitabilityRating(tt.margin), "margin %.2f", tt.margin)
	}
}

func TestPaymentRating(t *testing.T) {
	tests := []struct {
		name       string
		invoices   float64
		receipts   float64
		hasOverdue bool
		want       domain.Rating
	}{
		{"nothing invoiced or received", 0, 0, false, domain.RatingC},
		{"fully collected", 10000, 10000, false, domain.RatingA},
		{"overcollected still grades A", 10000, 10500, false, domain.RatingA},
		{"fully collected beats an overdue flag", 10000, 10000, true, domain.RatingA},
		{"overdue with partial collection", 10000, 4000, true, domain.RatingD},
		{"partial collection", 10000, 4000, false, domain.RatingB},
		{"invoiced but nothing received", 10000, 0, false, domain.RatingC},
		{"receipts without invoices", 0, 5000, false, domain.RatingB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PaymentRating(tt.invoices, tt.receipts, tt.hasOverdue))
		})
	}
}

func TestOverallRating(t *testing.T) {
	tests := []struct {
		profitability domain.Rating
		payment       domain.Rating
		want          domain.Rating
	}{
		{domain.RatingA, domain.RatingA, domain.RatingA},
		{domain.RatingA, domain.RatingB, domain.RatingA},
		{domain.RatingA, domain.RatingC, domain.RatingB},
		{domain.RatingA, domain.RatingD, domain.RatingB},
		{domain.RatingB, domain.RatingC, domain.RatingB},
		{domain.RatingC, domain.RatingC, domain.RatingC},
		{domain.RatingC, domain.RatingD, domain.RatingC},
		{domain.RatingD, domain.RatingD, domain.RatingD},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OverallRating(tt.profitability, tt.payment),
			"%s + %s", tt.profitability, tt.payment)
	}
}

// seedLedgers fills both ledgers with a cost total of 1000 and a final
// quote of 1500
func seedLedgers(t *testing.T, svc *IncomeService, cls *CostLineService, ctx context.Context, orderID uuid.UUID) {
	t.Helper()

	_, err := cls.Create(ctx, orderID, &domain.CreateCostLineRequest{
		ItemName:  "Shaft seal",
		Category:  domain.CostCategoryParts,
		UnitPrice: 400,
		Quantity:  1,
	})
	require.NoError(t, err)
	_, err = cls.Create(ctx, orderID, &domain.CreateCostLineRequest{
		ItemName:  "Fitter",
		Category:  domain.CostCategoryLabor,
		UnitPrice: 300,
		Quantity:  2,
	})
	require.NoError(t, err)

	_, err = svc.CreateQuote(ctx, orderID, &domain.CreateQuoteRequest{
		Amount: 1500, Currency: "USD", IsFinal: true,
	})
	require.NoError(t, err)
}

func TestGenerateProfitReport(t *testing.T) {
	db := newTestDB(t)
	reports := newTestProfitReportService(db)
	income := newTestIncomeService(db)
	costs := newTestCostLineService(db)
	ops := seedUser(t, db, domain.RoleOps)
	order := seedWorkOrder(t, db, ops.ID)
	ctx := ctxFor(ops)

	seedLedgers(t, income, costs, ctx, order.ID)

	report, err := reports.Generate(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.ProfitReportStatusDraft, report.Status)
	assert.Equal(t, 1500.0, report.RevenueTotal, "no invoices, so the final quote is the revenue basis")
	assert.Equal(t, 1000.0, report.CostTotal)
	assert.Equal(t, 500.0, report.Profit)
	assert.Equal(t, 50.0, report.MarginPercent)
	assert.Equal(t, domain.RatingA, report.ProfitabilityRating)
	assert.Equal(t, domain.RatingC, report.PaymentRating, "nothing invoiced or collected yet")
	assert.Equal(t, domain.RatingB, report.OverallRating)
	assert.Equal(t, 400.0, report.CostBreakdown[domain.CostCategoryParts])
	assert.Equal(t, 600.0, report.CostBreakdown[domain.CostCategoryLabor])
}

func TestGenerateWithInvoicedRevenue(t *testing.T) {
	db := newTestDB(t)
	reports := newTestProfitReportService(db)
	income := newTestIncomeService(db)
	costs := newTestCostLineService(db)
	ops := seedUser(t, db, domain.RoleOps)
	order := seedWorkOrder(t, db, ops.ID)
	ctx := ctxFor(ops)

	seedLedgers(t, income, costs, ctx, order.ID)

	// Invoiced revenue wins over the final quote
	_, err := income.CreateInvoice(ctx, order.ID, &domain.CreateInvoiceRequest{
		InvoiceNo: "INV-4001",
		Amount:    1800,
		Currency:  "USD",
		IssueDate: time.Now().UTC(),
		Status:    domain.InvoiceStatusSent,
	})
	require.NoError(t, err)

	report, err := reports.Generate(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1800.0, report.RevenueTotal)
	assert.Equal(t, 800.0, report.Profit)
	assert.Equal(t, 80.0, report.MarginPercent)
}

func TestConfirmProfitReport(t *testing.T) {
	db := newTestDB(t)
	reports := newTestProfitReportService(db)
	income := newTestIncomeService(db)
	costs := newTestCostLineService(db)
	ops := seedUser(t, db, domain.RoleOps)
	finance := seedUser(t, db, domain.RoleFinance)
	order := seedWorkOrder(t, db, ops.ID)
	ctx := ctxFor(ops)

	seedLedgers(t, income, costs, ctx, order.ID)

	draft, err := reports.Generate(ctx, order.ID)
	require.NoError(t, err)

	confirmed, err := reports.Confirm(ctxFor(finance), order.ID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProfitReportStatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedByID)
	assert.Equal(t, finance.ID, *confirmed.ConfirmedByID)
	assert.NotNil(t, confirmed.ConfirmedAt)

	// Confirming freezes the whole cost ledger
	var unlocked int64
	require.NoError(t, db.Model(&domain.CostLine{}).
		Where("work_order_id = ? AND is_locked = ?", order.ID, false).
		Count(&unlocked).Error)
	assert.Equal(t, int64(0), unlocked)

	// Both ledgers are snapshotted verbatim on the stored report
	var stored domain.ProfitReport
	require.NoError(t, db.First(&stored, "id = ?", draft.ID).Error)
	assert.Contains(t, stored.LockedCostSnapshot, "Shaft seal")
	assert.Contains(t, stored.LockedInvoiceSnapshot, "invoices")
	assert.Contains(t, stored.LockedInvoiceSnapshot, "payments")

	// The confirmation notice lands with the order's creator
	var notice domain.Notification
	require.NoError(t, db.First(&notice, "type = ?", string(domain.NotificationTypeReportConfirmed)).Error)
	assert.Equal(t, ops.ID, notice.UserID)

	// Re-confirming is rejected
	_, err = reports.Confirm(ctxFor(finance), order.ID, draft.ID)
	assert.ErrorIs(t, err, ErrReportConfirmed)

	// So is confirming a later draft once one report is authoritative
	later, err := reports.Generate(ctx, order.ID)
	require.NoError(t, err)
	_, err = reports.Confirm(ctxFor(finance), order.ID, later.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestConcurrentConfirmSingleWinner(t *testing.T) {
	db := newTestDB(t)
	reports := newTestProfitReportService(db)
	income := newTestIncomeService(db)
	costs := newTestCostLineService(db)
	ops := seedUser(t, db, domain.RoleOps)
	finance := seedUser(t, db, domain.RoleFinance)
	order := seedWorkOrder(t, db, ops.ID)
	ctx := ctxFor(ops)

	seedLedgers(t, income, costs, ctx, order.ID)

	first, err := reports.Generate(ctx, order.ID)
	require.NoError(t, err)
	second, err := reports.Generate(ctx, order.ID)
	require.NoError(t, err)

	// Two confirms that both observed zero confirmed reports before either
	// committed. The guarded update inside the transaction decides the
	// winner; the loser must match zero rows.
	reportRepo := repository.NewProfitReportRepository(db)
	costRepo := repository.NewCostLineRepository(db)
	now := time.Now().UTC()

	confirm := func(reportID uuid.UUID) int64 {
		report, err := reportRepo.GetByID(context.Background(), reportID)
		require.NoError(t, err)
		var affected int64
		require.NoError(t, reportRepo.WithTransaction(context.Background(), func(tx *gorm.DB) error {
			if _, err := costRepo.LockAllTx(tx, order.ID, finance.ID); err != nil {
				return err
			}
			affected, err = reportRepo.ConfirmTx(tx, report, finance.ID, now)
			return err
		}))
		return affected
	}

	assert.Equal(t, int64(1), confirm(first.ID))
	assert.Equal(t, int64(0), confirm(second.ID))

	var confirmedCount int64
	require.NoError(t, db.Model(&domain.ProfitReport{}).
		Where("work_order_id = ? AND status = ?", order.ID, domain.ProfitReportStatusConfirmed).
		Count(&confirmedCount).Error)
	assert.Equal(t, int64(1), confirmedCount)

	// Through the service the loser surfaces as a conflict
	_, err = reports.Confirm(ctxFor(finance), order.ID, second.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestConfirmRequiresCostBasis(t *testing.T) {
	db := newTestDB(t)
	reports := newTestProfitReportService(db)
	income := newTestIncomeService(db)
	ops := seedUser(t, db, domain.RoleOps)
	order := seedWorkOrder(t, db, ops.ID)
	ctx := ctxFor(ops)

	_, err := income.CreateQuote(ctx, order.ID, &domain.CreateQuoteRequest{
		Amount: 1500, Currency: "USD", IsFinal: true,
	})
	require.NoError(t, err)

	draft, err := reports.Generate(ctx, order.ID)
	require.NoError(t, err)

	_, err = reports.Confirm(ctx, order.ID, draft.ID)
	assert.ErrorIs(t, err, ErrNoCostBasis)
}

func TestConfirmRequiresRevenueBasis(t *testing.T) {
	db := newTestDB(t)
	reports := newTestProfitReportService(db)
	costs := newTestCostLineService(db)
	ops := seedUser(t, db, domain.RoleOps)
	order := seedWorkOrder(t, db, ops.ID)
	ctx := ctxFor(ops)

	_, err := costs.Create(ctx, order.ID, &domain.CreateCostLineRequest{
		ItemName:  "Dry dock fee",
		Category:  domain.CostCategoryOther,
		UnitPrice: 2500,
		Quantity:  1,
	})
	require.NoError(t, err)

	// A non-final quote is not a revenue basis
	incomeSvc := newTestIncomeService(db)
	_, err = incomeSvc.CreateQuote(ctx, order.ID, &domain.CreateQuoteRequest{
		Amount: 4000, Currency: "USD", IsFinal: false,
	})
	require.NoError(t, err)

	draft, err := reports.Generate(ctx, order.ID)
	require.NoError(t, err)

	_, err = reports.Confirm(ctx, order.ID, draft.ID)
	assert.ErrorIs(t, err, ErrNoRevenueBasis)
}

func TestProfitReportAccess(t *testing.T) {
	db := newTestDB(t)
	reports := newTestProfitReportService(db)
	ops := seedUser(t, db, domain.RoleOps)
	engineer := seedUser(t, db, domain.RoleEngineer)
	order := seedWorkOrder(t, db, ops.ID)

	_, err := reports.Generate(ctxFor(engineer), order.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, _, err = reports.ListByWorkOrder(ctxFor(engineer), order.ID, 1, 20)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestGetLatestProfitReport(t *testing.T) {
	db := newTestDB(t)
	reports := newTestProfitReportService(db)
	income := newTestIncomeService(db)
	costs := newTestCostLineService(db)
	ops := seedUser(t, db, domain.RoleOps)
	order := seedWorkOrder(t, db, ops.ID)
	ctx := ctxFor(ops)

	_, err := reports.GetLatest(ctx, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	seedLedgers(t, income, costs, ctx, order.ID)
	_, err = reports.Generate(ctx, order.ID)
	require.NoError(t, err)

	latest, err := reports.GetLatest(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, latest.WorkOrderID)
	assert.Equal(t, 1500.0, latest.RevenueTotal)
}
