package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wormos/shipops-api/internal/domain"
)

func TestFinalQuoteSwap(t *testing.T) {
	db := newTestDB(t)
	svc := newTestIncomeService(db)
	ops := seedUser(t, db, domain.RoleOps)
	order := seedWorkOrder(t, db, ops.ID)
	ctx := ctxFor(ops)

	first, err := svc.CreateQuote(ctx, order.ID, &domain.CreateQuoteRequest{
		Amount: 10000, Currency: "USD", IsFinal: true,
	})
	require.NoError(t, err)
	assert.True(t, first.IsFinal)

	second, err := svc.CreateQuote(ctx, order.ID, &domain.CreateQuoteRequest{
		Amount: 12000, Currency: "USD", IsFinal: true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsFinal)

	// The final flag moved; exactly one final quote survives
	var finals []domain.Quote
	require.NoError(t, db.Where("work_order_id = ? AND is_final = ?", order.ID, true).Find(&finals).Error)
	require.Len(t, finals, 1)
	assert.Equal(t, second.ID, finals[0].ID)
}

func TestUpdateQuoteFinalFlag(t *testing.T) {
	db := newTestDB(t)
	svc := newTestIncomeService(db)
	ops := seedUser(t, db, domain.RoleOps)
	order := seedWorkOrder(t, db, ops.ID)
	ctx := ctxFor(ops)

	quote, err := svc.CreateQuote(ctx, order.ID, &domain.CreateQuoteRequest{
		Amount: 9000, Currency: "EUR", IsFinal: true,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateQuote(ctx, order.ID, quote.ID, &domain.UpdateQuoteRequest{
		Amount: 9500, Currency: "EUR", IsFinal: false,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsFinal)
	assert.Equal(t, 9500.0, updated.Amount)

	var count int64
	require.NoError(t, db.Model(&domain.Quote{}).
		Where("work_order_id = ? AND is_final = ?", order.ID, true).
		Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// Turning the flag back on promotes through the atomic swap
	updated, err = svc.UpdateQuote(ctx, order.ID, quote.ID, &domain.UpdateQuoteRequest{
		Amount: 9500, Currency: "EUR", IsFinal: true,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsFinal)

	require.NoError(t, db.Model(&domain.Quote{}).
		Where("work_order_id = ? AND is_final = ?", order.ID, true).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreatePaymentInvoiceOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newTestIncomeService(db)
	ops := seedUser(t, db, domain.RoleOps)
	order := seedWorkOrder(t, db, ops.ID)
	foreign := seedWorkOrder(t, db, ops.ID)
	ctx := ctxFor(ops)

	invoice, err := svc.CreateInvoice(ctx, foreign.ID, &domain.CreateInvoiceRequest{
		InvoiceNo: "INV-1001",
		Amount:    5000,
		Currency:  "USD",
		IssueDate: time.Now().UTC(),
	})
	require.NoError(t, err)

	_, err = svc.CreatePayment(ctx, order.ID, &domain.CreatePaymentRequest{
		InvoiceID: &invoice.ID,
		ReceiptNo: "RCPT-1",
		Amount:    5000,
		Currency:  "USD",
		Date:      time.Now().UTC(),
		Method:    "wire",
	})
	assert.ErrorIs(t, err, ErrInvalidInput, "a receipt cannot reference another order's invoice")

	// Against its own order the same receipt is fine
	receipt, err := svc.CreatePayment(ctx, foreign.ID, &domain.CreatePaymentRequest{
		InvoiceID: &invoice.ID,
		ReceiptNo: "RCPT-1",
		Amount:    5000,
		Currency:  "USD",
		Date:      time.Now().UTC(),
		Method:    "wire",
	})
	require.NoError(t, err)
	assert.Equal(t, 5000.0, receipt.Amount)
}

func TestInvoiceDefaultsToDraftStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newTestIncomeService(db)
	ops := seedUser(t, db, domain.RoleOps)
	order := seedWorkOrder(t, db, ops.ID)

	invoice, err := svc.CreateInvoice(ctxFor(ops), order.ID, &domain.CreateInvoiceRequest{
		InvoiceNo: "INV-2001",
		Amount:    750.5,
		Currency:  "NOK",
		IssueDate: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusDraft, invoice.Status)
}

func TestComputeIncomeSnapshot(t *testing.T) {
	quotes := []domain.Quote{
		{Amount: 10000},
		{Amount: 12000, IsFinal: true},
	}
	invoices := []domain.Invoice{
		{Amount: 8000},
		{Amount: 4000},
	}
	payments := []domain.PaymentReceipt{
		{Amount: 7500.25},
	}

	snapshot := ComputeIncomeSnapshot(quotes, invoices, payments)
	assert.Equal(t, 22000.0, snapshot.QuoteTotal)
	assert.Equal(t, 12000.0, snapshot.FinalQuoteAmount)
	assert.Equal(t, 12000.0, snapshot.InvoiceTotal)
	assert.Equal(t, 7500.25, snapshot.ReceiptsTotal)
	assert.Equal(t, 4499.75, snapshot.Outstanding)
}

func TestComputeIncomeSnapshotEmpty(t *testing.T) {
	snapshot := ComputeIncomeSnapshot(nil, nil, nil)
	assert.Equal(t, 0.0, snapshot.QuoteTotal)
	assert.Equal(t, 0.0, snapshot.FinalQuoteAmount)
	assert.Equal(t, 0.0, snapshot.InvoiceTotal)
	assert.Equal(t, 0.0, snapshot.ReceiptsTotal)
	assert.Equal(t, 0.0, snapshot.Outstanding)
}

func TestGetOverview(t *testing.T) {
	db := newTestDB(t)
	svc := newTestIncomeService(db)
	ops := seedUser(t, db, domain.RoleOps)
	finance := seedUser(t, db, domain.RoleFinance)
	engineer := seedUser(t, db, domain.RoleEngineer)
	order := seedWorkOrder(t, db, ops.ID)
	ctx := ctxFor(ops)

	_, err := svc.CreateQuote(ctx, order.ID, &domain.CreateQuoteRequest{
		Amount: 15000, Currency: "USD", IsFinal: true,
	})
	require.NoError(t, err)

	_, err = svc.CreateInvoice(ctx, order.ID, &domain.CreateInvoiceRequest{
		InvoiceNo: "INV-3001",
		Amount:    15000,
		Currency:  "USD",
		IssueDate: time.Now().UTC(),
		Status:    domain.InvoiceStatusSent,
	})
	require.NoError(t, err)

	_, err = svc.CreatePayment(ctx, order.ID, &domain.CreatePaymentRequest{
		ReceiptNo: "RCPT-9",
		Amount:    6000,
		Currency:  "USD",
		Date:      time.Now().UTC(),
		Method:    "wire",
	})
	require.NoError(t, err)

	overview, err := svc.GetOverview(ctxFor(finance), order.ID)
	require.NoError(t, err)
	assert.Len(t, overview.Quotes, 1)
	assert.Len(t, overview.Invoices, 1)
	assert.Len(t, overview.Payments, 1)
	assert.Equal(t, 15000.0, overview.Snapshot.FinalQuoteAmount)
	assert.Equal(t, 9000.0, overview.Snapshot.Outstanding)

	_, err = svc.GetOverview(ctxFor(engineer), order.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
