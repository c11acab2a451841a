package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "talentops-bot/internal/common/errors"
	"talentops-bot/internal/common/logger"
	"talentops-bot/internal/models"
	"talentops-bot/internal/store/storetest"
)

func newTestHandler(t *testing.T, mem *storetest.Memory) *Handler {
	t.Helper()
	h := New(mem.InvoiceStore(), mem.TimesheetStore(), mem.ExpenseStore(), mem.RateStore(), logger.NewTestLogger(t), 20)
	h.now = func() time.Time {
		return time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC)
	}
	return h
}

func seedTimesheet(mem *storetest.Memory) {
	entries := make([]models.TimesheetEntry, 23)
	for i := range entries {
		entries[i] = models.TimesheetEntry{Date: "2025-10-01", Hours: 8}
	}
	mem.Timesheets = []models.Timesheet{{
		TimesheetID: "TS-202510-148",
		ProjectID:   "proj-1",
		UserID:      "tal-1",
		StartDate:   "2025-10-01",
		EndDate:     "2025-10-31",
		Status:      models.TimesheetStatusApproved,
		Entries:     entries,
		TotalHours:  184,
	}}
}

func request(action models.Action, ents models.ExtractedEntities) models.OperationRequest {
	return models.OperationRequest{
		Intent:   models.Intent{Action: action, EntityType: models.EntityInvoice},
		Entities: ents,
	}
}

func TestCreateInvoiceFromTimesheetHourly(t *testing.T) {
	mem := storetest.NewMemory()
	seedTimesheet(mem)
	mem.Rates = []models.RateCard{{
		ProjectID: "proj-1", TalentID: "tal-1",
		RateType: models.RateTypeHourly, RateValue: 75, Currency: "USD",
	}}
	h := newTestHandler(t, mem)

	result, err := h.Handle(context.Background(), request(models.ActionCreate,
		models.ExtractedEntities{TimesheetID: "TS-202510-148"}))
	require.NoError(t, err)

	assert.Regexp(t, `^INV-202511-\d{3}$`, result.CreatedID)
	require.Len(t, mem.Invoices, 1)

	inv := mem.Invoices[0]
	assert.Equal(t, models.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, "USD", inv.Currency)
	assert.Equal(t, "2025-11-03", inv.IssueDate)
	assert.Equal(t, "2025-12-03", inv.DueDate)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, 184.0, inv.Items[0].Quantity)
	assert.Equal(t, 184.0*75, inv.Items[0].Amount)
}

func TestCreateInvoiceRateTypes(t *testing.T) {
	tests := []struct {
		rateType string
		rate     float64
		quantity float64
	}{
		{models.RateTypeDaily, 600, 23},    // one day per entry
		{models.RateTypeWeekly, 3000, 5},   // 31 days -> 5 weeks
		{models.RateTypeMonthly, 12000, 2}, // 31 days -> 2 billing months
	}

	for _, tt := range tests {
		t.Run(tt.rateType, func(t *testing.T) {
			mem := storetest.NewMemory()
			seedTimesheet(mem)
			mem.Rates = []models.RateCard{{
				ProjectID: "proj-1", TalentID: "tal-1",
				RateType: tt.rateType, RateValue: tt.rate, Currency: "USD",
			}}
			h := newTestHandler(t, mem)

			_, err := h.Handle(context.Background(), request(models.ActionCreate,
				models.ExtractedEntities{TimesheetID: "TS-202510-148"}))
			require.NoError(t, err)
			require.Len(t, mem.Invoices, 1)
			item := mem.Invoices[0].Items[0]
			assert.Equal(t, tt.quantity, item.Quantity)
			assert.Equal(t, tt.quantity*tt.rate, item.Amount)
		})
	}
}

func TestCreateInvoiceIdempotentPerTimesheet(t *testing.T) {
	mem := storetest.NewMemory()
	seedTimesheet(mem)
	mem.Rates = []models.RateCard{{
		ProjectID: "proj-1", TalentID: "tal-1",
		RateType: models.RateTypeHourly, RateValue: 75, Currency: "USD",
	}}
	h := newTestHandler(t, mem)

	first, err := h.Handle(context.Background(), request(models.ActionCreate,
		models.ExtractedEntities{TimesheetID: "TS-202510-148"}))
	require.NoError(t, err)

	second, err := h.Handle(context.Background(), request(models.ActionCreate,
		models.ExtractedEntities{TimesheetID: "TS-202510-148"}))
	require.NoError(t, err)

	assert.Equal(t, first.CreatedID, second.CreatedID)
	assert.Contains(t, second.Message, "already invoiced")
	assert.Len(t, mem.Invoices, 1)
}

func TestCreateInvoiceTimesheetNotFound(t *testing.T) {
	mem := storetest.NewMemory()
	h := newTestHandler(t, mem)

	_, err := h.Handle(context.Background(), request(models.ActionCreate,
		models.ExtractedEntities{TimesheetID: "TS-000000-000"}))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
}

func TestCreateInvoiceMissingRateCard(t *testing.T) {
	mem := storetest.NewMemory()
	seedTimesheet(mem)
	h := newTestHandler(t, mem)

	_, err := h.Handle(context.Background(), request(models.ActionCreate,
		models.ExtractedEntities{TimesheetID: "TS-202510-148"}))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
	assert.Empty(t, mem.Invoices)
}

func TestCreateInvoiceFromExpense(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Expenses = []models.Expense{{
		ExpenseID: "6479b09b-07f3-433c-aaae-ddc9b9b8f21d",
		ProjectID: "proj-1",
		UserID:    "tal-1",
		Currency:  "EUR",
		Status:    "approved",
		Items: []models.ExpenseItem{
			{Description: "Flight", Quantity: 1, Amount: 420},
			{Description: "Hotel", Quantity: 3, Amount: 150},
		},
		TotalAmount: 870,
	}}
	h := newTestHandler(t, mem)

	result, err := h.Handle(context.Background(), request(models.ActionCreate,
		models.ExtractedEntities{ExpenseID: "6479b09b-07f3-433c-aaae-ddc9b9b8f21d"}))
	require.NoError(t, err)

	require.Len(t, mem.Invoices, 1)
	inv := mem.Invoices[0]
	assert.Equal(t, "EUR", inv.Currency)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, 420.0, inv.Items[0].Amount)
	assert.Equal(t, 450.0, inv.Items[1].Amount)
	assert.Equal(t, 870.0, result.Record["amount"])
}

func TestCreateInvoiceWithoutSource(t *testing.T) {
	mem := storetest.NewMemory()
	h := newTestHandler(t, mem)

	_, err := h.Handle(context.Background(), request(models.ActionCreate, models.ExtractedEntities{}))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
}

func TestReadInvoiceByNumber(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Invoices = []models.Invoice{{
		InvoiceNumber: "INV-202511-186",
		Status:        models.InvoiceStatusSent,
		Currency:      "USD",
		Items:         []models.InvoiceItem{{Description: "work", Amount: 13800}},
	}}
	h := newTestHandler(t, mem)

	result, err := h.Handle(context.Background(), request(models.ActionRead,
		models.ExtractedEntities{InvoiceNumber: "INV-202511-186"}))
	require.NoError(t, err)
	assert.Equal(t, "INV-202511-186", result.Record["invoiceNumber"])
	assert.Equal(t, 13800.0, result.Record["amount"])
}

func TestListInvoicesByStatus(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Invoices = []models.Invoice{
		{InvoiceNumber: "INV-202511-001", Status: "draft"},
		{InvoiceNumber: "INV-202511-002", Status: "paid"},
		{InvoiceNumber: "INV-202511-003", Status: "draft"},
	}
	h := newTestHandler(t, mem)

	result, err := h.Handle(context.Background(), request(models.ActionQuery,
		models.ExtractedEntities{Status: "draft"}))
	require.NoError(t, err)
	assert.Len(t, result.Records, 2)
}

func TestUpdateInvoiceStatus(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Invoices = []models.Invoice{{InvoiceNumber: "INV-202511-186", Status: "sent"}}
	h := newTestHandler(t, mem)

	result, err := h.Handle(context.Background(), request(models.ActionUpdate,
		models.ExtractedEntities{InvoiceNumber: "INV-202511-186", Status: "paid"}))
	require.NoError(t, err)
	assert.Contains(t, result.Message, "sent to paid")
	assert.Equal(t, "paid", mem.Invoices[0].Status)
}

func TestUpdateInvoiceInvalidStatus(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Invoices = []models.Invoice{{InvoiceNumber: "INV-202511-186", Status: "sent"}}
	h := newTestHandler(t, mem)

	_, err := h.Handle(context.Background(), request(models.ActionUpdate,
		models.ExtractedEntities{InvoiceNumber: "INV-202511-186", Status: "submitted"}))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
}

func TestDeleteInvoiceUnsupported(t *testing.T) {
	mem := storetest.NewMemory()
	h := newTestHandler(t, mem)

	_, err := h.Handle(context.Background(), request(models.ActionDelete,
		models.ExtractedEntities{InvoiceNumber: "INV-202511-186"}))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnsupportedOp, apperrors.CodeOf(err))
}
