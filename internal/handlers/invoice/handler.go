// Package invoice implements invoice operations: generation from a
// timesheet or an expense, read, list, and status updates. Amounts come
// from the rate card agreed between the project and the talent.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	apperrors "talentops-bot/internal/common/errors"
	"talentops-bot/internal/common/logger"
	"talentops-bot/internal/common/metrics"
	"talentops-bot/internal/models"
	"talentops-bot/internal/store"
)

const (
	defaultListLimit = 20
	dueDays          = 30
)

type Handler struct {
	invoices   store.InvoiceStore
	timesheets store.TimesheetStore
	expenses   store.ExpenseStore
	rates      store.RateStore
	log        logger.Logger
	listLimit  int64
	now        func() time.Time
}

func New(invoices store.InvoiceStore, timesheets store.TimesheetStore, expenses store.ExpenseStore, rates store.RateStore, log logger.Logger, listLimit int64) *Handler {
	if listLimit <= 0 {
		listLimit = defaultListLimit
	}
	return &Handler{
		invoices:   invoices,
		timesheets: timesheets,
		expenses:   expenses,
		rates:      rates,
		log:        log,
		listLimit:  listLimit,
		now:        time.Now,
	}
}

func (h *Handler) Handle(ctx context.Context, req models.OperationRequest) (*models.OperationResult, error) {
	var (
		result *models.OperationResult
		err    error
	)

	switch req.Intent.Action {
	case models.ActionCreate:
		result, err = h.create(ctx, req.Entities)
	case models.ActionRead, models.ActionQuery:
		result, err = h.read(ctx, req.Entities)
	case models.ActionUpdate:
		result, err = h.updateStatus(ctx, req.Entities)
	default:
		err = apperrors.NewUnsupportedOperationError(string(req.Intent.Action), string(models.EntityInvoice))
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.HandlerOperations.WithLabelValues(string(models.EntityInvoice), string(req.Intent.Action), status).Inc()
	return result, err
}

func (h *Handler) create(ctx context.Context, ents models.ExtractedEntities) (*models.OperationResult, error) {
	switch {
	case ents.TimesheetID != "":
		return h.createFromTimesheet(ctx, ents.TimesheetID)
	case ents.ExpenseID != "":
		return h.createFromExpense(ctx, ents.ExpenseID)
	default:
		return nil, apperrors.NewValidationError("source", "an invoice needs a timesheet id or an expense id")
	}
}

func (h *Handler) createFromTimesheet(ctx context.Context, timesheetID string) (*models.OperationResult, error) {
	// One invoice per timesheet: a repeat create returns the existing one.
	if existing, err := h.invoices.FindByTimesheet(ctx, timesheetID); err == nil {
		return &models.OperationResult{
			Operation:  "create",
			EntityType: models.EntityInvoice,
			CreatedID:  existing.InvoiceNumber,
			Record:     toRecord(existing),
			Message:    fmt.Sprintf("Timesheet %s is already invoiced.", timesheetID),
		}, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	ts, err := h.timesheets.Get(ctx, timesheetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("timesheet", timesheetID)
		}
		return nil, err
	}

	rate, err := h.rates.Get(ctx, ts.ProjectID, ts.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("rate card", ts.ProjectID+"/"+ts.UserID)
		}
		return nil, err
	}

	item, err := billTimesheet(ts, rate)
	if err != nil {
		return nil, err
	}

	now := h.now().UTC()
	inv := &models.Invoice{
		InvoiceNumber: newInvoiceNumber(now),
		ProjectID:     ts.ProjectID,
		TalentID:      ts.UserID,
		TimesheetID:   ts.TimesheetID,
		Status:        models.InvoiceStatusDraft,
		Items:         []models.InvoiceItem{item},
		Currency:      rate.Currency,
		IssueDate:     now.Format("2006-01-02"),
		DueDate:       now.AddDate(0, 0, dueDays).Format("2006-01-02"),
		CreatedAt:     now.Format(time.RFC3339),
		UpdatedAt:     now.Format(time.RFC3339),
	}

	if err := h.invoices.Insert(ctx, inv); err != nil {
		return nil, err
	}

	h.log.Info("Invoice created from timesheet", map[string]interface{}{
		"invoice_number": inv.InvoiceNumber,
		"timesheet_id":   ts.TimesheetID,
		"amount":         item.Amount,
		"currency":       inv.Currency,
	})

	return &models.OperationResult{
		Operation:  "create",
		EntityType: models.EntityInvoice,
		CreatedID:  inv.InvoiceNumber,
		Record:     toRecord(inv),
	}, nil
}

func (h *Handler) createFromExpense(ctx context.Context, expenseID string) (*models.OperationResult, error) {
	if existing, err := h.invoices.FindByExpense(ctx, expenseID); err == nil {
		return &models.OperationResult{
			Operation:  "create",
			EntityType: models.EntityInvoice,
			CreatedID:  existing.InvoiceNumber,
			Record:     toRecord(existing),
			Message:    fmt.Sprintf("Expense %s is already invoiced.", expenseID),
		}, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	exp, err := h.expenses.Get(ctx, expenseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("expense", expenseID)
		}
		return nil, err
	}

	items := make([]models.InvoiceItem, 0, len(exp.Items))
	for _, it := range exp.Items {
		items = append(items, models.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Amount,
			Amount:      it.Quantity * it.Amount,
		})
	}

	now := h.now().UTC()
	inv := &models.Invoice{
		InvoiceNumber: newInvoiceNumber(now),
		ProjectID:     exp.ProjectID,
		TalentID:      exp.UserID,
		ExpenseID:     exp.ExpenseID,
		Status:        models.InvoiceStatusDraft,
		Items:         items,
		Currency:      exp.Currency,
		IssueDate:     now.Format("2006-01-02"),
		DueDate:       now.AddDate(0, 0, dueDays).Format("2006-01-02"),
		CreatedAt:     now.Format(time.RFC3339),
		UpdatedAt:     now.Format(time.RFC3339),
	}

	if err := h.invoices.Insert(ctx, inv); err != nil {
		return nil, err
	}

	h.log.Info("Invoice created from expense", map[string]interface{}{
		"invoice_number": inv.InvoiceNumber,
		"expense_id":     exp.ExpenseID,
	})

	return &models.OperationResult{
		Operation:  "create",
		EntityType: models.EntityInvoice,
		CreatedID:  inv.InvoiceNumber,
		Record:     toRecord(inv),
	}, nil
}

func (h *Handler) read(ctx context.Context, ents models.ExtractedEntities) (*models.OperationResult, error) {
	if ents.InvoiceNumber != "" {
		inv, err := h.invoices.Get(ctx, ents.InvoiceNumber)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperrors.NewNotFoundError("invoice", ents.InvoiceNumber)
			}
			return nil, err
		}
		return &models.OperationResult{
			Operation:  "read",
			EntityType: models.EntityInvoice,
			Record:     toRecord(inv),
		}, nil
	}

	list, err := h.invoices.List(ctx, store.InvoiceFilter{
		ProjectID: ents.ProjectID,
		TalentID:  ents.TalentID,
		Status:    ents.Status,
		Limit:     h.listLimit,
	})
	if err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(list))
	for i := range list {
		records = append(records, toRecord(&list[i]))
	}
	return &models.OperationResult{
		Operation:  "list",
		EntityType: models.EntityInvoice,
		Records:    records,
	}, nil
}

func (h *Handler) updateStatus(ctx context.Context, ents models.ExtractedEntities) (*models.OperationResult, error) {
	if err := validateStatusUpdate(ents); err != nil {
		return nil, err
	}

	current, err := h.invoices.Get(ctx, ents.InvoiceNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("invoice", ents.InvoiceNumber)
		}
		return nil, err
	}

	if err := h.invoices.UpdateStatus(ctx, ents.InvoiceNumber, ents.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("invoice", ents.InvoiceNumber)
		}
		return nil, err
	}

	h.log.Info("Invoice status updated", map[string]interface{}{
		"invoice_number": ents.InvoiceNumber,
		"from":           current.Status,
		"to":             ents.Status,
	})

	return &models.OperationResult{
		Operation:  "update",
		EntityType: models.EntityInvoice,
		UpdatedID:  ents.InvoiceNumber,
		Message:    fmt.Sprintf("Status changed from %s to %s.", current.Status, ents.Status),
	}, nil
}

// billTimesheet turns worked time into a single invoice line according
// to the rate card's billing unit.
func billTimesheet(ts *models.Timesheet, rate *models.RateCard) (models.InvoiceItem, error) {
	var quantity float64
	var unit string

	switch rate.RateType {
	case models.RateTypeHourly:
		quantity = ts.TotalHours
		unit = "hours"
	case models.RateTypeDaily:
		quantity = float64(len(ts.Entries))
		unit = "days"
	case models.RateTypeWeekly:
		quantity = math.Ceil(spanDays(ts) / 7)
		unit = "weeks"
	case models.RateTypeMonthly:
		quantity = math.Ceil(spanDays(ts) / 30)
		unit = "months"
	default:
		return models.InvoiceItem{}, apperrors.NewValidationError("rate_type",
			fmt.Sprintf("unsupported rate type %q", rate.RateType))
	}

	return models.InvoiceItem{
		Description: fmt.Sprintf("%s %s to %s (%g %s)", ts.TimesheetID, ts.StartDate, ts.EndDate, quantity, unit),
		Quantity:    quantity,
		Rate:        rate.RateValue,
		Amount:      quantity * rate.RateValue,
		RateType:    rate.RateType,
	}, nil
}

// spanDays is the inclusive calendar length of the timesheet period.
func spanDays(ts *models.Timesheet) float64 {
	start, err1 := time.Parse("2006-01-02", ts.StartDate)
	end, err2 := time.Parse("2006-01-02", ts.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return float64(len(ts.Entries))
	}
	return end.Sub(start).Hours()/24 + 1
}

func newInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%s-%03d", now.Format("200601"), uuid.New().ID()%1000)
}

func toRecord(inv *models.Invoice) models.Record {
	items := make([]models.Record, 0, len(inv.Items))
	var total float64
	for _, it := range inv.Items {
		items = append(items, models.Record{
			"description": it.Description,
			"quantity":    it.Quantity,
			"rate":        it.Rate,
			"amount":      it.Amount,
		})
		total += it.Amount
	}
	return models.Record{
		"invoiceNumber": inv.InvoiceNumber,
		"projectId":     inv.ProjectID,
		"talentId":      inv.TalentID,
		"timesheetId":   inv.TimesheetID,
		"expenseId":     inv.ExpenseID,
		"amount":        total,
		"currency":      inv.Currency,
		"issueDate":     inv.IssueDate,
		"dueDate":       inv.DueDate,
		"status":        inv.Status,
		"items":         items,
	}
}
