// Package expense implements the read-only expense operations.
package expense

import (
	"context"
	"errors"

	apperrors "talentops-bot/internal/common/errors"
	"talentops-bot/internal/common/logger"
	"talentops-bot/internal/common/metrics"
	"talentops-bot/internal/models"
	"talentops-bot/internal/store"
)

const defaultListLimit = 20

type Handler struct {
	expenses  store.ExpenseStore
	log       logger.Logger
	listLimit int64
}

func New(expenses store.ExpenseStore, log logger.Logger, listLimit int64) *Handler {
	if listLimit <= 0 {
		listLimit = defaultListLimit
	}
	return &Handler{expenses: expenses, log: log, listLimit: listLimit}
}

// Handle serves reads and listings. Expenses are created upstream in the
// expense system, so every write action is unsupported here.
func (h *Handler) Handle(ctx context.Context, req models.OperationRequest) (*models.OperationResult, error) {
	var (
		result *models.OperationResult
		err    error
	)

	switch req.Intent.Action {
	case models.ActionRead, models.ActionQuery:
		result, err = h.read(ctx, req.Entities)
	default:
		err = apperrors.NewUnsupportedOperationError(string(req.Intent.Action), string(models.EntityExpense))
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.HandlerOperations.WithLabelValues(string(models.EntityExpense), string(req.Intent.Action), status).Inc()
	return result, err
}

func (h *Handler) read(ctx context.Context, ents models.ExtractedEntities) (*models.OperationResult, error) {
	if ents.ExpenseID != "" {
		exp, err := h.expenses.Get(ctx, ents.ExpenseID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperrors.NewNotFoundError("expense", ents.ExpenseID)
			}
			return nil, err
		}
		return &models.OperationResult{
			Operation:  "read",
			EntityType: models.EntityExpense,
			Record:     toRecord(exp),
		}, nil
	}

	list, err := h.expenses.List(ctx, store.ExpenseFilter{
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
		EntityType: models.EntityExpense,
		Records:    records,
	}, nil
}

func toRecord(exp *models.Expense) models.Record {
	items := make([]models.Record, 0, len(exp.Items))
	for _, it := range exp.Items {
		items = append(items, models.Record{
			"description": it.Description,
			"quantity":    it.Quantity,
			"amount":      it.Amount,
		})
	}
	return models.Record{
		"expenseId": exp.ExpenseID,
		"projectId": exp.ProjectID,
		"talentId":  exp.UserID,
		"amount":    exp.TotalAmount,
		"currency":  exp.Currency,
		"status":    exp.Status,
		"items":     items,
	}
}
