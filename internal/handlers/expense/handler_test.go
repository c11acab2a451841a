package expense

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "talentops-bot/internal/common/errors"
	"talentops-bot/internal/common/logger"
	"talentops-bot/internal/models"
	"talentops-bot/internal/store/storetest"
)

func seed() *storetest.Memory {
	mem := storetest.NewMemory()
	mem.Expenses = []models.Expense{
		{
			ExpenseID: "6479b09b-07f3-433c-aaae-ddc9b9b8f21d",
			ProjectID: "proj-1",
			UserID:    "tal-1",
			Currency:  "USD",
			Status:    "approved",
			Items: []models.ExpenseItem{
				{Description: "Taxi", Quantity: 2, Amount: 30},
			},
			TotalAmount: 60,
		},
		{
			ExpenseID:   "b2c3d4e5-07f3-433c-aaae-ddc9b9b8f21d",
			ProjectID:   "proj-2",
			UserID:      "tal-1",
			Currency:    "USD",
			Status:      "pending",
			TotalAmount: 250.5,
		},
	}
	return mem
}

func TestReadExpenseByID(t *testing.T) {
	mem := seed()
	h := New(mem.ExpenseStore(), logger.NewTestLogger(t), 20)

	result, err := h.Handle(context.Background(), models.OperationRequest{
		Intent:   models.Intent{Action: models.ActionRead, EntityType: models.EntityExpense},
		Entities: models.ExtractedEntities{ExpenseID: "6479b09b-07f3-433c-aaae-ddc9b9b8f21d"},
	})
	require.NoError(t, err)
	assert.Equal(t, 60.0, result.Record["amount"])
	assert.Equal(t, "approved", result.Record["status"])
}

func TestReadExpenseNotFound(t *testing.T) {
	mem := seed()
	h := New(mem.ExpenseStore(), logger.NewTestLogger(t), 20)

	_, err := h.Handle(context.Background(), models.OperationRequest{
		Intent:   models.Intent{Action: models.ActionRead, EntityType: models.EntityExpense},
		Entities: models.ExtractedEntities{ExpenseID: "00000000-0000-0000-0000-000000000000"},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
}

func TestListExpensesByStatus(t *testing.T) {
	mem := seed()
	h := New(mem.ExpenseStore(), logger.NewTestLogger(t), 20)

	result, err := h.Handle(context.Background(), models.OperationRequest{
		Intent:   models.Intent{Action: models.ActionQuery, EntityType: models.EntityExpense},
		Entities: models.ExtractedEntities{Status: "pending"},
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, 250.5, result.Records[0]["amount"])
}

func TestCreateExpenseUnsupported(t *testing.T) {
	mem := seed()
	h := New(mem.ExpenseStore(), logger.NewTestLogger(t), 20)

	_, err := h.Handle(context.Background(), models.OperationRequest{
		Intent: models.Intent{Action: models.ActionCreate, EntityType: models.EntityExpense},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnsupportedOp, apperrors.CodeOf(err))
}
