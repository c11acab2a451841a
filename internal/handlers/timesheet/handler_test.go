package timesheet

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
	h := New(mem.TimesheetStore(), mem.ProjectStore(), logger.NewTestLogger(t), 20)
	h.now = func() time.Time {
		return time.Date(2025, time.October, 20, 12, 0, 0, 0, time.UTC)
	}
	return h
}

func createRequest(ents models.ExtractedEntities) models.OperationRequest {
	return models.OperationRequest{
		Intent:   models.Intent{Action: models.ActionCreate, EntityType: models.EntityTimesheet},
		Entities: ents,
	}
}

func hoursPtr(v float64) *float64 { return &v }

func TestCreateTimesheet(t *testing.T) {
	mem := storetest.NewMemory()
	h := newTestHandler(t, mem)

	result, err := h.Handle(context.Background(), createRequest(models.ExtractedEntities{
		ProjectID: "proj-1",
		TalentID:  "tal-1",
		StartDate: "2025-10-01",
		EndDate:   "2025-10-31",
	}))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Regexp(t, `^TS-202510-\d{3}$`, result.CreatedID)
	require.Len(t, mem.Timesheets, 1)

	ts := mem.Timesheets[0]
	assert.Equal(t, models.TimesheetStatusDraft, ts.Status)
	// October 2025 has 23 business days at 8 hours each
	assert.Len(t, ts.Entries, 23)
	assert.Equal(t, 184.0, ts.TotalHours)
	assert.Equal(t, "2025-10-01", ts.Entries[0].Date)
}

func TestCreateTimesheetResolvesProjectName(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Projects = []models.Project{{ProjectID: "proj-1", ProjectName: "Apollo"}}
	h := newTestHandler(t, mem)

	_, err := h.Handle(context.Background(), createRequest(models.ExtractedEntities{
		ProjectName: "apollo",
		TalentID:    "tal-1",
		StartDate:   "2025-10-01",
		EndDate:     "2025-10-03",
		Hours:       hoursPtr(6),
	}))
	require.NoError(t, err)
	require.Len(t, mem.Timesheets, 1)
	assert.Equal(t, "proj-1", mem.Timesheets[0].ProjectID)
	// Oct 1-3 2025 is Wed-Fri
	assert.Equal(t, 18.0, mem.Timesheets[0].TotalHours)
}

func TestCreateTimesheetIdempotent(t *testing.T) {
	mem := storetest.NewMemory()
	h := newTestHandler(t, mem)

	ents := models.ExtractedEntities{
		ProjectID: "proj-1",
		TalentID:  "tal-1",
		StartDate: "2025-10-01",
		EndDate:   "2025-10-31",
	}

	first, err := h.Handle(context.Background(), createRequest(ents))
	require.NoError(t, err)

	second, err := h.Handle(context.Background(), createRequest(ents))
	require.NoError(t, err)

	assert.Equal(t, first.CreatedID, second.CreatedID)
	assert.Contains(t, second.Message, "already exists")
	assert.Len(t, mem.Timesheets, 1)
}

func TestCreateTimesheetValidation(t *testing.T) {
	mem := storetest.NewMemory()
	h := newTestHandler(t, mem)

	tests := []struct {
		name  string
		ents  models.ExtractedEntities
		field string
	}{
		{
			name:  "missing project",
			ents:  models.ExtractedEntities{TalentID: "tal-1", StartDate: "2025-10-01", EndDate: "2025-10-31"},
			field: "project",
		},
		{
			name:  "missing talent",
			ents:  models.ExtractedEntities{ProjectID: "proj-1", StartDate: "2025-10-01", EndDate: "2025-10-31"},
			field: "talent",
		},
		{
			name:  "missing start date",
			ents:  models.ExtractedEntities{ProjectID: "proj-1", TalentID: "tal-1", EndDate: "2025-10-31"},
			field: "start_date",
		},
		{
			name: "end before start",
			ents: models.ExtractedEntities{
				ProjectID: "proj-1", TalentID: "tal-1",
				StartDate: "2025-10-31", EndDate: "2025-10-01",
			},
			field: "end_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(context.Background(), createRequest(tt.ents))
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
			stdErr, ok := apperrors.AsStandard(err)
			require.True(t, ok)
			assert.Contains(t, stdErr.Message, tt.field)
		})
	}
	assert.Empty(t, mem.Timesheets)
}

func TestReadTimesheetByID(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Timesheets = []models.Timesheet{{
		TimesheetID: "TS-202510-148",
		ProjectID:   "proj-1",
		UserID:      "tal-1",
		Status:      models.TimesheetStatusDraft,
		TotalHours:  184,
	}}
	h := newTestHandler(t, mem)

	result, err := h.Handle(context.Background(), models.OperationRequest{
		Intent:   models.Intent{Action: models.ActionRead, EntityType: models.EntityTimesheet},
		Entities: models.ExtractedEntities{TimesheetID: "TS-202510-148"},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Record)
	assert.Equal(t, "TS-202510-148", result.Record["timesheetId"])
	assert.Equal(t, "tal-1", result.Record["talentId"])
}

func TestReadTimesheetNotFound(t *testing.T) {
	mem := storetest.NewMemory()
	h := newTestHandler(t, mem)

	_, err := h.Handle(context.Background(), models.OperationRequest{
		Intent:   models.Intent{Action: models.ActionRead, EntityType: models.EntityTimesheet},
		Entities: models.ExtractedEntities{TimesheetID: "TS-000000-000"},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
}

func TestListTimesheetsWithFilters(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Timesheets = []models.Timesheet{
		{TimesheetID: "TS-202510-001", ProjectID: "proj-1", Status: "draft"},
		{TimesheetID: "TS-202510-002", ProjectID: "proj-1", Status: "approved"},
		{TimesheetID: "TS-202510-003", ProjectID: "proj-2", Status: "draft"},
	}
	h := newTestHandler(t, mem)

	result, err := h.Handle(context.Background(), models.OperationRequest{
		Intent:   models.Intent{Action: models.ActionQuery, EntityType: models.EntityTimesheet},
		Entities: models.ExtractedEntities{ProjectID: "proj-1", Status: "draft"},
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "TS-202510-001", result.Records[0]["timesheetId"])
}

func TestUpdateTimesheetStatus(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Timesheets = []models.Timesheet{{
		TimesheetID: "TS-202510-148",
		Status:      models.TimesheetStatusDraft,
	}}
	h := newTestHandler(t, mem)

	result, err := h.Handle(context.Background(), models.OperationRequest{
		Intent:   models.Intent{Action: models.ActionUpdate, EntityType: models.EntityTimesheet},
		Entities: models.ExtractedEntities{TimesheetID: "TS-202510-148", Status: "submitted"},
	})
	require.NoError(t, err)
	assert.Equal(t, "TS-202510-148", result.UpdatedID)
	assert.Contains(t, result.Message, "draft to submitted")
	assert.Equal(t, "submitted", mem.Timesheets[0].Status)
}

func TestUpdateTimesheetDatesRebuildsEntries(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Timesheets = []models.Timesheet{{
		TimesheetID: "TS-202510-148",
		StartDate:   "2025-10-01",
		EndDate:     "2025-10-31",
		Status:      models.TimesheetStatusDraft,
		Entries:     []models.TimesheetEntry{{Date: "2025-10-01", Hours: 8}},
		TotalHours:  8,
	}}
	h := newTestHandler(t, mem)

	_, err := h.Handle(context.Background(), models.OperationRequest{
		Intent: models.Intent{Action: models.ActionUpdate, EntityType: models.EntityTimesheet},
		Entities: models.ExtractedEntities{
			TimesheetID: "TS-202510-148",
			StartDate:   "2025-10-15",
			EndDate:     "2025-11-07",
		},
	})
	require.NoError(t, err)

	ts := mem.Timesheets[0]
	assert.Equal(t, "2025-10-15", ts.StartDate)
	assert.Equal(t, "2025-11-07", ts.EndDate)
	// Oct 15 - Nov 7 2025 spans 18 business days
	assert.Len(t, ts.Entries, 18)
	assert.Equal(t, 144.0, ts.TotalHours)
}

func TestUpdateTimesheetInvalidStatus(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Timesheets = []models.Timesheet{{TimesheetID: "TS-202510-148", Status: "draft"}}
	h := newTestHandler(t, mem)

	_, err := h.Handle(context.Background(), models.OperationRequest{
		Intent:   models.Intent{Action: models.ActionUpdate, EntityType: models.EntityTimesheet},
		Entities: models.ExtractedEntities{TimesheetID: "TS-202510-148", Status: "paid"},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
}

func TestDeleteUnsupported(t *testing.T) {
	mem := storetest.NewMemory()
	h := newTestHandler(t, mem)

	_, err := h.Handle(context.Background(), models.OperationRequest{
		Intent:   models.Intent{Action: models.ActionDelete, EntityType: models.EntityTimesheet},
		Entities: models.ExtractedEntities{TimesheetID: "TS-202510-148"},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnsupportedOp, apperrors.CodeOf(err))
}
