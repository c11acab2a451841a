package project

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
	mem.Projects = []models.Project{
		{ProjectID: "proj-1", ProjectName: "Apollo", TalentID: "tal-1", Status: "active"},
		{ProjectID: "proj-2", ProjectName: "Borealis", TalentID: "tal-2", Status: "active"},
		{ProjectID: "proj-3", ProjectName: "Calypso", Status: "archived"},
	}
	mem.Talents = []models.Talent{
		{UserID: "tal-1", CompanyLegalName: "Hart Consulting", Country: "NL"},
		{UserID: "tal-2", CompanyLegalName: "Verde Studio", Country: "ES"},
	}
	return mem
}

func newTestHandler(t *testing.T, mem *storetest.Memory) *Handler {
	t.Helper()
	return New(mem.ProjectStore(), mem.TalentStore(), logger.NewTestLogger(t), 20)
}

func TestReadProjectByName(t *testing.T) {
	mem := seed()
	h := newTestHandler(t, mem)

	result, err := h.Handle(context.Background(), models.OperationRequest{
		Intent:   models.Intent{Action: models.ActionRead, EntityType: models.EntityProject},
		Entities: models.ExtractedEntities{ProjectName: "apollo"},
	})
	require.NoError(t, err)
	assert.Equal(t, "proj-1", result.Record["projectId"])
	assert.Equal(t, "Apollo", result.Record["name"])
}

func TestReadProjectNotFound(t *testing.T) {
	mem := seed()
	h := newTestHandler(t, mem)

	_, err := h.Handle(context.Background(), models.OperationRequest{
		Intent:   models.Intent{Action: models.ActionRead, EntityType: models.EntityProject},
		Entities: models.ExtractedEntities{ProjectName: "Zephyr"},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
}

func TestListProjectsByStatus(t *testing.T) {
	mem := seed()
	h := newTestHandler(t, mem)

	result, err := h.Handle(context.Background(), models.OperationRequest{
		Intent:   models.Intent{Action: models.ActionQuery, EntityType: models.EntityProject},
		Entities: models.ExtractedEntities{Status: "active"},
	})
	require.NoError(t, err)
	assert.Len(t, result.Records, 2)
}

func TestReadTalentByID(t *testing.T) {
	mem := seed()
	h := newTestHandler(t, mem)

	result, err := h.Handle(context.Background(), models.OperationRequest{
		Intent:   models.Intent{Action: models.ActionRead, EntityType: models.EntityTalent},
		Entities: models.ExtractedEntities{TalentID: "tal-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hart Consulting", result.Record["name"])
}

func TestListTalentsForProject(t *testing.T) {
	mem := seed()
	h := newTestHandler(t, mem)

	result, err := h.Handle(context.Background(), models.OperationRequest{
		Intent:   models.Intent{Action: models.ActionQuery, EntityType: models.EntityTalent},
		Entities: models.ExtractedEntities{ProjectName: "Apollo"},
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "tal-1", result.Records[0]["talentId"])
}

func TestUpdateProjectUnsupported(t *testing.T) {
	mem := seed()
	h := newTestHandler(t, mem)

	_, err := h.Handle(context.Background(), models.OperationRequest{
		Intent:   models.Intent{Action: models.ActionUpdate, EntityType: models.EntityProject},
		Entities: models.ExtractedEntities{ProjectID: "proj-1", Status: "archived"},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnsupportedOp, apperrors.CodeOf(err))
}
