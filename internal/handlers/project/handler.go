// Package project implements the read-only project and talent lookups.
// Both entity types route here because talents are only ever queried in
// relation to projects.
package project

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
	projects  store.ProjectStore
	talents   store.TalentStore
	log       logger.Logger
	listLimit int64
}

func New(projects store.ProjectStore, talents store.TalentStore, log logger.Logger, listLimit int64) *Handler {
	if listLimit <= 0 {
		listLimit = defaultListLimit
	}
	return &Handler{projects: projects, talents: talents, log: log, listLimit: listLimit}
}

func (h *Handler) Handle(ctx context.Context, req models.OperationRequest) (*models.OperationResult, error) {
	var (
		result *models.OperationResult
		err    error
	)

	switch req.Intent.Action {
	case models.ActionRead, models.ActionQuery:
		if req.Intent.EntityType == models.EntityTalent {
			result, err = h.readTalent(ctx, req.Entities)
		} else {
			result, err = h.readProject(ctx, req.Entities)
		}
	default:
		err = apperrors.NewUnsupportedOperationError(string(req.Intent.Action), string(req.Intent.EntityType))
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.HandlerOperations.WithLabelValues(string(req.Intent.EntityType), string(req.Intent.Action), status).Inc()
	return result, err
}

func (h *Handler) readProject(ctx context.Context, ents models.ExtractedEntities) (*models.OperationResult, error) {
	if ents.ProjectID != "" {
		p, err := h.projects.Get(ctx, ents.ProjectID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperrors.NewNotFoundError("project", ents.ProjectID)
			}
			return nil, err
		}
		return &models.OperationResult{
			Operation:  "read",
			EntityType: models.EntityProject,
			Record:     projectRecord(p),
		}, nil
	}

	if ents.ProjectName != "" {
		p, err := h.projects.GetByName(ctx, ents.ProjectName)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperrors.NewNotFoundError("project", ents.ProjectName)
			}
			return nil, err
		}
		return &models.OperationResult{
			Operation:  "read",
			EntityType: models.EntityProject,
			Record:     projectRecord(p),
		}, nil
	}

	list, err := h.projects.List(ctx, store.ProjectFilter{
		TalentID: ents.TalentID,
		Status:   ents.Status,
		Limit:    h.listLimit,
	})
	if err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(list))
	for i := range list {
		records = append(records, projectRecord(&list[i]))
	}
	return &models.OperationResult{
		Operation:  "list",
		EntityType: models.EntityProject,
		Records:    records,
	}, nil
}

func (h *Handler) readTalent(ctx context.Context, ents models.ExtractedEntities) (*models.OperationResult, error) {
	if ents.TalentID != "" {
		tal, err := h.talents.Get(ctx, ents.TalentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperrors.NewNotFoundError("talent", ents.TalentID)
			}
			return nil, err
		}
		return &models.OperationResult{
			Operation:  "read",
			EntityType: models.EntityTalent,
			Record:     talentRecord(tal),
		}, nil
	}

	// "who works on project X": list projects for the project reference
	// and surface their talent assignments.
	if ents.ProjectID != "" || ents.ProjectName != "" {
		projects, err := h.projects.List(ctx, store.ProjectFilter{
			Name:  ents.ProjectName,
			Limit: h.listLimit,
		})
		if err != nil {
			return nil, err
		}

		var records []models.Record
		for i := range projects {
			p := projects[i]
			if ents.ProjectID != "" && p.ProjectID != ents.ProjectID {
				continue
			}
			if p.TalentID == "" {
				continue
			}
			tal, err := h.talents.Get(ctx, p.TalentID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					continue
				}
				return nil, err
			}
			records = append(records, talentRecord(tal))
		}
		return &models.OperationResult{
			Operation:  "list",
			EntityType: models.EntityTalent,
			Records:    records,
		}, nil
	}

	list, err := h.talents.List(ctx, h.listLimit)
	if err != nil {
		return nil, err
	}
	records := make([]models.Record, 0, len(list))
	for i := range list {
		records = append(records, talentRecord(&list[i]))
	}
	return &models.OperationResult{
		Operation:  "list",
		EntityType: models.EntityTalent,
		Records:    records,
	}, nil
}

func projectRecord(p *models.Project) models.Record {
	return models.Record{
		"projectId": p.ProjectID,
		"name":      p.ProjectName,
		"clientId":  p.ClientID,
		"talentId":  p.TalentID,
		"status":    p.Status,
	}
}

func talentRecord(t *models.Talent) models.Record {
	return models.Record{
		"talentId": t.UserID,
		"name":     t.CompanyLegalName,
		"country":  t.Country,
	}
}
