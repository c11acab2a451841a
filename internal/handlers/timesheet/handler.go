// Package timesheet implements the timesheet operations: create with
// per-day entries, read, list with filters, and status or date updates.
package timesheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "talentops-bot/internal/common/errors"
	"talentops-bot/internal/common/logger"
	"talentops-bot/internal/common/metrics"
	"talentops-bot/internal/models"
	"talentops-bot/internal/store"
)

const (
	defaultHoursPerDay = 8.0
	defaultListLimit   = 20
)

type Handler struct {
	timesheets store.TimesheetStore
	projects   store.ProjectStore
	log        logger.Logger
	listLimit  int64
	now        func() time.Time
}

func New(timesheets store.TimesheetStore, projects store.ProjectStore, log logger.Logger, listLimit int64) *Handler {
	if listLimit <= 0 {
		listLimit = defaultListLimit
	}
	return &Handler{
		timesheets: timesheets,
		projects:   projects,
		log:        log,
		listLimit:  listLimit,
		now:        time.Now,
	}
}

// Handle routes an operation request to the matching timesheet
// operation. DELETE is not part of the feature set.
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
		result, err = h.update(ctx, req.Entities)
	default:
		err = apperrors.NewUnsupportedOperationError(string(req.Intent.Action), string(models.EntityTimesheet))
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.HandlerOperations.WithLabelValues(string(models.EntityTimesheet), string(req.Intent.Action), status).Inc()
	return result, err
}

func (h *Handler) create(ctx context.Context, ents models.ExtractedEntities) (*models.OperationResult, error) {
	projectID, err := h.resolveProject(ctx, ents)
	if err != nil {
		return nil, err
	}
	if err := validateCreate(projectID, ents); err != nil {
		return nil, err
	}

	key := store.TimesheetKey{
		ProjectID: projectID,
		TalentID:  ents.TalentID,
		StartDate: ents.StartDate,
		EndDate:   ents.EndDate,
	}

	// A create for an existing business key returns the existing record
	// instead of inserting a duplicate.
	if existing, err := h.timesheets.FindByKey(ctx, key); err == nil {
		h.log.Info("Timesheet create matched existing record", map[string]interface{}{
			"timesheet_id": existing.TimesheetID,
		})
		return &models.OperationResult{
			Operation:  "create",
			EntityType: models.EntityTimesheet,
			CreatedID:  existing.TimesheetID,
			Record:     toRecord(existing),
			Message:    "A timesheet for this project, talent and period already exists.",
		}, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hoursPerDay := defaultHoursPerDay
	if ents.Hours != nil {
		hoursPerDay = *ents.Hours
	}

	entries, total, err := buildEntries(ents.StartDate, ents.EndDate, hoursPerDay)
	if err != nil {
		return nil, err
	}

	now := h.now().UTC()
	ts := &models.Timesheet{
		TimesheetID: newTimesheetID(now),
		ProjectID:   projectID,
		UserID:      ents.TalentID,
		StartDate:   ents.StartDate,
		EndDate:     ents.EndDate,
		Status:      models.TimesheetStatusDraft,
		Entries:     entries,
		TotalHours:  total,
		CreatedAt:   now.Format(time.RFC3339),
		UpdatedAt:   now.Format(time.RFC3339),
	}

	if err := h.timesheets.Insert(ctx, ts); err != nil {
		return nil, err
	}

	h.log.Info("Timesheet created", map[string]interface{}{
		"timesheet_id": ts.TimesheetID,
		"project_id":   ts.ProjectID,
		"total_hours":  ts.TotalHours,
	})

	return &models.OperationResult{
		Operation:  "create",
		EntityType: models.EntityTimesheet,
		CreatedID:  ts.TimesheetID,
		Record:     toRecord(ts),
	}, nil
}

func (h *Handler) read(ctx context.Context, ents models.ExtractedEntities) (*models.OperationResult, error) {
	if ents.TimesheetID != "" {
		ts, err := h.timesheets.Get(ctx, ents.TimesheetID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperrors.NewNotFoundError("timesheet", ents.TimesheetID)
			}
			return nil, err
		}
		return &models.OperationResult{
			Operation:  "read",
			EntityType: models.EntityTimesheet,
			Record:     toRecord(ts),
		}, nil
	}

	projectID, err := h.resolveProject(ctx, ents)
	if err != nil {
		return nil, err
	}

	list, err := h.timesheets.List(ctx, store.TimesheetFilter{
		ProjectID: projectID,
		TalentID:  ents.TalentID,
		Status:    ents.Status,
		StartDate: ents.StartDate,
		EndDate:   ents.EndDate,
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
		EntityType: models.EntityTimesheet,
		Records:    records,
	}, nil
}

func (h *Handler) update(ctx context.Context, ents models.ExtractedEntities) (*models.OperationResult, error) {
	if err := validateUpdate(ents); err != nil {
		return nil, err
	}

	current, err := h.timesheets.Get(ctx, ents.TimesheetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("timesheet", ents.TimesheetID)
		}
		return nil, err
	}

	fields := map[string]interface{}{
		"updated_at": h.now().UTC().Format(time.RFC3339),
	}
	var message string

	if ents.Status != "" {
		fields["status"] = ents.Status
		message = fmt.Sprintf("Status changed from %s to %s.", current.Status, ents.Status)
	}

	// A date or hours change rebuilds the per-day entries.
	if ents.StartDate != "" || ents.EndDate != "" || ents.Hours != nil {
		start := current.StartDate
		if ents.StartDate != "" {
			start = ents.StartDate
		}
		end := current.EndDate
		if ents.EndDate != "" {
			end = ents.EndDate
		}
		hoursPerDay := entryHours(current)
		if ents.Hours != nil {
			hoursPerDay = *ents.Hours
		}

		entries, total, err := buildEntries(start, end, hoursPerDay)
		if err != nil {
			return nil, err
		}
		fields["start_date"] = start
		fields["end_date"] = end
		fields["entries"] = entries
		fields["total_hours"] = total
		if message != "" {
			message += " "
		}
		message += fmt.Sprintf("Period %s to %s, %s total hours.", start, end, trimFloat(total))
	}

	if err := h.timesheets.Update(ctx, ents.TimesheetID, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("timesheet", ents.TimesheetID)
		}
		return nil, err
	}

	h.log.Info("Timesheet updated", map[string]interface{}{
		"timesheet_id": ents.TimesheetID,
	})

	return &models.OperationResult{
		Operation:  "update",
		EntityType: models.EntityTimesheet,
		UpdatedID:  ents.TimesheetID,
		Message:    message,
	}, nil
}

// resolveProject turns a project name into its id when the query only
// carried a name.
func (h *Handler) resolveProject(ctx context.Context, ents models.ExtractedEntities) (string, error) {
	if ents.ProjectID != "" {
		return ents.ProjectID, nil
	}
	if ents.ProjectName == "" {
		return "", nil
	}
	p, err := h.projects.GetByName(ctx, ents.ProjectName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperrors.NewNotFoundError("project", ents.ProjectName)
		}
		return "", err
	}
	return p.ProjectID, nil
}

// buildEntries generates one entry per business day in the inclusive
// range. Weekends carry no hours.
func buildEntries(startDate, endDate string, hoursPerDay float64) ([]models.TimesheetEntry, float64, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, 0, apperrors.NewValidationError("start_date", "expected YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, 0, apperrors.NewValidationError("end_date", "expected YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, 0, apperrors.NewValidationError("end_date", "end date is before start date")
	}

	var entries []models.TimesheetEntry
	var total float64
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		entries = append(entries, models.TimesheetEntry{
			Date:  d.Format("2006-01-02"),
			Hours: hoursPerDay,
		})
		total += hoursPerDay
	}
	return entries, total, nil
}

// entryHours recovers the per-day hours from an existing timesheet.
func entryHours(ts *models.Timesheet) float64 {
	for _, e := range ts.Entries {
		if e.Hours > 0 {
			return e.Hours
		}
	}
	return defaultHoursPerDay
}

func newTimesheetID(now time.Time) string {
	return fmt.Sprintf("TS-%s-%03d", now.Format("200601"), uuid.New().ID()%1000)
}

func toRecord(ts *models.Timesheet) models.Record {
	entries := make([]models.Record, 0, len(ts.Entries))
	for _, e := range ts.Entries {
		entries = append(entries, models.Record{
			"date":  e.Date,
			"hours": e.Hours,
		})
	}
	return models.Record{
		"timesheetId": ts.TimesheetID,
		"projectId":   ts.ProjectID,
		"talentId":    ts.UserID,
		"startDate":   ts.StartDate,
		"endDate":     ts.EndDate,
		"totalHours":  ts.TotalHours,
		"status":      ts.Status,
		"entries":     entries,
	}
}

func trimFloat(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
