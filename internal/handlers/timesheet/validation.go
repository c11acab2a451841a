package timesheet

import (
	apperrors "talentops-bot/internal/common/errors"
	"talentops-bot/internal/models"
)

var validStatuses = map[string]bool{
	models.TimesheetStatusDraft:     true,
	models.TimesheetStatusSubmitted: true,
	models.TimesheetStatusApproved:  true,
	models.TimesheetStatusRejected:  true,
}

func validateCreate(projectID string, ents models.ExtractedEntities) error {
	if projectID == "" {
		return apperrors.NewValidationError("project", "a project id or name is required")
	}
	if ents.TalentID == "" {
		return apperrors.NewValidationError("talent", "a talent id is required")
	}
	if ents.StartDate == "" {
		return apperrors.NewValidationError("start_date", "a start date is required")
	}
	if ents.EndDate == "" {
		return apperrors.NewValidationError("end_date", "an end date is required")
	}
	if ents.Hours != nil && (*ents.Hours <= 0 || *ents.Hours > 24) {
		return apperrors.NewValidationError("hours", "hours per day must be between 0 and 24")
	}
	return nil
}

func validateUpdate(ents models.ExtractedEntities) error {
	if ents.TimesheetID == "" {
		return apperrors.NewValidationError("timesheet_id", "a timesheet id is required")
	}
	if ents.Status == "" && ents.StartDate == "" && ents.EndDate == "" && ents.Hours == nil {
		return apperrors.NewValidationError("update", "nothing to update")
	}
	if ents.Status != "" && !validStatuses[ents.Status] {
		return apperrors.NewValidationError("status", "status must be draft, submitted, approved or rejected")
	}
	if ents.Hours != nil && (*ents.Hours <= 0 || *ents.Hours > 24) {
		return apperrors.NewValidationError("hours", "hours per day must be between 0 and 24")
	}
	return nil
}
