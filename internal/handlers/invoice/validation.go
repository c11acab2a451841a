package invoice

import (
	apperrors "talentops-bot/internal/common/errors"
	"talentops-bot/internal/models"
)

var validStatuses = map[string]bool{
	models.InvoiceStatusDraft:     true,
	models.InvoiceStatusSent:      true,
	models.InvoiceStatusPaid:      true,
	models.InvoiceStatusCancelled: true,
}

func validateStatusUpdate(ents models.ExtractedEntities) error {
	if ents.InvoiceNumber == "" {
		return apperrors.NewValidationError("invoice_number", "an invoice number is required")
	}
	if ents.Status == "" {
		return apperrors.NewValidationError("status", "a target status is required")
	}
	if !validStatuses[ents.Status] {
		return apperrors.NewValidationError("status", "status must be draft, sent, paid or cancelled")
	}
	return nil
}
