package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"talentops-bot/internal/models"
)

func TestClassifyConclusive(t *testing.T) {
	c := New()

	tests := []struct {
		name   string
		text   string
		ents   models.ExtractedEntities
		action models.Action
		entity models.EntityType
	}{
		{
			name:   "read with qualifier noun",
			text:   "Show me all timesheets for project X",
			action: models.ActionRead,
			entity: models.EntityTimesheet,
		},
		{
			name:   "create with two qualifier nouns",
			text:   "Create a timesheet for project X and talent Y from Oct 1 to Oct 31",
			action: models.ActionCreate,
			entity: models.EntityTimesheet,
		},
		{
			name:   "generate invoice from timesheet",
			text:   "Generate an invoice for timesheet TS-202510-148",
			ents:   models.ExtractedEntities{TimesheetID: "TS-202510-148"},
			action: models.ActionCreate,
			entity: models.EntityInvoice,
		},
		{
			name:   "list maps to query",
			text:   "list all invoices in draft",
			action: models.ActionQuery,
			entity: models.EntityInvoice,
		},
		{
			name:   "update by status keyword verb",
			text:   "mark invoice INV-202511-186 as paid",
			ents:   models.ExtractedEntities{InvoiceNumber: "INV-202511-186"},
			action: models.ActionUpdate,
			entity: models.EntityInvoice,
		},
		{
			name:   "synonym nouns resolve to talent",
			text:   "find contractors on project X",
			action: models.ActionQuery,
			entity: models.EntityTalent,
		},
		{
			name:   "delete detected even though unsupported downstream",
			text:   "delete timesheet TS-202510-148",
			action: models.ActionDelete,
			entity: models.EntityTimesheet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, ok := c.Classify(tt.text, tt.ents)
			assert.True(t, ok)
			assert.Equal(t, tt.action, intent.Action)
			assert.Equal(t, tt.entity, intent.EntityType)
			assert.GreaterOrEqual(t, intent.Confidence, 0.7)
		})
	}
}

func TestClassifyEntityBasedInference(t *testing.T) {
	c := New()

	// No noun keyword; the id alone names the target.
	intent, ok := c.Classify("show TS-202510-148", models.ExtractedEntities{TimesheetID: "TS-202510-148"})
	assert.True(t, ok)
	assert.Equal(t, models.ActionRead, intent.Action)
	assert.Equal(t, models.EntityTimesheet, intent.EntityType)
	assert.InDelta(t, 0.7, intent.Confidence, 0.001)

	intent, ok = c.Classify("display INV-202511-186", models.ExtractedEntities{InvoiceNumber: "INV-202511-186"})
	assert.True(t, ok)
	assert.Equal(t, models.EntityInvoice, intent.EntityType)
}

func TestClassifyInconclusive(t *testing.T) {
	c := New()

	tests := []struct {
		name string
		text string
		ents models.ExtractedEntities
	}{
		{name: "no verb no noun", text: "hello there, how are you"},
		{name: "noun without verb", text: "the timesheet situation"},
		{name: "verb without noun or id", text: "show me everything"},
		{name: "two competing targets", text: "timesheet invoice mismatch, please update"},
		{name: "empty", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, ok := c.Classify(tt.text, tt.ents)
			assert.False(t, ok)
			assert.Equal(t, models.UnknownIntent(), intent)
		})
	}
}
