package parser

import (
	"strings"
	"text/template"
)

// instructionTemplate tells the model exactly what JSON to emit. The
// field names mirror the wire form of ExtractedEntities.
const instructionTemplate = `You are the intent parser of a talent operations assistant. The assistant
manages these MongoDB collections:

- timesheets: timesheetId (TS-YYYYMM-NNN), projectId, talentId, startDate,
  endDate, totalHours, status (draft|submitted|approved|rejected)
- invoices: invoiceNumber (INV-YYYYMM-NNN), timesheetId, expenseId, amount,
  currency, dueDate, status (draft|sent|paid|cancelled)
- expenses: expenseId (UUID), projectId, talentId, amount, currency,
  status (pending|approved|rejected|paid)
- projects: projectId (UUID), name
- talents: talentId (UUID), name

Classify the user query below and extract every field it mentions.

Query: {{.Query}}

Respond with a single JSON object and nothing else, no prose, no markdown:

{
  "action": "CREATE|READ|UPDATE|DELETE|QUERY|UNKNOWN",
  "entity_type": "TIMESHEET|INVOICE|EXPENSE|PROJECT|TALENT|UNKNOWN",
  "confidence": 0.0,
  "entities": {
    "timesheet_id": "", "invoice_number": "", "expense_id": "",
    "project_id": "", "project_name": "", "talent_id": "", "talent_name": "",
    "start_date": "YYYY-MM-DD", "end_date": "YYYY-MM-DD",
    "status": "", "hours": 0, "amount": 0, "currency": ""
  }
}

Omit entity fields the query does not mention. Dates must be ISO format.
If the query is not about any of these collections, use "UNKNOWN".`

var promptTemplate = template.Must(template.New("instruction").Parse(instructionTemplate))

type promptData struct {
	Query string
}

func renderPrompt(query string) (string, error) {
	var b strings.Builder
	if err := promptTemplate.Execute(&b, promptData{Query: query}); err != nil {
		return "", err
	}
	return b.String(), nil
}
