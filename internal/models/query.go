// Package models defines the shared types flowing through the query pipeline:
// intents, extracted entities, operation requests/results and the domain
// documents stored in MongoDB.
package models

// Action is the operation a user wants to perform.
type Action string

const (
	ActionCreate  Action = "CREATE"
	ActionRead    Action = "READ"
	ActionUpdate  Action = "UPDATE"
	ActionDelete  Action = "DELETE"
	ActionQuery   Action = "QUERY"
	ActionUnknown Action = "UNKNOWN"
)

// EntityType identifies which collection a query targets.
type EntityType string

const (
	EntityTimesheet EntityType = "TIMESHEET"
	EntityInvoice   EntityType = "INVOICE"
	EntityExpense   EntityType = "EXPENSE"
	EntityProject   EntityType = "PROJECT"
	EntityTalent    EntityType = "TALENT"
	EntityUnknown   EntityType = "UNKNOWN"
)

// Intent is the classified meaning of a query: what to do, and to what.
type Intent struct {
	Action     Action     `json:"action"`
	EntityType EntityType `json:"entityType"`
	Confidence float64    `json:"confidence"`
}

// Unknown reports whether the intent could not be resolved.
func (i Intent) Unknown() bool {
	return i.Action == ActionUnknown || i.Action == "" ||
		i.EntityType == EntityUnknown || i.EntityType == ""
}

// UnknownIntent is returned when neither the ruleset nor the fallback
// parser could make sense of a query.
func UnknownIntent() Intent {
	return Intent{Action: ActionUnknown, EntityType: EntityUnknown}
}

// Query is a single user request. Immutable once received.
type Query struct {
	Text   string `json:"query"`
	UserID string `json:"user_id,omitempty"`
}

// ExtractedEntities holds the typed fields recognized in a query.
// A zero value means the field was absent, which is a valid state.
type ExtractedEntities struct {
	TimesheetID   string   `json:"timesheet_id,omitempty"`
	InvoiceNumber string   `json:"invoice_number,omitempty"`
	ExpenseID     string   `json:"expense_id,omitempty"`
	ProjectID     string   `json:"project_id,omitempty"`
	ProjectName   string   `json:"project_name,omitempty"`
	TalentID      string   `json:"talent_id,omitempty"`
	TalentName    string   `json:"talent_name,omitempty"`
	StartDate     string   `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate       string   `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status        string   `json:"status,omitempty"`
	Hours         *float64 `json:"hours,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
	Currency      string   `json:"currency,omitempty"`
}

// Merge fills fields that are absent on e with values from other.
// Fields already present on e always win: deterministic extraction
// takes precedence over fallback parser output.
func (e *ExtractedEntities) Merge(other ExtractedEntities) {
	if e.TimesheetID == "" {
		e.TimesheetID = other.TimesheetID
	}
	if e.InvoiceNumber == "" {
		e.InvoiceNumber = other.InvoiceNumber
	}
	if e.ExpenseID == "" {
		e.ExpenseID = other.ExpenseID
	}
	if e.ProjectID == "" {
		e.ProjectID = other.ProjectID
	}
	if e.ProjectName == "" {
		e.ProjectName = other.ProjectName
	}
	if e.TalentID == "" {
		e.TalentID = other.TalentID
	}
	if e.TalentName == "" {
		e.TalentName = other.TalentName
	}
	if e.StartDate == "" {
		e.StartDate = other.StartDate
	}
	if e.EndDate == "" {
		e.EndDate = other.EndDate
	}
	if e.Status == "" {
		e.Status = other.Status
	}
	if e.Hours == nil {
		e.Hours = other.Hours
	}
	if e.Amount == nil {
		e.Amount = other.Amount
	}
	if e.Currency == "" {
		e.Currency = other.Currency
	}
}

// OperationRequest is the handoff from classification to dispatch.
type OperationRequest struct {
	Intent   Intent            `json:"intent"`
	Entities ExtractedEntities `json:"entities"`
	UserID   string            `json:"userId,omitempty"`
}

// Record is one result row returned to the formatter.
type Record map[string]interface{}

// OperationResult is what a handler returns to the orchestrator.
type OperationResult struct {
	Operation  string     `json:"operation"`
	EntityType EntityType `json:"entityType,omitempty"`
	Records    []Record   `json:"records,omitempty"`
	Record     Record     `json:"record,omitempty"`
	CreatedID  string     `json:"createdId,omitempty"`
	UpdatedID  string     `json:"updatedId,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// ResponseMetadata is the machine-readable part of the envelope.
type ResponseMetadata struct {
	Intent     Action            `json:"intent,omitempty"`
	EntityType EntityType        `json:"entityType,omitempty"`
	Entities   ExtractedEntities `json:"entities,omitempty"`
	Confidence float64           `json:"confidence,omitempty"`
	State      string            `json:"state,omitempty"`
	ErrorCode  string            `json:"errorCode,omitempty"`
}

// FormattedResponse is the uniform envelope returned to the caller.
type FormattedResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"result,omitempty"`
	Error    string           `json:"error,omitempty"`
	Result   *OperationResult `json:"-"`
	Metadata ResponseMetadata `json:"metadata,omitempty"`
}
