package models

// Collection names used by the stores.
const (
	CollectionTimesheets = "timesheets"
	CollectionInvoices   = "invoices"
	CollectionExpenses   = "expenses"
	CollectionProjects   = "projects"
	CollectionTalents    = "talents"
	CollectionRateCards  = "talentInvoice"
)

// Timesheet statuses.
const (
	TimesheetStatusDraft     = "draft"
	TimesheetStatusSubmitted = "submitted"
	TimesheetStatusApproved  = "approved"
	TimesheetStatusRejected  = "rejected"
)

// Invoice statuses.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// TimesheetEntry is a single day's worked hours.
type TimesheetEntry struct {
	Date        string  `bson:"date" json:"date"`
	Hours       float64 `bson:"hours" json:"hours"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
}

// Timesheet mirrors the timesheets collection.
type Timesheet struct {
	TimesheetID string           `bson:"timesheet_id" json:"timesheet_id"`
	ProjectID   string           `bson:"project_id" json:"project_id"`
	UserID      string           `bson:"user_id" json:"user_id"`
	StartDate   string           `bson:"start_date" json:"start_date"`
	EndDate     string           `bson:"end_date" json:"end_date"`
	Status      string           `bson:"status" json:"status"`
	Entries     []TimesheetEntry `bson:"entries" json:"entries"`
	TotalHours  float64          `bson:"total_hours" json:"total_hours"`
	CreatedAt   string           `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt   string           `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// InvoiceItem is one billable line on an invoice.
type InvoiceItem struct {
	Description string  `bson:"description" json:"description"`
	Quantity    float64 `bson:"quantity" json:"quantity"`
	Rate        float64 `bson:"rate" json:"rate"`
	Amount      float64 `bson:"amount" json:"amount"`
	RateType    string  `bson:"rate_type,omitempty" json:"rate_type,omitempty"`
}

// Invoice mirrors the invoices collection.
type Invoice struct {
	InvoiceNumber string        `bson:"invoice_number" json:"invoice_number"`
	ProjectID     string        `bson:"project_id,omitempty" json:"project_id,omitempty"`
	TalentID      string        `bson:"talent_id,omitempty" json:"talent_id,omitempty"`
	TimesheetID   string        `bson:"timesheet_id,omitempty" json:"timesheet_id,omitempty"`
	ExpenseID     string        `bson:"expense_id,omitempty" json:"expense_id,omitempty"`
	Status        string        `bson:"status" json:"status"`
	Items         []InvoiceItem `bson:"items" json:"items"`
	Currency      string        `bson:"currency" json:"currency"`
	IssueDate     string        `bson:"issue_date,omitempty" json:"issue_date,omitempty"`
	DueDate       string        `bson:"due_date,omitempty" json:"due_date,omitempty"`
	CreatedAt     string        `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt     string        `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ExpenseItem is one line on an expense report.
type ExpenseItem struct {
	Description string  `bson:"description" json:"description"`
	Quantity    float64 `bson:"quantity" json:"quantity"`
	Amount      float64 `bson:"amount" json:"amount"`
}

// Expense mirrors the expenses collection.
type Expense struct {
	ExpenseID   string        `bson:"expense_id" json:"expense_id"`
	ProjectID   string        `bson:"project_id" json:"project_id"`
	UserID      string        `bson:"user_id" json:"user_id"`
	Currency    string        `bson:"currency" json:"currency"`
	Status      string        `bson:"status" json:"status"`
	Items       []ExpenseItem `bson:"items" json:"items"`
	TotalAmount float64       `bson:"total_amount" json:"total_amount"`
}

// Project mirrors the projects collection.
type Project struct {
	ProjectID   string `bson:"project_id" json:"project_id"`
	ProjectName string `bson:"project_name" json:"project_name"`
	ClientID    string `bson:"client_id,omitempty" json:"client_id,omitempty"`
	TalentID    string `bson:"talent_id,omitempty" json:"talent_id,omitempty"`
	Status      string `bson:"status,omitempty" json:"status,omitempty"`
}

// Talent mirrors the talents collection.
type Talent struct {
	UserID           string `bson:"user_id" json:"user_id"`
	Country          string `bson:"country,omitempty" json:"country,omitempty"`
	CompanyLegalName string `bson:"companyLegalName,omitempty" json:"companyLegalName,omitempty"`
}

// Rate types accepted on a rate card.
const (
	RateTypeHourly  = "Hourly"
	RateTypeDaily   = "Daily"
	RateTypeWeekly  = "Weekly"
	RateTypeMonthly = "Monthly"
)

// RateCard mirrors the talentInvoice collection: the invoicing terms
// agreed between a project and a talent.
type RateCard struct {
	ProjectID string  `bson:"project_id" json:"project_id"`
	TalentID  string  `bson:"talent_id" json:"talent_id"`
	RateType  string  `bson:"talentInvoiceRateType" json:"talentInvoiceRateType"`
	RateValue float64 `bson:"talentInvoiceRateValue" json:"talentInvoiceRateValue"`
	Currency  string  `bson:"talentInvoicingCurrency" json:"talentInvoicingCurrency"`
}
