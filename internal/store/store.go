// Package store defines the persistence interfaces the operation
// handlers depend on. Implementations live in subpackages; handlers are
// tested against in-memory fakes.
package store

import (
	"context"
	"errors"

	"talentops-bot/internal/models"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("not found")

// TimesheetFilter narrows a timesheet listing. Zero fields are ignored.
type TimesheetFilter struct {
	ProjectID string
	TalentID  string
	Status    string
	StartDate string
	EndDate   string
	Limit     int64
}

// TimesheetKey is the business identity of a timesheet. Two creates with
// the same key refer to the same timesheet.
type TimesheetKey struct {
	ProjectID string
	TalentID  string
	StartDate string
	EndDate   string
}

type TimesheetStore interface {
	Get(ctx context.Context, id string) (*models.Timesheet, error)
	List(ctx context.Context, filter TimesheetFilter) ([]models.Timesheet, error)
	FindByKey(ctx context.Context, key TimesheetKey) (*models.Timesheet, error)
	Insert(ctx context.Context, ts *models.Timesheet) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
}

// InvoiceFilter narrows an invoice listing. Zero fields are ignored.
type InvoiceFilter struct {
	ProjectID string
	TalentID  string
	Status    string
	Limit     int64
}

type InvoiceStore interface {
	Get(ctx context.Context, number string) (*models.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]models.Invoice, error)
	FindByTimesheet(ctx context.Context, timesheetID string) (*models.Invoice, error)
	FindByExpense(ctx context.Context, expenseID string) (*models.Invoice, error)
	Insert(ctx context.Context, inv *models.Invoice) error
	UpdateStatus(ctx context.Context, number, status string) error
}

// ExpenseFilter narrows an expense listing. Zero fields are ignored.
type ExpenseFilter struct {
	ProjectID string
	TalentID  string
	Status    string
	Limit     int64
}

type ExpenseStore interface {
	Get(ctx context.Context, id string) (*models.Expense, error)
	List(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error)
}

// ProjectFilter narrows a project listing. Zero fields are ignored.
type ProjectFilter struct {
	Name     string
	TalentID string
	Status   string
	Limit    int64
}

type ProjectStore interface {
	Get(ctx context.Context, id string) (*models.Project, error)
	GetByName(ctx context.Context, name string) (*models.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, error)
}

type TalentStore interface {
	Get(ctx context.Context, id string) (*models.Talent, error)
	List(ctx context.Context, limit int64) ([]models.Talent, error)
}

// RateStore resolves the invoicing terms agreed between a project and a
// talent.
type RateStore interface {
	Get(ctx context.Context, projectID, talentID string) (*models.RateCard, error)
}
