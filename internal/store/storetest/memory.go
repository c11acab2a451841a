// Package storetest provides in-memory store implementations for tests.
package storetest

import (
	"context"
	"strings"
	"sync"

	"talentops-bot/internal/models"
	"talentops-bot/internal/store"
)

// Memory holds test fixtures for every collection. The per-interface
// stores are obtained through the view methods below. Safe for
// concurrent use.
type Memory struct {
	mu         sync.Mutex
	Timesheets []models.Timesheet
	Invoices   []models.Invoice
	Expenses   []models.Expense
	Projects   []models.Project
	Talents    []models.Talent
	Rates      []models.RateCard

	// FailWith, when set, makes every store call return this error.
	FailWith error
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) TimesheetStore() store.TimesheetStore { return timesheetView{m} }
func (m *Memory) InvoiceStore() store.InvoiceStore     { return invoiceView{m} }
func (m *Memory) ExpenseStore() store.ExpenseStore     { return expenseView{m} }
func (m *Memory) ProjectStore() store.ProjectStore     { return projectView{m} }
func (m *Memory) TalentStore() store.TalentStore       { return talentView{m} }
func (m *Memory) RateStore() store.RateStore           { return rateView{m} }

type timesheetView struct{ m *Memory }

func (v timesheetView) Get(_ context.Context, id string) (*models.Timesheet, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return nil, v.m.FailWith
	}
	for i := range v.m.Timesheets {
		if v.m.Timesheets[i].TimesheetID == id {
			ts := v.m.Timesheets[i]
			return &ts, nil
		}
	}
	return nil, store.ErrNotFound
}

func (v timesheetView) List(_ context.Context, filter store.TimesheetFilter) ([]models.Timesheet, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return nil, v.m.FailWith
	}
	var out []models.Timesheet
	for _, ts := range v.m.Timesheets {
		if filter.ProjectID != "" && ts.ProjectID != filter.ProjectID {
			continue
		}
		if filter.TalentID != "" && ts.UserID != filter.TalentID {
			continue
		}
		if filter.Status != "" && ts.Status != filter.Status {
			continue
		}
		if filter.StartDate != "" && ts.StartDate < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && ts.EndDate > filter.EndDate {
			continue
		}
		out = append(out, ts)
		if filter.Limit > 0 && int64(len(out)) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (v timesheetView) FindByKey(_ context.Context, key store.TimesheetKey) (*models.Timesheet, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return nil, v.m.FailWith
	}
	for i := range v.m.Timesheets {
		ts := v.m.Timesheets[i]
		if ts.ProjectID == key.ProjectID && ts.UserID == key.TalentID &&
			ts.StartDate == key.StartDate && ts.EndDate == key.EndDate {
			return &ts, nil
		}
	}
	return nil, store.ErrNotFound
}

func (v timesheetView) Insert(_ context.Context, ts *models.Timesheet) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return v.m.FailWith
	}
	v.m.Timesheets = append(v.m.Timesheets, *ts)
	return nil
}

func (v timesheetView) Update(_ context.Context, id string, fields map[string]interface{}) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return v.m.FailWith
	}
	for i := range v.m.Timesheets {
		if v.m.Timesheets[i].TimesheetID != id {
			continue
		}
		ts := &v.m.Timesheets[i]
		if s, ok := fields["status"].(string); ok {
			ts.Status = s
		}
		if s, ok := fields["start_date"].(string); ok {
			ts.StartDate = s
		}
		if s, ok := fields["end_date"].(string); ok {
			ts.EndDate = s
		}
		if f, ok := fields["total_hours"].(float64); ok {
			ts.TotalHours = f
		}
		if e, ok := fields["entries"].([]models.TimesheetEntry); ok {
			ts.Entries = e
		}
		if s, ok := fields["updated_at"].(string); ok {
			ts.UpdatedAt = s
		}
		return nil
	}
	return store.ErrNotFound
}

type invoiceView struct{ m *Memory }

func (v invoiceView) Get(_ context.Context, number string) (*models.Invoice, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return nil, v.m.FailWith
	}
	for i := range v.m.Invoices {
		if v.m.Invoices[i].InvoiceNumber == number {
			inv := v.m.Invoices[i]
			return &inv, nil
		}
	}
	return nil, store.ErrNotFound
}

func (v invoiceView) List(_ context.Context, filter store.InvoiceFilter) ([]models.Invoice, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return nil, v.m.FailWith
	}
	var out []models.Invoice
	for _, inv := range v.m.Invoices {
		if filter.ProjectID != "" && inv.ProjectID != filter.ProjectID {
			continue
		}
		if filter.TalentID != "" && inv.TalentID != filter.TalentID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		out = append(out, inv)
		if filter.Limit > 0 && int64(len(out)) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (v invoiceView) FindByTimesheet(_ context.Context, timesheetID string) (*models.Invoice, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return nil, v.m.FailWith
	}
	for i := range v.m.Invoices {
		if v.m.Invoices[i].TimesheetID == timesheetID {
			inv := v.m.Invoices[i]
			return &inv, nil
		}
	}
	return nil, store.ErrNotFound
}

func (v invoiceView) FindByExpense(_ context.Context, expenseID string) (*models.Invoice, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return nil, v.m.FailWith
	}
	for i := range v.m.Invoices {
		if v.m.Invoices[i].ExpenseID == expenseID {
			inv := v.m.Invoices[i]
			return &inv, nil
		}
	}
	return nil, store.ErrNotFound
}

func (v invoiceView) Insert(_ context.Context, inv *models.Invoice) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return v.m.FailWith
	}
	v.m.Invoices = append(v.m.Invoices, *inv)
	return nil
}

func (v invoiceView) UpdateStatus(_ context.Context, number, status string) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return v.m.FailWith
	}
	for i := range v.m.Invoices {
		if v.m.Invoices[i].InvoiceNumber == number {
			v.m.Invoices[i].Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

type expenseView struct{ m *Memory }

func (v expenseView) Get(_ context.Context, id string) (*models.Expense, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return nil, v.m.FailWith
	}
	for i := range v.m.Expenses {
		if v.m.Expenses[i].ExpenseID == id {
			exp := v.m.Expenses[i]
			return &exp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (v expenseView) List(_ context.Context, filter store.ExpenseFilter) ([]models.Expense, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return nil, v.m.FailWith
	}
	var out []models.Expense
	for _, exp := range v.m.Expenses {
		if filter.ProjectID != "" && exp.ProjectID != filter.ProjectID {
			continue
		}
		if filter.TalentID != "" && exp.UserID != filter.TalentID {
			continue
		}
		if filter.Status != "" && exp.Status != filter.Status {
			continue
		}
		out = append(out, exp)
		if filter.Limit > 0 && int64(len(out)) >= filter.Limit {
			break
		}
	}
	return out, nil
}

type projectView struct{ m *Memory }

func (v projectView) Get(_ context.Context, id string) (*models.Project, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return nil, v.m.FailWith
	}
	for i := range v.m.Projects {
		if v.m.Projects[i].ProjectID == id {
			p := v.m.Projects[i]
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (v projectView) GetByName(_ context.Context, name string) (*models.Project, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return nil, v.m.FailWith
	}
	for i := range v.m.Projects {
		if strings.EqualFold(v.m.Projects[i].ProjectName, name) {
			p := v.m.Projects[i]
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (v projectView) List(_ context.Context, filter store.ProjectFilter) ([]models.Project, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return nil, v.m.FailWith
	}
	var out []models.Project
	for _, p := range v.m.Projects {
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.ProjectName), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.TalentID != "" && p.TalentID != filter.TalentID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
		if filter.Limit > 0 && int64(len(out)) >= filter.Limit {
			break
		}
	}
	return out, nil
}

type talentView struct{ m *Memory }

func (v talentView) Get(_ context.Context, id string) (*models.Talent, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return nil, v.m.FailWith
	}
	for i := range v.m.Talents {
		if v.m.Talents[i].UserID == id {
			t := v.m.Talents[i]
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

func (v talentView) List(_ context.Context, limit int64) ([]models.Talent, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return nil, v.m.FailWith
	}
	out := append([]models.Talent(nil), v.m.Talents...)
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type rateView struct{ m *Memory }

func (v rateView) Get(_ context.Context, projectID, talentID string) (*models.RateCard, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.FailWith != nil {
		return nil, v.m.FailWith
	}
	for i := range v.m.Rates {
		rc := v.m.Rates[i]
		if rc.ProjectID == projectID && rc.TalentID == talentID {
			return &rc, nil
		}
	}
	return nil, store.ErrNotFound
}
