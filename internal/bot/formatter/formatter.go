// Package formatter renders operation results into user-facing text.
// Rendering is pure and deterministic: the same intent and result always
// produce the same string, and raw driver or transport errors never
// appear in the output.
package formatter

import (
	"fmt"
	"sort"
	"strings"

	apperrors "talentops-bot/internal/common/errors"
	"talentops-bot/internal/models"
)

const (
	defaultListLimit = 20
	maxNestedRows    = 10
)

type Formatter struct {
	listLimit int
}

func New(listLimit int) *Formatter {
	if listLimit <= 0 {
		listLimit = defaultListLimit
	}
	return &Formatter{listLimit: listLimit}
}

// Format renders a successful operation result.
func (f *Formatter) Format(intent models.Intent, result *models.OperationResult) string {
	if result == nil {
		return "Done."
	}

	switch intent.Action {
	case models.ActionCreate:
		return f.formatCreate(intent.EntityType, result)
	case models.ActionUpdate:
		return f.formatUpdate(intent.EntityType, result)
	case models.ActionRead, models.ActionQuery:
		return f.formatRead(intent.EntityType, result)
	default:
		if result.Message != "" {
			return result.Message
		}
		return "Done."
	}
}

// FormatError renders a failure as a single user-safe sentence. Only the
// canned message for the error code is used; details stay in the logs.
func (f *Formatter) FormatError(err error) string {
	return apperrors.UserMessage(apperrors.CodeOf(err))
}

func (f *Formatter) formatCreate(entity models.EntityType, result *models.OperationResult) string {
	id := result.CreatedID
	if id == "" {
		id = recordID(entity, result.Record)
	}

	var b strings.Builder
	switch entity {
	case models.EntityTimesheet:
		fmt.Fprintf(&b, "Created timesheet %s.", id)
	case models.EntityInvoice:
		fmt.Fprintf(&b, "Created invoice %s.", id)
	default:
		fmt.Fprintf(&b, "Created %s %s.", strings.ToLower(string(entity)), id)
	}
	if result.Message != "" {
		b.WriteString(" ")
		b.WriteString(result.Message)
	}
	if result.Record != nil {
		b.WriteString("\n")
		b.WriteString(f.renderRecord(entity, result.Record))
	}
	return b.String()
}

func (f *Formatter) formatUpdate(entity models.EntityType, result *models.OperationResult) string {
	id := result.UpdatedID
	if id == "" {
		id = recordID(entity, result.Record)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Updated %s %s.", strings.ToLower(string(entity)), id)
	if result.Message != "" {
		b.WriteString(" ")
		b.WriteString(result.Message)
	}
	return b.String()
}

func (f *Formatter) formatRead(entity models.EntityType, result *models.OperationResult) string {
	if result.Record != nil {
		return f.renderRecord(entity, result.Record)
	}

	if len(result.Records) == 0 {
		return fmt.Sprintf("No %s found.", pluralName(entity))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s:\n", len(result.Records), pluralName(entity))

	shown := result.Records
	if len(shown) > f.listLimit {
		shown = shown[:f.listLimit]
	}
	for _, rec := range shown {
		b.WriteString("- ")
		b.WriteString(f.renderSummaryLine(entity, rec))
		b.WriteString("\n")
	}
	if extra := len(result.Records) - len(shown); extra > 0 {
		fmt.Fprintf(&b, "... and %d more\n", extra)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderRecord renders a single record in full, entity-specific layout.
func (f *Formatter) renderRecord(entity models.EntityType, rec models.Record) string {
	var b strings.Builder
	b.WriteString(f.renderSummaryLine(entity, rec))

	switch entity {
	case models.EntityTimesheet:
		f.renderNestedRows(&b, rec, "entries", func(row models.Record) string {
			return fmt.Sprintf("%s: %s hours", str(row, "date"), num(row, "hours"))
		})
	case models.EntityInvoice:
		f.renderNestedRows(&b, rec, "items", func(row models.Record) string {
			return fmt.Sprintf("%s: %s", str(row, "description"), num(row, "amount"))
		})
	case models.EntityExpense:
		f.renderNestedRows(&b, rec, "items", func(row models.Record) string {
			return fmt.Sprintf("%s: %s", str(row, "description"), num(row, "amount"))
		})
	}
	return b.String()
}

func (f *Formatter) renderNestedRows(b *strings.Builder, rec models.Record, key string, line func(models.Record) string) {
	rows := nestedRecords(rec, key)
	if len(rows) == 0 {
		return
	}

	shown := rows
	if len(shown) > maxNestedRows {
		shown = shown[:maxNestedRows]
	}
	for _, row := range shown {
		b.WriteString("\n  ")
		b.WriteString(line(row))
	}
	if extra := len(rows) - len(shown); extra > 0 {
		fmt.Fprintf(b, "\n  ... and %d more", extra)
	}
}

func (f *Formatter) renderSummaryLine(entity models.EntityType, rec models.Record) string {
	switch entity {
	case models.EntityTimesheet:
		return fmt.Sprintf("Timesheet %s | project %s | talent %s | %s to %s | %s hours | %s",
			str(rec, "timesheetId"), str(rec, "projectId"), str(rec, "talentId"),
			str(rec, "startDate"), str(rec, "endDate"), num(rec, "totalHours"), str(rec, "status"))
	case models.EntityInvoice:
		return fmt.Sprintf("Invoice %s | %s %s | due %s | %s",
			str(rec, "invoiceNumber"), num(rec, "amount"), str(rec, "currency"),
			str(rec, "dueDate"), str(rec, "status"))
	case models.EntityExpense:
		return fmt.Sprintf("Expense %s | %s %s | %s",
			str(rec, "expenseId"), num(rec, "amount"), str(rec, "currency"), str(rec, "status"))
	case models.EntityProject:
		return fmt.Sprintf("Project %s | %s", str(rec, "projectId"), str(rec, "name"))
	case models.EntityTalent:
		return fmt.Sprintf("Talent %s | %s", str(rec, "talentId"), str(rec, "name"))
	default:
		return genericLine(rec)
	}
}

func recordID(entity models.EntityType, rec models.Record) string {
	if rec == nil {
		return ""
	}
	switch entity {
	case models.EntityTimesheet:
		return str(rec, "timesheetId")
	case models.EntityInvoice:
		return str(rec, "invoiceNumber")
	case models.EntityExpense:
		return str(rec, "expenseId")
	case models.EntityProject:
		return str(rec, "projectId")
	case models.EntityTalent:
		return str(rec, "talentId")
	default:
		return ""
	}
}

func pluralName(entity models.EntityType) string {
	switch entity {
	case models.EntityTimesheet:
		return "timesheets"
	case models.EntityInvoice:
		return "invoices"
	case models.EntityExpense:
		return "expenses"
	case models.EntityProject:
		return "projects"
	case models.EntityTalent:
		return "talents"
	default:
		return "records"
	}
}

func nestedRecords(rec models.Record, key string) []models.Record {
	raw, ok := rec[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []models.Record:
		return v
	case []map[string]interface{}:
		out := make([]models.Record, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out
	case []interface{}:
		var out []models.Record
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

func str(rec models.Record, key string) string {
	if v, ok := rec[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return "-"
}

func num(rec models.Record, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return "-"
	}
	switch n := v.(type) {
	case float64:
		return trimZeros(n)
	case float32:
		return trimZeros(float64(n))
	case int:
		return fmt.Sprintf("%d", n)
	case int64:
		return fmt.Sprintf("%d", n)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func trimZeros(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// genericLine renders unknown record shapes with stable key order.
func genericLine(rec models.Record) string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, rec[k]))
	}
	return strings.Join(parts, " | ")
}
