// Package mongostore implements the store interfaces on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"talentops-bot/internal/common/database"
	apperrors "talentops-bot/internal/common/errors"
	"talentops-bot/internal/store"
)

const defaultQueryTimeout = 10 * time.Second

// Store bundles the per-collection implementations over one client.
type Store struct {
	Timesheets *TimesheetStore
	Invoices   *InvoiceStore
	Expenses   *ExpenseStore
	Projects   *ProjectStore
	Talents    *TalentStore
	Rates      *RateStore
}

func New(client *database.MongoClient, queryTimeout time.Duration) *Store {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &Store{
		Timesheets: &TimesheetStore{col: client.Collection("timesheets"), timeout: queryTimeout},
		Invoices:   &InvoiceStore{col: client.Collection("invoices"), timeout: queryTimeout},
		Expenses:   &ExpenseStore{col: client.Collection("expenses"), timeout: queryTimeout},
		Projects:   &ProjectStore{col: client.Collection("projects"), timeout: queryTimeout},
		Talents:    &TalentStore{col: client.Collection("talents"), timeout: queryTimeout},
		Rates:      &RateStore{col: client.Collection("talentInvoice"), timeout: queryTimeout},
	}
}

// mapErr translates driver errors into the store/error taxonomy. Absent
// documents become store.ErrNotFound; deadline hits become retryable
// timeout errors; everything else is a database error with the driver
// text kept out of user reach.
func mapErr(operation string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError(operation)
	default:
		return apperrors.NewDatabaseError(operation, err)
	}
}
