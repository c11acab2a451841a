package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"talentops-bot/internal/models"
	"talentops-bot/internal/store"
)

type InvoiceStore struct {
	col     *mongo.Collection
	timeout time.Duration
}

func (s *InvoiceStore) Get(ctx context.Context, number string) (*models.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var inv models.Invoice
	err := s.col.FindOne(ctx, bson.M{"invoice_number": number}).Decode(&inv)
	if err != nil {
		return nil, mapErr("invoice_get", err)
	}
	return &inv, nil
}

func (s *InvoiceStore) List(ctx context.Context, filter store.InvoiceFilter) ([]models.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := bson.M{}
	if filter.ProjectID != "" {
		query["project_id"] = filter.ProjectID
	}
	if filter.TalentID != "" {
		query["talent_id"] = filter.TalentID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "issue_date", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, mapErr("invoice_list", err)
	}
	defer cursor.Close(ctx)

	var results []models.Invoice
	if err := cursor.All(ctx, &results); err != nil {
		return nil, mapErr("invoice_list", err)
	}
	return results, nil
}

func (s *InvoiceStore) FindByTimesheet(ctx context.Context, timesheetID string) (*models.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var inv models.Invoice
	err := s.col.FindOne(ctx, bson.M{"timesheet_id": timesheetID}).Decode(&inv)
	if err != nil {
		return nil, mapErr("invoice_find_by_timesheet", err)
	}
	return &inv, nil
}

func (s *InvoiceStore) FindByExpense(ctx context.Context, expenseID string) (*models.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var inv models.Invoice
	err := s.col.FindOne(ctx, bson.M{"expense_id": expenseID}).Decode(&inv)
	if err != nil {
		return nil, mapErr("invoice_find_by_expense", err)
	}
	return &inv, nil
}

func (s *InvoiceStore) Insert(ctx context.Context, inv *models.Invoice) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.col.InsertOne(ctx, inv)
	return mapErr("invoice_insert", err)
}

func (s *InvoiceStore) UpdateStatus(ctx context.Context, number, status string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.col.UpdateOne(ctx,
		bson.M{"invoice_number": number},
		bson.M{"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC().Format(time.RFC3339),
		}},
	)
	if err != nil {
		return mapErr("invoice_update_status", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
