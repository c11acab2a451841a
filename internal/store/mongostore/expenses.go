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

type ExpenseStore struct {
	col     *mongo.Collection
	timeout time.Duration
}

func (s *ExpenseStore) Get(ctx context.Context, id string) (*models.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var exp models.Expense
	err := s.col.FindOne(ctx, bson.M{"expense_id": id}).Decode(&exp)
	if err != nil {
		return nil, mapErr("expense_get", err)
	}
	return &exp, nil
}

func (s *ExpenseStore) List(ctx context.Context, filter store.ExpenseFilter) ([]models.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := bson.M{}
	if filter.ProjectID != "" {
		query["project_id"] = filter.ProjectID
	}
	if filter.TalentID != "" {
		query["user_id"] = filter.TalentID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find()
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, mapErr("expense_list", err)
	}
	defer cursor.Close(ctx)

	var results []models.Expense
	if err := cursor.All(ctx, &results); err != nil {
		return nil, mapErr("expense_list", err)
	}
	return results, nil
}
