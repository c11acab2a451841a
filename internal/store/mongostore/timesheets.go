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

type TimesheetStore struct {
	col     *mongo.Collection
	timeout time.Duration
}

func (s *TimesheetStore) Get(ctx context.Context, id string) (*models.Timesheet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var ts models.Timesheet
	err := s.col.FindOne(ctx, bson.M{"timesheet_id": id}).Decode(&ts)
	if err != nil {
		return nil, mapErr("timesheet_get", err)
	}
	return &ts, nil
}

func (s *TimesheetStore) List(ctx context.Context, filter store.TimesheetFilter) ([]models.Timesheet, error) {
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
	if filter.StartDate != "" {
		query["start_date"] = bson.M{"$gte": filter.StartDate}
	}
	if filter.EndDate != "" {
		query["end_date"] = bson.M{"$lte": filter.EndDate}
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, mapErr("timesheet_list", err)
	}
	defer cursor.Close(ctx)

	var results []models.Timesheet
	if err := cursor.All(ctx, &results); err != nil {
		return nil, mapErr("timesheet_list", err)
	}
	return results, nil
}

func (s *TimesheetStore) FindByKey(ctx context.Context, key store.TimesheetKey) (*models.Timesheet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var ts models.Timesheet
	err := s.col.FindOne(ctx, bson.M{
		"project_id": key.ProjectID,
		"user_id":    key.TalentID,
		"start_date": key.StartDate,
		"end_date":   key.EndDate,
	}).Decode(&ts)
	if err != nil {
		return nil, mapErr("timesheet_find_by_key", err)
	}
	return &ts, nil
}

func (s *TimesheetStore) Insert(ctx context.Context, ts *models.Timesheet) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.col.InsertOne(ctx, ts)
	return mapErr("timesheet_insert", err)
}

func (s *TimesheetStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.col.UpdateOne(ctx, bson.M{"timesheet_id": id}, bson.M{"$set": fields})
	if err != nil {
		return mapErr("timesheet_update", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
