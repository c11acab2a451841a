package mongostore

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"talentops-bot/internal/models"
	"talentops-bot/internal/store"
)

type ProjectStore struct {
	col     *mongo.Collection
	timeout time.Duration
}

func (s *ProjectStore) Get(ctx context.Context, id string) (*models.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var p models.Project
	err := s.col.FindOne(ctx, bson.M{"project_id": id}).Decode(&p)
	if err != nil {
		return nil, mapErr("project_get", err)
	}
	return &p, nil
}

func (s *ProjectStore) GetByName(ctx context.Context, name string) (*models.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Case-insensitive exact match on the name.
	pattern := primitive.Regex{Pattern: "^" + escapeRegex(name) + "$", Options: "i"}

	var p models.Project
	err := s.col.FindOne(ctx, bson.M{"project_name": pattern}).Decode(&p)
	if err != nil {
		return nil, mapErr("project_get_by_name", err)
	}
	return &p, nil
}

func (s *ProjectStore) List(ctx context.Context, filter store.ProjectFilter) ([]models.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := bson.M{}
	if filter.Name != "" {
		query["project_name"] = primitive.Regex{Pattern: escapeRegex(filter.Name), Options: "i"}
	}
	if filter.TalentID != "" {
		query["talent_id"] = filter.TalentID
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
		return nil, mapErr("project_list", err)
	}
	defer cursor.Close(ctx)

	var results []models.Project
	if err := cursor.All(ctx, &results); err != nil {
		return nil, mapErr("project_list", err)
	}
	return results, nil
}

type TalentStore struct {
	col     *mongo.Collection
	timeout time.Duration
}

func (s *TalentStore) Get(ctx context.Context, id string) (*models.Talent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var t models.Talent
	err := s.col.FindOne(ctx, bson.M{"user_id": id}).Decode(&t)
	if err != nil {
		return nil, mapErr("talent_get", err)
	}
	return &t, nil
}

func (s *TalentStore) List(ctx context.Context, limit int64) ([]models.Talent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mapErr("talent_list", err)
	}
	defer cursor.Close(ctx)

	var results []models.Talent
	if err := cursor.All(ctx, &results); err != nil {
		return nil, mapErr("talent_list", err)
	}
	return results, nil
}

// escapeRegex neutralizes regex metacharacters in user-supplied names.
func escapeRegex(s string) string {
	return regexp.QuoteMeta(s)
}
