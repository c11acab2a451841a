package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"talentops-bot/internal/models"
)

type RateStore struct {
	col     *mongo.Collection
	timeout time.Duration
}

func (s *RateStore) Get(ctx context.Context, projectID, talentID string) (*models.RateCard, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var rc models.RateCard
	err := s.col.FindOne(ctx, bson.M{
		"project_id": projectID,
		"talent_id":  talentID,
	}).Decode(&rc)
	if err != nil {
		return nil, mapErr("rate_card_get", err)
	}
	return &rc, nil
}
