package store

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"aggregator-service/model"
)

// FeedbackStore appends feedback events to the user_feedback collection.
// Events are immutable; there are no update or delete operations.
type FeedbackStore struct {
	col *mongo.Collection
}

func NewFeedbackStore(db *mongo.Database) *FeedbackStore {
	return &FeedbackStore{col: db.Collection("user_feedback")}
}

func (s *FeedbackStore) Insert(ctx context.Context, ev model.FeedbackEvent) error {
	_, err := s.col.InsertOne(ctx, ev)
	return err
}
